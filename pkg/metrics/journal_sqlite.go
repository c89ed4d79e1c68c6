package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL,
	kind TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	time_ms INTEGER NOT NULL DEFAULT 0,
	llm_calls INTEGER NOT NULL DEFAULT 0,
	tokens_saved_pct REAL NOT NULL DEFAULT 0,
	chosen_source TEXT NOT NULL DEFAULT '',
	semantic_score REAL NOT NULL DEFAULT 0,
	prompt_length INTEGER NOT NULL DEFAULT 0,
	error_type TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT ''
);
`

// SQLiteJournal stores records in a local SQLite database. It satisfies the
// same append-only contract as the file journal with durable writes.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal opens (or creates) the journal database at path and
// applies the schema.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply journal schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// Append inserts one record.
func (j *SQLiteJournal) Append(ctx context.Context, rec Record) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO records (id, kind, timestamp, time_ms, llm_calls,
			tokens_saved_pct, chosen_source, semantic_score, prompt_length,
			error_type, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Kind, rec.Timestamp.UTC().Format(time.RFC3339Nano),
		rec.TimeMs, rec.LLMCalls, rec.TokensSavedPct, rec.ChosenSource,
		rec.SemanticScore, rec.PromptLength, rec.ErrorType, rec.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// ReadAll returns every record in insertion order.
func (j *SQLiteJournal) ReadAll(ctx context.Context) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, kind, timestamp, time_ms, llm_calls, tokens_saved_pct,
			chosen_source, semantic_score, prompt_length, error_type,
			error_message
		FROM records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var ts string
		if err := rows.Scan(&rec.ID, &rec.Kind, &ts, &rec.TimeMs,
			&rec.LLMCalls, &rec.TokensSavedPct, &rec.ChosenSource,
			&rec.SemanticScore, &rec.PromptLength, &rec.ErrorType,
			&rec.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Timestamp = parsed
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

// Close closes the database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
