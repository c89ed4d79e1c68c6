package metrics

import "context"

// Journal is an append-only record store. Append must be safe for
// concurrent use; ReadAll returns records in append order.
type Journal interface {
	Append(ctx context.Context, rec Record) error
	ReadAll(ctx context.Context) ([]Record, error)
	Close() error
}
