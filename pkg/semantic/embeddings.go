package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultEmbeddingsTimeout bounds a single embeddings-service call. The hook
// is best effort; a slow service must not delay candidate validation.
const DefaultEmbeddingsTimeout = 5 * time.Second

// EmbeddingsClient calls an external embeddings service that returns a cosine
// similarity for a pair of texts.
type EmbeddingsClient struct {
	endpoint string
	client   *http.Client
}

// NewEmbeddingsClient creates a client for the given endpoint. A zero timeout
// falls back to DefaultEmbeddingsTimeout.
func NewEmbeddingsClient(endpoint string, timeout time.Duration) *EmbeddingsClient {
	if timeout <= 0 {
		timeout = DefaultEmbeddingsTimeout
	}
	return &EmbeddingsClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type similarityRequest struct {
	Texts []string `json:"texts"`
}

type similarityResponse struct {
	Similarity float64 `json:"similarity"`
}

// Similarity returns the service's cosine similarity for the two texts.
func (c *EmbeddingsClient) Similarity(ctx context.Context, a, b string) (float64, error) {
	body, err := json.Marshal(similarityRequest{Texts: []string{a, b}})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal similarity request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create similarity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("embeddings service returned status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read similarity response: %w", err)
	}

	var parsed similarityResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse similarity response: %w", err)
	}

	return parsed.Similarity, nil
}
