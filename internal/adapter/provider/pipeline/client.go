// Package pipeline is the HTTP client for the internal content-generation
// pipeline. The dispatcher hands it a content item ID; the pipeline owns
// everything downstream (generation, review queueing, publication).
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/localboost-backend/internal/config"
)

// Client triggers pipeline runs over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a pipeline client from config.
func NewClient(logger *slog.Logger, cfg config.PipelineConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "pipeline"),
	}
}

type runRequest struct {
	ContentItemID string `json:"contentItemId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Run triggers generation for a content item. The call is synchronous from
// the pipeline's point of view only up to acceptance: 202 means the item was
// queued, not generated.
func (c *Client) Run(ctx context.Context, contentItemID uuid.UUID) error {
	body, err := json.Marshal(runRequest{ContentItemID: contentItemID.String()})
	if err != nil {
		return fmt.Errorf("pipeline: encode request: %w", err)
	}

	reqURL := c.baseURL + "/internal/pipeline/run"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("pipeline: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.doWithRetry(ctx, req, body)
	if err != nil {
		c.log.ErrorContext(ctx, "pipeline request failed",
			slog.String("content_item_id", contentItemID.String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("pipeline: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		msg := readError(resp.Body)
		return fmt.Errorf("pipeline: unexpected status %d: %s", resp.StatusCode, msg)
	}

	c.log.DebugContext(ctx, "pipeline run accepted",
		slog.String("content_item_id", contentItemID.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(start)),
	)
	return nil
}

// doWithRetry executes the request with a single retry on 5xx or network
// errors. The body is re-attached because http.Request bodies are one-shot.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "pipeline retry", slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	retry := req.Clone(ctx)
	retry.Body = io.NopCloser(bytes.NewReader(body))
	return c.httpClient.Do(retry)
}

// readError extracts the error message from a failed response, best effort.
func readError(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "no response body"
	}

	var parsed errorResponse
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	return string(data)
}
