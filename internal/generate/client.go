package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgallion1/qaforge/internal/qa"
	"github.com/dgallion1/qaforge/internal/repair"
)

// MaxAttempts bounds the generation attempt loop, counting the first try.
const MaxAttempts = 3

// DefaultRetryDelay is the fixed wait between attempts. No backoff growth.
const DefaultRetryDelay = time.Second

// Client calls an Ollama-compatible chat endpoint for structured Q&A
// generation. The backend is a black box: model and endpoint are passed
// through from configuration.
type Client struct {
	endpoint   string
	model      string
	retryDelay time.Duration
	httpClient *http.Client
	log        *slog.Logger

	Stats *BackendStats
}

func NewClient(endpoint, model string, log *slog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		model:      model,
		retryDelay: DefaultRetryDelay,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		log:   log,
		Stats: NewBackendStats(time.Hour),
	}
}

// SetRetryDelay overrides the wait between attempts.
func (c *Client) SetRetryDelay(d time.Duration) {
	if d >= 0 {
		c.retryDelay = d
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string          `json:"model"`
	Messages []chatMessage   `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   json.RawMessage `json:"format"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// qaSchema constrains the reply to an object holding an array of
// question/answer string pairs.
var qaSchema = json.RawMessage(`{
	"type": "object",
	"required": ["questions"],
	"properties": {
		"questions": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["question", "answer"],
				"properties": {
					"question": {"type": "string"},
					"answer": {"type": "string"}
				}
			}
		}
	}
}`)

type qaPayload struct {
	Questions []qa.Item `json:"questions"`
}

// Generate asks the backend for count Q&A pairs about text, repairing and
// parsing the reply. Any failure — transport, non-success status, envelope
// parse, schema parse after repair — is retried up to MaxAttempts total
// tries with a fixed delay in between. The returned slice is whatever the
// backend produced; length reconciliation is the caller's concern.
func (c *Client) Generate(ctx context.Context, text string, count int) ([]qa.Item, error) {
	system, user := BuildPrompts(text, count)

	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if attempt > 1 {
			c.Stats.RecordRetry()
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, &GenerationError{Attempts: attempt - 1, Err: ctx.Err()}
			}
		}

		items, err := c.generateOnce(ctx, system, user)
		if err == nil {
			c.log.Debug("generation succeeded",
				"requested", count, "received", len(items), "attempt", attempt)
			return items, nil
		}
		lastErr = err
		c.log.Warn("generation attempt failed",
			"attempt", attempt, "max_attempts", MaxAttempts, "error", err)
		if ctx.Err() != nil {
			break
		}
	}

	c.Stats.RecordFailure()
	return nil, &GenerationError{Attempts: MaxAttempts, Err: lastErr}
}

func (c *Client) generateOnce(ctx context.Context, system, user string) ([]qa.Item, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: false,
		Format: qaSchema,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &BackendError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	c.Stats.Record(time.Since(start).Milliseconds())
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &BackendError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}

	var envelope chatResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, &ParseError{
			Stage: "envelope",
			Raw:   truncate(string(respBody), 400),
			Err:   err,
		}
	}

	repaired := repair.Repair(envelope.Message.Content)

	var payload qaPayload
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return nil, &ParseError{
			Stage:    "schema",
			Raw:      truncate(envelope.Message.Content, 400),
			Repaired: truncate(repaired, 400),
			Err:      err,
		}
	}

	return payload.Questions, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
