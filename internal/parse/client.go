// Package parse turns free-text interaction descriptions into structured
// [model.ParsedInteraction] records using a local Ollama model.
//
// The [Client] first performs a cheap reachability probe against the Ollama
// base URL so a stopped server fails fast with remediation guidance instead
// of eating the cost of a full chat request. The parse request itself uses a
// much longer timeout because local models can be slow on cold start.
//
// The model's JSON reply is decoded defensively with an explicit
// field-by-field mapping: person names and topics are mandatory (their
// absence fails the parse outright), every other field falls back to a
// documented default. Nothing is auto-retried; every failure is surfaced to
// the caller.
package parse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MrWong99/kith/internal/model"
)

// DefaultBaseURL is the base URL of a locally running Ollama instance.
const DefaultBaseURL = "http://localhost:11434"

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "llama3.2:3b"

const (
	defaultProbeTimeout = 3 * time.Second
	defaultParseTimeout = 120 * time.Second
	maxErrorBodyBytes   = 200
)

// ErrModelUnreachable indicates the Ollama server could not be reached at all.
var ErrModelUnreachable = errors.New("parse: model backend unreachable")

// ErrModelTimeout indicates the parse request exceeded its deadline.
var ErrModelTimeout = errors.New("parse: model request timed out")

// ErrMalformedResponse indicates the backend replied but its payload could
// not be interpreted.
var ErrMalformedResponse = errors.New("parse: malformed model response")

// ErrNoPeopleExtracted indicates the model reply was structurally valid but
// named no people. People are mandatory; everything else is editable later.
var ErrNoPeopleExtracted = errors.New("parse: model did not extract any person names")

// ErrNoTopicsExtracted indicates the model reply was structurally valid but
// listed no topics.
var ErrNoTopicsExtracted = errors.New("parse: model did not extract any topics")

// HTTPError is returned for non-2xx responses from the chat endpoint. Body
// carries up to 200 bytes of the response for diagnostics.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("parse: model request failed (HTTP %d): %s", e.StatusCode, e.Body)
}

// Option is a functional option for configuring a [Client].
type Option func(*Client)

// WithProbeTimeout overrides the reachability-check timeout. Default: 3 s.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) { c.probeTimeout = d }
}

// WithParseTimeout overrides the chat request timeout. Default: 120 s.
func WithParseTimeout(d time.Duration) Option {
	return func(c *Client) { c.parseTimeout = d }
}

// WithMaxCorrectionExamples caps how many past corrections are embedded in
// the prompt. Default: 5.
func WithMaxCorrectionExamples(n int) Option {
	return func(c *Client) { c.maxExamples = n }
}

// WithClock overrides the time source used to stamp today's date into the
// prompt. Intended for tests that need a deterministic prompt.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// Client parses interaction descriptions via Ollama's /api/chat endpoint.
// It is safe for concurrent use, though the ingestion pipeline only ever
// runs one session at a time.
type Client struct {
	baseURL      string
	model        string
	probeTimeout time.Duration
	parseTimeout time.Duration
	maxExamples  int
	httpClient   *http.Client
	now          func() time.Time
}

// New creates a [Client] for the Ollama server at baseURL using the given
// chat model. Empty arguments fall back to [DefaultBaseURL] and
// [DefaultModel]. A trailing slash on baseURL is stripped.
func New(baseURL, chatModel string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if chatModel == "" {
		chatModel = DefaultModel
	}
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		model:        chatModel,
		probeTimeout: defaultProbeTimeout,
		parseTimeout: defaultParseTimeout,
		maxExamples:  defaultCorrectionExamples,
		httpClient:   &http.Client{},
		now:          time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CheckReachable issues a bounded GET against the Ollama base URL. It exists
// purely as a fail-fast guard: a stopped server is reported with actionable
// remediation text before any expensive parse request is made.
func (c *Client) CheckReachable(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("parse: create probe request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf(
			"%w: cannot connect to Ollama at %s. Is it running?\n  Install: https://ollama.ai\n  Start:   ollama serve",
			ErrModelUnreachable, c.baseURL)
	}
	resp.Body.Close()
	return nil
}

// chatRequest is the Ollama /api/chat request body. format:"json" asks the
// model for JSON-only output; stream:false requests a single response object.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Format   string        `json:"format"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the Ollama reply we navigate.
type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// Parse sends text to the model together with the known contact names and
// recent correction examples and decodes the reply into a
// [model.ParsedInteraction].
//
// Error classification: transport timeouts return [ErrModelTimeout], other
// transport failures [ErrModelUnreachable], non-2xx statuses an [*HTTPError]
// with a truncated body, undecodable payloads [ErrMalformedResponse], and
// structurally valid replies missing people or topics
// [ErrNoPeopleExtracted] / [ErrNoTopicsExtracted].
func (c *Client) Parse(
	ctx context.Context,
	text string,
	knownNames []string,
	corrections []model.CorrectionExample,
) (*model.ParsedInteraction, error) {
	prompt := BuildPrompt(c.now().Format("2006-01-02"), knownNames, corrections, c.maxExamples)

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: text},
		},
		Format: "json",
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("parse: marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.parseTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf(
				"%w: local models can be slow on first run, try again", ErrModelTimeout)
		}
		return nil, fmt.Errorf("%w: could not connect to Ollama: %v", ErrModelUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(data), maxErrorBodyBytes)}
	}

	var cr chatResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if cr.Message.Content == "" {
		return nil, fmt.Errorf("%w: no content in reply", ErrMalformedResponse)
	}

	return decodeContent(cr.Message.Content)
}

// isTimeout reports whether err represents a deadline-style transport failure.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// truncate caps s at n bytes for inclusion in error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
