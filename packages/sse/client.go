package sse

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abdul-hamid-achik/wireform/packages/mediatype"
)

// Client connects to an SSE endpoint and interprets the response stream.
type Client struct {
	httpClient  *http.Client
	url         string
	headers     map[string]string
	timeout     time.Duration
	lastEventID string
	logger      *slog.Logger
}

// Option is a functional option for configuring an SSE Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithHeaders sets custom headers for the SSE request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithTimeout bounds how long the default HTTP client waits for response
// headers. The body is never subject to it, so a stream may stay open for
// as long as the server keeps it open. Zero disables the limit.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLastEventID sets the Last-Event-ID header for reconnection.
func WithLastEventID(id string) Option {
	return func(c *Client) {
		c.lastEventID = id
	}
}

// WithLogger sets the logger used for connection diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new SSE client.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:     url,
		headers: make(map[string]string),
		timeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.ResponseHeaderTimeout = c.timeout
		c.httpClient = &http.Client{Transport: transport}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// LastEventID returns the last event ID seen on any stream opened by c, or
// the one configured with WithLastEventID. Pass it to a new client to resume.
func (c *Client) LastEventID() string {
	return c.lastEventID
}

// StreamResult contains the results of an SSE stream.
type StreamResult struct {
	Events   []Event
	Error    error
	Duration time.Duration
}

// Stream connects to the SSE endpoint and collects events until the stream
// ends, the context is cancelled or maxEvents events have arrived. A
// maxEvents of zero means no limit.
func (c *Client) Stream(ctx context.Context, maxEvents int) *StreamResult {
	start := time.Now()
	result := &StreamResult{
		Events: make([]Event, 0),
	}

	result.Error = c.StreamWithHandler(ctx, func(event Event) bool {
		result.Events = append(result.Events, event)
		return maxEvents <= 0 || len(result.Events) < maxEvents
	})
	result.Duration = time.Since(start)

	return result
}

// EventHandler is called for each event. Returning false stops the stream.
type EventHandler func(event Event) bool

// StreamWithHandler connects to the SSE endpoint and calls the handler for
// each event, in the order the events were read.
func (c *Client) StreamWithHandler(ctx context.Context, handler EventHandler) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", mediatype.EventStream)
	req.Header.Set("Cache-Control", "no-cache")

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	if c.lastEventID != "" {
		req.Header.Set("Last-Event-ID", c.lastEventID)
	}

	c.logger.Debug("opening event stream", "url", c.url, "last_event_id", c.lastEventID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	ct, err := mediatype.Parse(contentType)
	if err != nil || ct.MediaType() != mediatype.EventStream {
		return fmt.Errorf("unexpected content type: %s (expected %s)", contentType, mediatype.EventStream)
	}

	count := 0
	for event, err := range ParseReader(resp.Body) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return fmt.Errorf("reading event stream: %w", err)
		}

		count++
		if event.LastEventID != "" {
			c.lastEventID = event.LastEventID
		}
		if !handler(event) {
			break
		}
	}

	c.logger.Debug("event stream closed", "url", c.url, "events", count)
	return ctx.Err()
}
