// Package ingest delivers events to a beacon ingestion endpoint over HTTP.
// Delivery uses a retrying client; the response code is handed back to the
// pipeline for classification.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/beaconhq/beacon-go/pkg/beacon"
)

// Option configures the ingest transport.
type Option func(*config)

type config struct {
	timeout    time.Duration
	retryMax   int
	logger     zerolog.Logger
	httpClient *http.Client
}

// WithTimeout sets the per-delivery timeout (default: 30s).
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetryMax sets the maximum number of delivery retries for connection
// and server errors (default: 3). Retries live in the transport, never in
// the capture pipeline.
func WithRetryMax(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.retryMax = n
		}
	}
}

// WithLogger sets a debug logger for delivery outcomes.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client (useful for proxies and
// tests).
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// transport delivers events to the endpoint described by a DSN.
type transport struct {
	dsn    *beacon.DSN
	client *retryablehttp.Client
	log    zerolog.Logger
}

// New creates a transport delivering to the endpoint described by dsn.
// A nil dsn yields a transport whose Install reports not-ready; the capture
// pipeline never reaches SendEvent in that configuration because the client
// is disabled without a DSN.
func New(dsn *beacon.DSN, opts ...Option) beacon.Transport {
	cfg := &config{
		timeout:  30 * time.Second,
		retryMax: 3,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = cfg.retryMax
	if cfg.httpClient != nil {
		client.HTTPClient = cfg.httpClient
	} else {
		client.HTTPClient = cleanhttp.DefaultPooledClient()
	}
	client.HTTPClient.Timeout = cfg.timeout
	// Rate limits must reach the pipeline as a 429 code, not be retried
	// away: handling them is the embedder's call. Exhausted retries hand
	// back the last response so server errors still classify.
	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err == nil && resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			return false, nil
		}
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &transport{
		dsn:    dsn,
		client: client,
		log:    cfg.logger,
	}
}

// Install reports readiness. The ingest transport has no native setup side
// effect beyond requiring a DSN to deliver to.
func (t *transport) Install(ctx context.Context) (bool, error) {
	if t.dsn == nil {
		return false, nil
	}
	t.log.Debug().Str("endpoint", t.dsn.StoreEndpoint()).Msg("ingest transport ready")
	return true, nil
}

// EventFromError builds an error event with exception detail and a stack
// trace captured at the call site.
func (t *transport) EventFromError(ctx context.Context, err error) (*beacon.Event, error) {
	if err == nil {
		return nil, errors.New("ingest: cannot build event from nil error")
	}
	event := &beacon.Event{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Platform:  "go",
		Level:     beacon.LevelError,
		Message:   err.Error(),
		Exception: &beacon.Exception{
			Type:       fmt.Sprintf("%T", err),
			Value:      err.Error(),
			Stacktrace: string(debug.Stack()),
		},
	}
	event.Fingerprint = beacon.EventFingerprint(event)
	return event, nil
}

// EventFromMessage builds an informational message event.
func (t *transport) EventFromMessage(ctx context.Context, message string) (*beacon.Event, error) {
	event := &beacon.Event{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Platform:  "go",
		Level:     beacon.LevelInfo,
		Message:   message,
	}
	event.Fingerprint = beacon.EventFingerprint(event)
	return event, nil
}

// SendEvent delivers the event as JSON and returns the HTTP status code.
func (t *transport) SendEvent(ctx context.Context, event *beacon.Event) (int, error) {
	// Events reaching a transport are per-call copies; fill identity
	// in-place for events built outside EventFromError/EventFromMessage.
	out := *event
	if out.EventID == "" {
		out.EventID = uuid.NewString()
	}
	if out.Timestamp.IsZero() {
		out.Timestamp = time.Now().UTC()
	}
	if out.Fingerprint == "" {
		out.Fingerprint = beacon.EventFingerprint(&out)
	}

	body, err := json.Marshal(&out)
	if err != nil {
		return 0, fmt.Errorf("ingest: encode event: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, t.dsn.StoreEndpoint(), body)
	if err != nil {
		return 0, fmt.Errorf("ingest: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Beacon-Auth", t.dsn.AuthHeader())

	resp, err := t.client.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return 0, fmt.Errorf("ingest: deliver event: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	t.log.Debug().
		Str("event_id", out.EventID).
		Int("code", resp.StatusCode).
		Msg("event delivered")
	return resp.StatusCode, nil
}

// StoreBreadcrumb accepts locally; the wire carries breadcrumbs inside events.
func (t *transport) StoreBreadcrumb(ctx context.Context, crumb beacon.Breadcrumb, scope *beacon.Scope) (bool, error) {
	return true, nil
}

// StoreContext accepts locally; the wire carries context inside events.
func (t *transport) StoreContext(ctx context.Context, fragment beacon.Context, scope *beacon.Scope) (bool, error) {
	return true, nil
}
