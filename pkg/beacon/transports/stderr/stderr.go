// Package stderr provides a transport that prints events to stderr in
// human-readable format. Useful for development and debugging.
package stderr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/beaconhq/beacon-go/pkg/beacon"
)

// Option configures the stderr transport.
type Option func(*config)

type config struct {
	verbose bool
	out     io.Writer
}

// WithVerbose enables full event details including stack traces and
// breadcrumb trails.
func WithVerbose() Option {
	return func(c *config) {
		c.verbose = true
	}
}

// WithWriter redirects output away from stderr (useful for tests).
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		c.out = w
	}
}

// transport prints events in human-readable format.
type transport struct {
	verbose bool
	out     io.Writer
}

// New creates a transport that writes to stderr.
func New(opts ...Option) beacon.Transport {
	cfg := &config{out: os.Stderr}
	for _, opt := range opts {
		opt(cfg)
	}
	return &transport{
		verbose: cfg.verbose,
		out:     cfg.out,
	}
}

// Install is a no-op; the transport is always ready.
func (t *transport) Install(ctx context.Context) (bool, error) {
	return true, nil
}

// EventFromError builds an error event with a stack trace from the call site.
func (t *transport) EventFromError(ctx context.Context, err error) (*beacon.Event, error) {
	msg := "<nil>"
	typ := "error"
	if err != nil {
		msg = err.Error()
		typ = fmt.Sprintf("%T", err)
	}
	return &beacon.Event{
		Timestamp: time.Now(),
		Platform:  "go",
		Level:     beacon.LevelError,
		Message:   msg,
		Exception: &beacon.Exception{
			Type:       typ,
			Value:      msg,
			Stacktrace: string(debug.Stack()),
		},
	}, nil
}

// EventFromMessage builds an informational message event.
func (t *transport) EventFromMessage(ctx context.Context, message string) (*beacon.Event, error) {
	return &beacon.Event{
		Timestamp: time.Now(),
		Platform:  "go",
		Level:     beacon.LevelInfo,
		Message:   message,
	}, nil
}

// SendEvent formats and prints the event, reporting success.
func (t *transport) SendEvent(ctx context.Context, event *beacon.Event) (int, error) {
	level := strings.ToUpper(string(event.Level))
	timestamp := event.Timestamp.Format("2006-01-02T15:04:05Z07:00")

	// Format: [BEACON] <timestamp> <LEVEL> <message> (env/release markers)
	var parts []string
	parts = append(parts, fmt.Sprintf("[BEACON] %s %s", timestamp, level))
	if event.Exception != nil && event.Exception.Type != "" {
		parts = append(parts, event.Exception.Type)
	}
	if event.Environment != "" {
		parts = append(parts, fmt.Sprintf("(env: %s)", event.Environment))
	}
	if event.Release != "" {
		parts = append(parts, fmt.Sprintf("(release: %s)", event.Release))
	}
	fmt.Fprintln(t.out, strings.Join(parts, " "))

	if event.Message != "" {
		fmt.Fprintf(t.out, "        Message: %s\n", event.Message)
	}
	if event.Fingerprint != "" {
		fmt.Fprintf(t.out, "        Fingerprint: %s\n", event.Fingerprint)
	}
	for k, v := range event.Tags {
		fmt.Fprintf(t.out, "        Tag: %s=%s\n", k, v)
	}

	if t.verbose {
		for _, crumb := range event.Breadcrumbs {
			fmt.Fprintf(t.out, "        Breadcrumb: [%s] %s\n", crumb.Category, crumb.Message)
		}
		if event.Exception != nil && event.Exception.Stacktrace != "" {
			fmt.Fprintf(t.out, "        Stack trace:\n")
			for _, line := range strings.Split(event.Exception.Stacktrace, "\n") {
				fmt.Fprintf(t.out, "          %s\n", line)
			}
		}
	}

	return http.StatusOK, nil
}

// StoreBreadcrumb accepts every breadcrumb, printing it in verbose mode.
func (t *transport) StoreBreadcrumb(ctx context.Context, crumb beacon.Breadcrumb, scope *beacon.Scope) (bool, error) {
	if t.verbose {
		fmt.Fprintf(t.out, "[BEACON] breadcrumb [%s] %s\n", crumb.Category, crumb.Message)
	}
	return true, nil
}

// StoreContext accepts every fragment.
func (t *transport) StoreContext(ctx context.Context, fragment beacon.Context, scope *beacon.Scope) (bool, error) {
	return true, nil
}
