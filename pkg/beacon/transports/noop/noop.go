// Package noop provides a transport that accepts and discards everything.
// Useful for testing and for disabling delivery without disabling capture.
package noop

import (
	"context"
	"net/http"
	"time"

	"github.com/beaconhq/beacon-go/pkg/beacon"
)

// transport discards all events.
type transport struct{}

// New creates a transport that accepts and discards everything.
func New() beacon.Transport {
	return &transport{}
}

// Install reports ready without side effects.
func (t *transport) Install(ctx context.Context) (bool, error) {
	return true, nil
}

// EventFromError builds a minimal error event.
func (t *transport) EventFromError(ctx context.Context, err error) (*beacon.Event, error) {
	msg := "<nil>"
	if err != nil {
		msg = err.Error()
	}
	return &beacon.Event{
		Timestamp: time.Now(),
		Platform:  "go",
		Level:     beacon.LevelError,
		Message:   msg,
	}, nil
}

// EventFromMessage builds a minimal message event.
func (t *transport) EventFromMessage(ctx context.Context, message string) (*beacon.Event, error) {
	return &beacon.Event{
		Timestamp: time.Now(),
		Platform:  "go",
		Level:     beacon.LevelInfo,
		Message:   message,
	}, nil
}

// SendEvent discards the event and reports success.
func (t *transport) SendEvent(ctx context.Context, event *beacon.Event) (int, error) {
	return http.StatusOK, nil
}

// StoreBreadcrumb accepts and discards.
func (t *transport) StoreBreadcrumb(ctx context.Context, crumb beacon.Breadcrumb, scope *beacon.Scope) (bool, error) {
	return true, nil
}

// StoreContext accepts and discards.
func (t *transport) StoreContext(ctx context.Context, fragment beacon.Context, scope *beacon.Scope) (bool, error) {
	return true, nil
}
