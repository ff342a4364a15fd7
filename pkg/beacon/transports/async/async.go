// Package async wraps a transport with a bounded queue for high-throughput
// delivery. SendEvent returns immediately with an accepted code; events are
// delivered in the background and the oldest are dropped when the queue is
// full. This is the extension point for embedders who want buffering in
// front of a rate-limited endpoint.
package async

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/beaconhq/beacon-go/pkg/beacon"
)

// Option configures the async transport.
type Option func(*config)

type config struct {
	queueSize int
	onDropped func(count int)
}

// WithQueueSize sets the maximum number of queued events (default: 1000).
func WithQueueSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.queueSize = size
		}
	}
}

// WithOnDropped sets a callback invoked when events are dropped due to queue
// overflow.
func WithOnDropped(fn func(count int)) Option {
	return func(c *config) {
		c.onDropped = fn
	}
}

// Transport wraps an inner transport with a bounded delivery queue.
// Construction, install, and storage calls pass through synchronously; only
// SendEvent is deferred.
type Transport struct {
	inner     beacon.Transport
	queue     chan *beacon.Event
	done      chan struct{}
	closeOnce sync.Once
	closeMu   sync.Mutex
	closed    bool
	wg        sync.WaitGroup
	onDropped func(count int)
}

// New wraps inner with a bounded queue for async delivery.
// SendEvent returns 202 immediately; events are delivered in the background.
// When the queue is full, the oldest event is dropped to make room.
func New(inner beacon.Transport, opts ...Option) *Transport {
	cfg := &config{
		queueSize: 1000,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	t := &Transport{
		inner:     inner,
		queue:     make(chan *beacon.Event, cfg.queueSize),
		done:      make(chan struct{}),
		onDropped: cfg.onDropped,
	}

	t.wg.Add(1)
	go t.processLoop()

	return t
}

// processLoop drains the queue and delivers to the inner transport.
func (t *Transport) processLoop() {
	defer t.wg.Done()
	for {
		select {
		case event, ok := <-t.queue:
			if !ok {
				return
			}
			// Fire and forget: response codes and errors from deferred
			// deliveries have no caller to report to.
			_, _ = t.inner.SendEvent(context.Background(), event)
		case <-t.done:
			// Drain remaining events
			for {
				select {
				case event, ok := <-t.queue:
					if !ok {
						return
					}
					_, _ = t.inner.SendEvent(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

// Install delegates to the inner transport.
func (t *Transport) Install(ctx context.Context) (bool, error) {
	return t.inner.Install(ctx)
}

// EventFromError delegates to the inner transport.
func (t *Transport) EventFromError(ctx context.Context, err error) (*beacon.Event, error) {
	return t.inner.EventFromError(ctx, err)
}

// EventFromMessage delegates to the inner transport.
func (t *Transport) EventFromMessage(ctx context.Context, message string) (*beacon.Event, error) {
	return t.inner.EventFromMessage(ctx, message)
}

// SendEvent enqueues the event and returns 202 immediately.
// If the queue is full, the oldest event is dropped.
func (t *Transport) SendEvent(ctx context.Context, event *beacon.Event) (int, error) {
	t.closeMu.Lock()
	if t.closed {
		t.closeMu.Unlock()
		return 0, errors.New("async transport is closed")
	}
	t.closeMu.Unlock()

	select {
	case t.queue <- event:
		return http.StatusAccepted, nil
	default:
		t.dropOldestAndEnqueue(event)
		return http.StatusAccepted, nil
	}
}

// dropOldestAndEnqueue drops the oldest queued event and enqueues the new one.
func (t *Transport) dropOldestAndEnqueue(event *beacon.Event) {
	select {
	case <-t.queue:
		if t.onDropped != nil {
			t.onDropped(1)
		}
	default:
		// Queue was emptied by the processor, try again
	}

	select {
	case t.queue <- event:
	default:
		// Still full, drop the new event instead
		if t.onDropped != nil {
			t.onDropped(1)
		}
	}
}

// StoreBreadcrumb delegates to the inner transport.
func (t *Transport) StoreBreadcrumb(ctx context.Context, crumb beacon.Breadcrumb, scope *beacon.Scope) (bool, error) {
	return t.inner.StoreBreadcrumb(ctx, crumb, scope)
}

// StoreContext delegates to the inner transport.
func (t *Transport) StoreContext(ctx context.Context, fragment beacon.Context, scope *beacon.Scope) (bool, error) {
	return t.inner.StoreContext(ctx, fragment, scope)
}

// Flush blocks until all queued events are delivered or ctx expires.
func (t *Transport) Flush(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if len(t.queue) == 0 {
				// Give a moment for the last event to finish delivering
				time.Sleep(10 * time.Millisecond)
				return nil
			}
		}
	}
}

// Close stops the processor after draining the queue.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.closeMu.Lock()
		t.closed = true
		t.closeMu.Unlock()

		close(t.done)
		t.wg.Wait()
		close(t.queue)
	})
	return nil
}
