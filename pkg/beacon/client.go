// client.go implements the capture facade: enablement gating, event
// preparation, the send pipeline, and the install lifecycle.

package beacon

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SDK identity stamped onto outgoing events that lack one.
const (
	sdkName    = "beacon-go"
	sdkVersion = "0.4.0"
)

func currentSDKInfo() *SDKInfo {
	return &SDKInfo{Name: sdkName, Version: sdkVersion}
}

// Client is the capture facade. It owns a default scope, an immutable
// options snapshot, and the injected transport. Safe for concurrent use.
type Client struct {
	options   Options
	transport Transport
	dsn       *DSN // nil when no connection string was configured
	scope     *Scope
	log       zerolog.Logger

	installMu        sync.Mutex
	installAttempted bool
	installed        bool
}

// New constructs a client around the given transport. An unparsable DSN in
// the options makes construction fail; an absent DSN yields a valid,
// permanently disabled client.
func New(transport Transport, opts ...Option) (*Client, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	var dsn *DSN
	if options.DSN != "" {
		parsed, err := ParseDSN(options.DSN)
		if err != nil {
			return nil, fmt.Errorf("beacon: %w", err)
		}
		dsn = parsed
	}

	log := zerolog.Nop()
	if options.Debug {
		log = zerolog.New(os.Stderr).With().
			Timestamp().
			Str("component", "beacon").
			Logger().Level(zerolog.DebugLevel)
	}

	return &Client{
		options:   options,
		transport: transport,
		dsn:       dsn,
		scope:     NewScope(),
		log:       log,
	}, nil
}

// Enabled reports whether the pipeline will send at all: the enabled flag is
// set and a DSN was parsed at construction.
func (c *Client) Enabled() bool {
	return c.options.Enabled && c.dsn != nil
}

// DSN returns the parsed connection descriptor, nil when none was configured.
func (c *Client) DSN() *DSN {
	return c.dsn
}

// Options returns the configuration snapshot.
func (c *Client) Options() Options {
	return c.options
}

// Scope returns the client's default scope.
func (c *Client) Scope() *Scope {
	return c.scope
}

// Install runs the transport's one-shot setup. While the client is disabled
// it returns false without touching the transport and without recording an
// attempt. Once an attempt completes, its result is memoized and returned by
// every later call. A transport error propagates and records nothing.
func (c *Client) Install(ctx context.Context) (bool, error) {
	c.installMu.Lock()
	defer c.installMu.Unlock()

	if c.installAttempted {
		return c.installed, nil
	}
	if !c.Enabled() {
		c.log.Debug().Msg("install skipped: sdk disabled")
		return false, nil
	}

	ok, err := c.transport.Install(ctx)
	if err != nil {
		return false, err
	}
	c.installAttempted = true
	c.installed = ok
	c.log.Debug().Bool("installed", ok).Msg("transport installed")
	return ok, nil
}

// resolveScope falls back to the client's default scope when scope is nil.
func (c *Client) resolveScope(scope *Scope) *Scope {
	if scope != nil {
		return scope
	}
	return c.scope
}

// AddBreadcrumb validates, timestamps, filters, and appends a breadcrumb to
// scope (the default scope when nil). The transport must accept storage
// before the breadcrumb enters the trail; the trail is then trimmed to
// MaxBreadcrumbs, oldest dropped first. AfterBreadcrumb fires after the
// storage attempt whether or not the transport accepted.
func (c *Client) AddBreadcrumb(ctx context.Context, crumb Breadcrumb, scope *Scope) error {
	if c.options.MaxBreadcrumbs == 0 {
		return nil
	}
	scope = c.resolveScope(scope)

	if crumb.Timestamp == 0 {
		crumb.Timestamp = epochSeconds(time.Now())
	}
	if c.options.ShouldAddBreadcrumb != nil && !c.options.ShouldAddBreadcrumb(crumb) {
		c.log.Debug().Str("category", crumb.Category).Msg("breadcrumb rejected by predicate")
		return nil
	}
	if c.options.BeforeBreadcrumb != nil {
		crumb = c.options.BeforeBreadcrumb(crumb)
	}

	accepted, err := c.transport.StoreBreadcrumb(ctx, crumb, scope)
	if err != nil {
		return err
	}
	if accepted {
		scope.appendBreadcrumb(crumb, c.options.MaxBreadcrumbs)
	} else {
		c.log.Debug().Str("category", crumb.Category).Msg("breadcrumb not accepted by transport")
	}
	if c.options.AfterBreadcrumb != nil {
		c.options.AfterBreadcrumb(crumb)
	}
	return nil
}

// SetContext merges a context fragment into scope (the default scope when
// nil). The transport must accept storage before the merge happens; each
// present group merges additively, incoming keys winning on collision.
func (c *Client) SetContext(ctx context.Context, fragment Context, scope *Scope) error {
	scope = c.resolveScope(scope)

	accepted, err := c.transport.StoreContext(ctx, fragment, scope)
	if err != nil {
		return err
	}
	if accepted {
		scope.mergeContext(fragment)
	} else {
		c.log.Debug().Msg("context fragment not accepted by transport")
	}
	return nil
}

// prepareEvent merges SDK identity, environment/release defaults, the
// scope's trimmed breadcrumbs, and the scope's context into a copy of event.
// Fields already set on the event win everywhere except breadcrumbs, which
// the scope overwrites when it has any. The input is never mutated.
func (c *Client) prepareEvent(event *Event, scope *Scope) *Event {
	prepared := event.clone()

	if prepared.SDK == nil {
		prepared.SDK = currentSDKInfo()
	}
	if prepared.Environment == "" {
		prepared.Environment = c.options.Environment
	}
	if prepared.Release == "" {
		prepared.Release = c.options.Release
	}

	if c.options.MaxBreadcrumbs > 0 {
		if crumbs := scope.Breadcrumbs(); len(crumbs) > 0 {
			if len(crumbs) > c.options.MaxBreadcrumbs {
				crumbs = crumbs[len(crumbs)-c.options.MaxBreadcrumbs:]
			}
			prepared.Breadcrumbs = crumbs
		}
	}

	sctx := scope.Context()
	if sctx.Extra != nil {
		prepared.Extra = overlayAnyMap(sctx.Extra, prepared.Extra)
	}
	if sctx.Tags != nil {
		prepared.Tags = overlayStringMap(sctx.Tags, prepared.Tags)
	}
	if sctx.User != nil {
		prepared.User = overlayStringMap(sctx.User, prepared.User)
	}
	return prepared
}

// CaptureEvent runs event through the send pipeline against scope (the
// default scope when nil): gate, prepare, ShouldSend, BeforeSend, delivery,
// status derivation, AfterSend. A transport error propagates unclassified
// and skips AfterSend.
func (c *Client) CaptureEvent(ctx context.Context, event *Event, scope *Scope) (SendStatus, error) {
	if !c.Enabled() {
		c.log.Debug().Msg("event skipped: sdk disabled")
		return StatusSkipped, nil
	}
	scope = c.resolveScope(scope)

	prepared := c.prepareEvent(event, scope)
	if c.options.ShouldSend != nil && !c.options.ShouldSend(prepared) {
		c.log.Debug().Msg("event skipped: rejected by predicate")
		return StatusSkipped, nil
	}
	if c.options.BeforeSend != nil {
		prepared = c.options.BeforeSend(prepared)
	}

	code, err := c.transport.SendEvent(ctx, prepared)
	if err != nil {
		return StatusUnknown, err
	}
	status := StatusFromCode(code)
	if status == StatusRateLimit {
		// No backoff or queueing here; embedders that need buffering wrap
		// the transport (see transports/async).
		c.log.Debug().Int("code", code).Msg("event rate limited")
	}
	if c.options.AfterSend != nil {
		c.options.AfterSend(prepared, status)
	}
	return status, nil
}

// CaptureException asks the transport to build an event from err, then sends
// it through the pipeline.
func (c *Client) CaptureException(ctx context.Context, err error, scope *Scope) (SendStatus, error) {
	event, buildErr := c.transport.EventFromError(ctx, err)
	if buildErr != nil {
		return StatusUnknown, buildErr
	}
	return c.CaptureEvent(ctx, event, scope)
}

// CaptureMessage asks the transport to build an event from message, then
// sends it through the pipeline.
func (c *Client) CaptureMessage(ctx context.Context, message string, scope *Scope) (SendStatus, error) {
	event, buildErr := c.transport.EventFromMessage(ctx, message)
	if buildErr != nil {
		return StatusUnknown, buildErr
	}
	return c.CaptureEvent(ctx, event, scope)
}

// epochSeconds converts t to seconds since the Unix epoch.
func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
