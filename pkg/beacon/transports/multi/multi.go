// Package multi provides a transport that fans out to multiple transports.
// The first transport is primary: it owns install readiness, event
// construction, and the response code handed back to the pipeline. All
// transports receive deliveries and storage calls; errors are aggregated.
package multi

import (
	"context"
	"errors"

	"github.com/beaconhq/beacon-go/pkg/beacon"
)

var errNoTransports = errors.New("multi: no transports configured")

// Transport fans out to multiple transports.
type Transport struct {
	transports []beacon.Transport
}

// New creates a transport that fans out to the given transports.
// The first is primary.
func New(transports ...beacon.Transport) *Transport {
	return &Transport{
		transports: transports,
	}
}

// Install installs every transport; readiness is the primary's.
// All transports are called even if some return errors.
func (t *Transport) Install(ctx context.Context) (bool, error) {
	if len(t.transports) == 0 {
		return false, errNoTransports
	}
	var ready bool
	var errs []error
	for i, transport := range t.transports {
		ok, err := transport.Install(ctx)
		if err != nil {
			errs = append(errs, err)
		}
		if i == 0 {
			ready = ok
		}
	}
	return ready, errors.Join(errs...)
}

// EventFromError delegates to the primary transport.
func (t *Transport) EventFromError(ctx context.Context, err error) (*beacon.Event, error) {
	if len(t.transports) == 0 {
		return nil, errNoTransports
	}
	return t.transports[0].EventFromError(ctx, err)
}

// EventFromMessage delegates to the primary transport.
func (t *Transport) EventFromMessage(ctx context.Context, message string) (*beacon.Event, error) {
	if len(t.transports) == 0 {
		return nil, errNoTransports
	}
	return t.transports[0].EventFromMessage(ctx, message)
}

// SendEvent delivers to all transports; the returned code is the primary's.
// All transports are called even if some return errors.
func (t *Transport) SendEvent(ctx context.Context, event *beacon.Event) (int, error) {
	if len(t.transports) == 0 {
		return 0, errNoTransports
	}
	var code int
	var errs []error
	for i, transport := range t.transports {
		c, err := transport.SendEvent(ctx, event)
		if err != nil {
			errs = append(errs, err)
		}
		if i == 0 {
			code = c
		}
	}
	return code, errors.Join(errs...)
}

// StoreBreadcrumb stores against all transports; acceptance is the primary's.
func (t *Transport) StoreBreadcrumb(ctx context.Context, crumb beacon.Breadcrumb, scope *beacon.Scope) (bool, error) {
	if len(t.transports) == 0 {
		return false, errNoTransports
	}
	var accepted bool
	var errs []error
	for i, transport := range t.transports {
		ok, err := transport.StoreBreadcrumb(ctx, crumb, scope)
		if err != nil {
			errs = append(errs, err)
		}
		if i == 0 {
			accepted = ok
		}
	}
	return accepted, errors.Join(errs...)
}

// StoreContext stores against all transports; acceptance is the primary's.
func (t *Transport) StoreContext(ctx context.Context, fragment beacon.Context, scope *beacon.Scope) (bool, error) {
	if len(t.transports) == 0 {
		return false, errNoTransports
	}
	var accepted bool
	var errs []error
	for i, transport := range t.transports {
		ok, err := transport.StoreContext(ctx, fragment, scope)
		if err != nil {
			errs = append(errs, err)
		}
		if i == 0 {
			accepted = ok
		}
	}
	return accepted, errors.Join(errs...)
}
