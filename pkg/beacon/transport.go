// transport.go defines the contract for the delivery collaborator.

package beacon

import "context"

// Transport is the collaborator that constructs platform-native events and
// physically delivers them. The pipeline never retries or translates
// transport failures; returned errors propagate to the caller.
// Implementations must be safe for concurrent use.
type Transport interface {
	// Install performs the transport's one-shot setup side effect.
	// True means the transport is ready. The client calls this at most once.
	Install(ctx context.Context) (bool, error)

	// EventFromError builds an event from an error value, including any
	// platform-specific detail (exception type, stack trace).
	EventFromError(ctx context.Context, err error) (*Event, error)

	// EventFromMessage builds an event from a plain message.
	EventFromMessage(ctx context.Context, message string) (*Event, error)

	// SendEvent delivers a prepared event and returns a response code that
	// the pipeline classifies via StatusFromCode.
	SendEvent(ctx context.Context, event *Event) (int, error)

	// StoreBreadcrumb persists a breadcrumb against a scope. Returning true
	// admits the breadcrumb into the scope's trail.
	StoreBreadcrumb(ctx context.Context, crumb Breadcrumb, scope *Scope) (bool, error)

	// StoreContext persists a context fragment against a scope. Returning
	// true admits the fragment into the scope's context.
	StoreContext(ctx context.Context, fragment Context, scope *Scope) (bool, error)
}
