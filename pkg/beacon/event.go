// event.go defines the outgoing event and breadcrumb records.

package beacon

import "time"

// Level indicates the severity of an event or breadcrumb.
type Level string

const (
	// LevelDebug marks diagnostic records not tied to a failure.
	LevelDebug Level = "debug"

	// LevelInfo marks informational records such as captured messages.
	LevelInfo Level = "info"

	// LevelWarning marks non-fatal issues that may need attention.
	LevelWarning Level = "warning"

	// LevelError marks recoverable errors that caused an operation to fail.
	LevelError Level = "error"

	// LevelFatal marks unrecoverable errors such as panics.
	LevelFatal Level = "fatal"
)

// Breadcrumb type values.
const (
	// BreadcrumbTypeDefault describes a generic breadcrumb.
	BreadcrumbTypeDefault = "default"

	// BreadcrumbTypeHTTP describes an HTTP request breadcrumb.
	BreadcrumbTypeHTTP = "http"
)

// Data keys for HTTP request breadcrumbs.
const (
	BreadcrumbDataURL        = "url"
	BreadcrumbDataMethod     = "method"
	BreadcrumbDataStatusCode = "status_code"
	BreadcrumbDataReason     = "reason"
)

// Breadcrumb is a timestamped record of a prior action, retained for
// inclusion in a future event. Immutable once stored on a scope.
type Breadcrumb struct {
	// Timestamp is seconds since the Unix epoch. The recorder assigns it
	// when the caller leaves it zero.
	Timestamp float64 `json:"timestamp,omitempty"`

	// Type categorizes the breadcrumb (default, http).
	Type string `json:"type,omitempty"`

	// Category is a dotted path locating the breadcrumb source (e.g. "auth.login").
	Category string `json:"category,omitempty"`

	// Message is the human-readable description.
	Message string `json:"message,omitempty"`

	// Level indicates the breadcrumb severity.
	Level Level `json:"level,omitempty"`

	// Data contains arbitrary structured payload for the breadcrumb.
	Data map[string]any `json:"data,omitempty"`
}

// SDKInfo identifies the SDK that produced an event.
type SDKInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Exception describes the error that an event reports.
// Populated by the transport during event construction.
type Exception struct {
	// Type is the error's concrete type.
	Type string `json:"type,omitempty"`

	// Value is the error message.
	Value string `json:"value,omitempty"`

	// Stacktrace is the raw stack trace captured at construction time.
	Stacktrace string `json:"stacktrace,omitempty"`
}

// Event is the outgoing record for an error or message occurrence.
// The preparer fills sdk/environment/release/breadcrumbs and merges scope
// context before the event reaches the transport.
type Event struct {
	// Identity fields

	// EventID is a unique identifier for this event (UUID), assigned by the transport.
	EventID string `json:"event_id,omitempty"`

	// Timestamp is when the occurrence happened.
	Timestamp time.Time `json:"timestamp,omitzero"`

	// Platform names the runtime the event originated from.
	Platform string `json:"platform,omitempty"`

	// SDK identifies the producing SDK. The preparer stamps it when absent.
	SDK *SDKInfo `json:"sdk,omitempty"`

	// Occurrence details

	// Level indicates the event severity.
	Level Level `json:"level,omitempty"`

	// Message is the human-readable description.
	Message string `json:"message,omitempty"`

	// Culprit names the code location held responsible for the event.
	Culprit string `json:"culprit,omitempty"`

	// Fingerprint is a hash for grouping similar events.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Exception carries error details for exception events; nil for messages.
	Exception *Exception `json:"exception,omitempty"`

	// Deployment context

	// Environment names the deployment tier (production, staging).
	Environment string `json:"environment,omitempty"`

	// Release identifies the application version.
	Release string `json:"release,omitempty"`

	// Enrichment

	// Breadcrumbs is the trail merged in from the scope, oldest first.
	Breadcrumbs []Breadcrumb `json:"breadcrumbs,omitempty"`

	// Extra contains arbitrary key-value context.
	Extra map[string]any `json:"extra,omitempty"`

	// Tags contains short indexed key-value pairs.
	Tags map[string]string `json:"tags,omitempty"`

	// User identifies the affected user.
	User map[string]string `json:"user,omitempty"`
}

// clone returns a copy of the event with its own maps and breadcrumb slice,
// so preparation never mutates the caller's event.
func (e *Event) clone() *Event {
	out := *e
	if e.SDK != nil {
		sdk := *e.SDK
		out.SDK = &sdk
	}
	if e.Exception != nil {
		exc := *e.Exception
		out.Exception = &exc
	}
	if e.Breadcrumbs != nil {
		out.Breadcrumbs = append([]Breadcrumb(nil), e.Breadcrumbs...)
	}
	out.Extra = copyAnyMap(e.Extra)
	out.Tags = copyStringMap(e.Tags)
	out.User = copyStringMap(e.User)
	return &out
}

func copyAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
