// recover.go provides the Recover helper for standalone panic capture.
// Use this in HTTP handlers, goroutines, or other code outside the facade.

package beacon

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Recover captures a panic, reports it through client as a fatal event, and
// returns the recovered value. Recover does NOT re-panic after reporting.
// When the context carries a scope (WithScope), the event runs against it;
// otherwise the client's default scope is used.
//
// Use in defer:
//
//	func handler(ctx context.Context) {
//	    defer beacon.Recover(ctx, client)
//	    // code that might panic
//	}
//
// Or to capture the recovered value:
//
//	func handler(ctx context.Context) (err error) {
//	    defer func() {
//	        if r := beacon.Recover(ctx, client); r != nil {
//	            err = fmt.Errorf("panic: %v", r)
//	        }
//	    }()
//	    // code that might panic
//	}
func Recover(ctx context.Context, client *Client) any {
	r := recover()
	if r == nil {
		return nil
	}

	scope, _ := ScopeFromContext(ctx) // nil falls back to the default scope

	// Report the event (ignore outcome - we don't want to affect the caller)
	_, _ = CapturePanic(ctx, client, r, scope)

	return r
}

// CapturePanic reports an already-recovered panic value as a fatal event
// against scope (the default scope when nil). Callers that run their own
// recover() use this instead of Recover.
func CapturePanic(ctx context.Context, client *Client, recovered any, scope *Scope) (SendStatus, error) {
	event := &Event{
		Level:   LevelFatal,
		Message: formatRecovered(recovered),
		Exception: &Exception{
			Type:       "panic",
			Value:      formatRecovered(recovered),
			Stacktrace: string(debug.Stack()),
		},
	}
	event.Fingerprint = EventFingerprint(event)
	return client.CaptureEvent(ctx, event, scope)
}

// formatRecovered formats a recovered panic value as a string.
func formatRecovered(recovered any) string {
	if recovered == nil {
		return "<nil>"
	}
	if err, ok := recovered.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", recovered)
}
