// context.go defines the context record merged into outgoing events and
// helpers for carrying a scope through context.Context.

package beacon

import "context"

// Context is additional metadata merged into outgoing events. Each group is
// merged independently and shallowly (one level of key replacement).
type Context struct {
	// Extra contains arbitrary key-value context.
	Extra map[string]any `json:"extra,omitempty"`

	// Tags contains short indexed key-value pairs.
	Tags map[string]string `json:"tags,omitempty"`

	// User identifies the affected user.
	User map[string]string `json:"user,omitempty"`
}

// overlayAnyMap returns base with over layered on top; over wins on collision.
func overlayAnyMap(base, over map[string]any) map[string]any {
	if base == nil && over == nil {
		return nil
	}
	out := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// overlayStringMap returns base with over layered on top; over wins on collision.
func overlayStringMap(base, over map[string]string) map[string]string {
	if base == nil && over == nil {
		return nil
	}
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Context key type (unexported to avoid collisions)
type scopeKey struct{}

// WithScope returns a context carrying the given scope. Request handlers use
// this to run an independent breadcrumb/context trail per request while
// sharing one client and transport.
func WithScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFromContext extracts the scope attached by WithScope.
// Returns nil and false if none is attached.
func ScopeFromContext(ctx context.Context) (*Scope, bool) {
	scope, ok := ctx.Value(scopeKey{}).(*Scope)
	return scope, ok && scope != nil
}
