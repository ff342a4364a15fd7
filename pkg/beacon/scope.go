// scope.go holds the breadcrumb trail and context attached to captured events.

package beacon

import "sync"

// Scope is the mutable container of breadcrumbs and context associated with a
// capture context. A client owns one default scope; callers may create
// alternates with NewScope and pass them per call for independent trails.
//
// Safe for concurrent use: mutations are serialized internally, so two
// concurrent AddBreadcrumb calls against one scope both land (their relative
// order is unspecified).
type Scope struct {
	mu          sync.Mutex
	breadcrumbs []Breadcrumb
	context     Context
}

// NewScope returns a fresh scope with no breadcrumbs and empty context.
func NewScope() *Scope {
	return &Scope{}
}

// Breadcrumbs returns a copy of the stored trail, oldest first.
func (s *Scope) Breadcrumbs() []Breadcrumb {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Breadcrumb, len(s.breadcrumbs))
	copy(out, s.breadcrumbs)
	return out
}

// Context returns a copy of the scope's context.
func (s *Scope) Context() Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Context{
		Extra: copyAnyMap(s.context.Extra),
		Tags:  copyStringMap(s.context.Tags),
		User:  copyStringMap(s.context.User),
	}
}

// appendBreadcrumb appends crumb and trims the trail to the newest max
// entries, oldest dropped first. The trail is replaced, not mutated in place,
// so slices handed out by Breadcrumbs stay stable.
func (s *Scope) appendBreadcrumb(crumb Breadcrumb, max int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]Breadcrumb, 0, len(s.breadcrumbs)+1)
	next = append(next, s.breadcrumbs...)
	next = append(next, crumb)
	if max > 0 && len(next) > max {
		next = next[len(next)-max:]
	}
	s.breadcrumbs = next
}

// mergeContext additively merges each present group of fragment into the
// scope's context. Incoming keys win on collision; absent groups are left
// untouched.
func (s *Scope) mergeContext(fragment Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fragment.Extra != nil {
		s.context.Extra = overlayAnyMap(s.context.Extra, fragment.Extra)
	}
	if fragment.Tags != nil {
		s.context.Tags = overlayStringMap(s.context.Tags, fragment.Tags)
	}
	if fragment.User != nil {
		s.context.User = overlayStringMap(s.context.User, fragment.User)
	}
}
