package beacon

import (
	"context"
	"testing"
)

func TestWithScope_RoundTrip(t *testing.T) {
	scope := NewScope()
	ctx := WithScope(context.Background(), scope)

	got, ok := ScopeFromContext(ctx)
	if !ok {
		t.Fatal("ScopeFromContext should find the attached scope")
	}
	if got != scope {
		t.Error("ScopeFromContext returned a different scope")
	}
}

func TestScopeFromContext_Absent(t *testing.T) {
	if _, ok := ScopeFromContext(context.Background()); ok {
		t.Error("ScopeFromContext should report absence on a bare context")
	}
}

func TestScopeFromContext_NilScope(t *testing.T) {
	ctx := WithScope(context.Background(), nil)
	if _, ok := ScopeFromContext(ctx); ok {
		t.Error("a nil scope should read as absent")
	}
}

func TestOverlayAnyMap(t *testing.T) {
	base := map[string]any{"a": 1, "shared": "base"}
	over := map[string]any{"b": 2, "shared": "over"}

	got := overlayAnyMap(base, over)
	if got["a"] != 1 || got["b"] != 2 {
		t.Errorf("overlay = %v, want both sides present", got)
	}
	if got["shared"] != "over" {
		t.Errorf("shared = %v, overlay keys must win", got["shared"])
	}
	if base["shared"] != "base" {
		t.Error("overlay must not mutate its inputs")
	}
}

func TestOverlayStringMap_NilHandling(t *testing.T) {
	if got := overlayStringMap(nil, nil); got != nil {
		t.Errorf("overlay of two nils = %v, want nil", got)
	}
	if got := overlayStringMap(nil, map[string]string{"k": "v"}); got["k"] != "v" {
		t.Errorf("overlay = %v, want the non-nil side", got)
	}
}
