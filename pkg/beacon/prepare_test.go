package beacon

import (
	"context"
	"testing"
)

func preparedThrough(t *testing.T, client *Client, transport *fakeTransport, event *Event, scope *Scope) *Event {
	t.Helper()
	if _, err := client.CaptureEvent(context.Background(), event, scope); err != nil {
		t.Fatalf("CaptureEvent returned error: %v", err)
	}
	sent := transport.sent()
	if len(sent) == 0 {
		t.Fatal("no event was delivered")
	}
	return sent[len(sent)-1]
}

func TestPrepareEvent_StampsSDKWhenAbsent(t *testing.T) {
	transport := newFakeTransport()
	client := mustNew(t, transport, WithDSN(testDSN))

	got := preparedThrough(t, client, transport, &Event{Message: "x"}, nil)
	if got.SDK == nil || got.SDK.Name != sdkName {
		t.Errorf("SDK = %+v, want the %s stamp", got.SDK, sdkName)
	}
}

func TestPrepareEvent_CallerSDKWins(t *testing.T) {
	transport := newFakeTransport()
	client := mustNew(t, transport, WithDSN(testDSN))

	event := &Event{Message: "x", SDK: &SDKInfo{Name: "custom-sdk", Version: "9.9"}}
	got := preparedThrough(t, client, transport, event, nil)
	if got.SDK.Name != "custom-sdk" {
		t.Errorf("SDK.Name = %q, a caller-set sdk field must win", got.SDK.Name)
	}
}

func TestPrepareEvent_FillsEnvironmentAndRelease(t *testing.T) {
	transport := newFakeTransport()
	client := mustNew(t, transport, WithDSN(testDSN),
		WithEnvironment("staging"), WithRelease("1.2.3"))

	got := preparedThrough(t, client, transport, &Event{Message: "x"}, nil)
	if got.Environment != "staging" {
		t.Errorf("Environment = %q, want %q", got.Environment, "staging")
	}
	if got.Release != "1.2.3" {
		t.Errorf("Release = %q, want %q", got.Release, "1.2.3")
	}
}

func TestPrepareEvent_NeverOverwritesCallerFields(t *testing.T) {
	transport := newFakeTransport()
	client := mustNew(t, transport, WithDSN(testDSN),
		WithEnvironment("staging"), WithRelease("1.2.3"))

	event := &Event{Message: "x", Environment: "canary", Release: "2.0.0"}
	got := preparedThrough(t, client, transport, event, nil)
	if got.Environment != "canary" {
		t.Errorf("Environment = %q, caller value must win", got.Environment)
	}
	if got.Release != "2.0.0" {
		t.Errorf("Release = %q, caller value must win", got.Release)
	}
}

func TestPrepareEvent_ScopeBreadcrumbsOverwriteEventTrail(t *testing.T) {
	transport := newFakeTransport()
	client := mustNew(t, transport, WithDSN(testDSN))
	ctx := context.Background()

	if err := client.AddBreadcrumb(ctx, Breadcrumb{Message: "from-scope"}, nil); err != nil {
		t.Fatalf("AddBreadcrumb returned error: %v", err)
	}

	event := &Event{Message: "x", Breadcrumbs: []Breadcrumb{{Message: "stale"}}}
	got := preparedThrough(t, client, transport, event, nil)
	if len(got.Breadcrumbs) != 1 || got.Breadcrumbs[0].Message != "from-scope" {
		t.Errorf("breadcrumbs = %+v, scope trail must overwrite the event's", got.Breadcrumbs)
	}
}

func TestPrepareEvent_EmptyScopeKeepsEventTrail(t *testing.T) {
	transport := newFakeTransport()
	client := mustNew(t, transport, WithDSN(testDSN))

	event := &Event{Message: "x", Breadcrumbs: []Breadcrumb{{Message: "mine"}}}
	got := preparedThrough(t, client, transport, event, nil)
	if len(got.Breadcrumbs) != 1 || got.Breadcrumbs[0].Message != "mine" {
		t.Errorf("breadcrumbs = %+v, an empty scope must not clear the event's trail", got.Breadcrumbs)
	}
}

func TestPrepareEvent_ContextMergesEventKeysWin(t *testing.T) {
	transport := newFakeTransport()
	client := mustNew(t, transport, WithDSN(testDSN))
	ctx := context.Background()

	fragment := Context{
		Extra: map[string]any{"shared": "scope", "scope_only": true},
		Tags:  map[string]string{"region": "eu"},
		User:  map[string]string{"id": "7"},
	}
	if err := client.SetContext(ctx, fragment, nil); err != nil {
		t.Fatalf("SetContext returned error: %v", err)
	}

	event := &Event{Message: "x", Extra: map[string]any{"shared": "event"}}
	got := preparedThrough(t, client, transport, event, nil)

	if got.Extra["shared"] != "event" {
		t.Errorf("extra[shared] = %v, event keys must win on collision", got.Extra["shared"])
	}
	if got.Extra["scope_only"] != true {
		t.Error("scope keys must fill gaps")
	}
	if got.Tags["region"] != "eu" || got.User["id"] != "7" {
		t.Error("tags and user groups must merge from the scope")
	}
}

func TestPrepareEvent_NeverMutatesInput(t *testing.T) {
	transport := newFakeTransport()
	client := mustNew(t, transport, WithDSN(testDSN),
		WithEnvironment("staging"))
	ctx := context.Background()

	if err := client.SetContext(ctx, Context{Extra: map[string]any{"k": "v"}}, nil); err != nil {
		t.Fatalf("SetContext returned error: %v", err)
	}
	if err := client.AddBreadcrumb(ctx, Breadcrumb{Message: "crumb"}, nil); err != nil {
		t.Fatalf("AddBreadcrumb returned error: %v", err)
	}

	input := &Event{Message: "x"}
	preparedThrough(t, client, transport, input, nil)

	if input.SDK != nil || input.Environment != "" || input.Breadcrumbs != nil || input.Extra != nil {
		t.Errorf("input event was mutated: %+v", input)
	}
}

func TestPrepareEvent_TrimsTrailToMax(t *testing.T) {
	transport := newFakeTransport()
	client := mustNew(t, transport, WithDSN(testDSN), WithMaxBreadcrumbs(2))
	ctx := context.Background()

	for _, msg := range []string{"a", "b", "c"} {
		if err := client.AddBreadcrumb(ctx, Breadcrumb{Message: msg}, nil); err != nil {
			t.Fatalf("AddBreadcrumb returned error: %v", err)
		}
	}

	got := preparedThrough(t, client, transport, &Event{Message: "x"}, nil)
	if len(got.Breadcrumbs) != 2 {
		t.Fatalf("event carries %d breadcrumbs, want 2", len(got.Breadcrumbs))
	}
	if got.Breadcrumbs[0].Message != "b" || got.Breadcrumbs[1].Message != "c" {
		t.Errorf("trail = [%s, %s], want the newest two", got.Breadcrumbs[0].Message, got.Breadcrumbs[1].Message)
	}
}
