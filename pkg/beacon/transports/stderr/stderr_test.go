package stderr

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/beaconhq/beacon-go/pkg/beacon"
)

func TestSendEvent_FormatsEvent(t *testing.T) {
	var buf bytes.Buffer
	transport := New(WithWriter(&buf))

	code, err := transport.SendEvent(context.Background(), &beacon.Event{
		Timestamp:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Level:       beacon.LevelError,
		Message:     "disk full",
		Environment: "staging",
		Fingerprint: "abc123",
		Tags:        map[string]string{"region": "eu"},
	})
	if err != nil {
		t.Fatalf("SendEvent returned error: %v", err)
	}
	if code != http.StatusOK {
		t.Errorf("code = %d, want 200", code)
	}

	out := buf.String()
	for _, want := range []string{"[BEACON]", "ERROR", "disk full", "(env: staging)", "abc123", "region=eu"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSendEvent_VerboseIncludesTrailAndStack(t *testing.T) {
	var buf bytes.Buffer
	transport := New(WithWriter(&buf), WithVerbose())

	_, err := transport.SendEvent(context.Background(), &beacon.Event{
		Level:       beacon.LevelFatal,
		Message:     "boom",
		Breadcrumbs: []beacon.Breadcrumb{{Category: "auth", Message: "login"}},
		Exception:   &beacon.Exception{Type: "panic", Stacktrace: "goroutine 1 [running]:\nmain.main()"},
	})
	if err != nil {
		t.Fatalf("SendEvent returned error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Breadcrumb: [auth] login") {
		t.Errorf("verbose output missing breadcrumb:\n%s", out)
	}
	if !strings.Contains(out, "main.main()") {
		t.Errorf("verbose output missing stack trace:\n%s", out)
	}
}

func TestSendEvent_QuietOmitsStack(t *testing.T) {
	var buf bytes.Buffer
	transport := New(WithWriter(&buf))

	_, err := transport.SendEvent(context.Background(), &beacon.Event{
		Message:   "boom",
		Exception: &beacon.Exception{Type: "panic", Stacktrace: "main.main()"},
	})
	if err != nil {
		t.Fatalf("SendEvent returned error: %v", err)
	}
	if strings.Contains(buf.String(), "Stack trace") {
		t.Error("stack traces belong to verbose mode only")
	}
}

func TestEventFromError_PopulatesException(t *testing.T) {
	transport := New()

	event, err := transport.EventFromError(context.Background(), errors.New("kaboom"))
	if err != nil {
		t.Fatalf("EventFromError returned error: %v", err)
	}
	if event.Level != beacon.LevelError {
		t.Errorf("Level = %v, want %v", event.Level, beacon.LevelError)
	}
	if event.Exception == nil || event.Exception.Value != "kaboom" {
		t.Errorf("Exception = %+v, want value kaboom", event.Exception)
	}
	if event.Exception.Stacktrace == "" {
		t.Error("stack trace should be captured")
	}
}

func TestStoreBreadcrumb_AcceptsAndPrintsWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	transport := New(WithWriter(&buf), WithVerbose())

	ok, err := transport.StoreBreadcrumb(context.Background(), beacon.Breadcrumb{Category: "db", Message: "query"}, beacon.NewScope())
	if err != nil {
		t.Fatalf("StoreBreadcrumb returned error: %v", err)
	}
	if !ok {
		t.Error("stderr transport should accept every breadcrumb")
	}
	if !strings.Contains(buf.String(), "[db] query") {
		t.Errorf("verbose output missing breadcrumb: %s", buf.String())
	}
}

func TestInstall_AlwaysReady(t *testing.T) {
	ok, err := New().Install(context.Background())
	if err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if !ok {
		t.Error("stderr transport should always be ready")
	}
}
