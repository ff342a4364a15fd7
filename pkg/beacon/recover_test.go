package beacon

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func panickingFunc(ctx context.Context, client *Client) {
	defer Recover(ctx, client)
	panic("something went wrong")
}

func TestRecover_CapturesPanic(t *testing.T) {
	transport := newFakeTransport()
	client := mustNew(t, transport, WithDSN(testDSN))

	panickingFunc(context.Background(), client)

	sent := transport.sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d events, want 1", len(sent))
	}
	event := sent[0]
	if event.Level != LevelFatal {
		t.Errorf("Level = %v, want %v", event.Level, LevelFatal)
	}
	if event.Message != "something went wrong" {
		t.Errorf("Message = %q", event.Message)
	}
	if event.Exception == nil || event.Exception.Type != "panic" {
		t.Error("panic events should carry a panic exception")
	}
	if event.Exception.Stacktrace == "" {
		t.Error("panic events should carry a stack trace")
	}
	if event.Fingerprint == "" {
		t.Error("panic events should be fingerprinted")
	}
}

func TestRecover_NoPanicIsNil(t *testing.T) {
	transport := newFakeTransport()
	client := mustNew(t, transport, WithDSN(testDSN))

	func() {
		defer func() {
			if r := Recover(context.Background(), client); r != nil {
				t.Errorf("Recover returned %v without a panic", r)
			}
		}()
	}()

	if len(transport.sent()) != 0 {
		t.Error("nothing should be captured without a panic")
	}
}

func TestRecover_ErrorPanicValue(t *testing.T) {
	transport := newFakeTransport()
	client := mustNew(t, transport, WithDSN(testDSN))

	func() {
		defer Recover(context.Background(), client)
		panic(errors.New("wrapped failure"))
	}()

	if got := transport.sent()[0].Message; got != "wrapped failure" {
		t.Errorf("Message = %q, want the error text", got)
	}
}

func TestRecover_UsesScopeFromContext(t *testing.T) {
	transport := newFakeTransport()
	client := mustNew(t, transport, WithDSN(testDSN))

	scope := NewScope()
	if err := client.AddBreadcrumb(context.Background(), Breadcrumb{Message: "request started"}, scope); err != nil {
		t.Fatalf("AddBreadcrumb returned error: %v", err)
	}
	ctx := WithScope(context.Background(), scope)

	panickingFunc(ctx, client)

	event := transport.sent()[0]
	if len(event.Breadcrumbs) != 1 || event.Breadcrumbs[0].Message != "request started" {
		t.Errorf("breadcrumbs = %+v, panic event should carry the context scope's trail", event.Breadcrumbs)
	}
}

func TestRecover_SwallowsCaptureFailures(t *testing.T) {
	transport := newFakeTransport()
	transport.sendErr = errors.New("down")
	client := mustNew(t, transport, WithDSN(testDSN))

	// Must not panic again or surface the transport error.
	panickingFunc(context.Background(), client)
}

func TestCapturePanic_Direct(t *testing.T) {
	transport := newFakeTransport()
	client := mustNew(t, transport, WithDSN(testDSN))

	status, err := CapturePanic(context.Background(), client, "manual recovery", nil)
	if err != nil {
		t.Fatalf("CapturePanic returned error: %v", err)
	}
	if status != StatusSuccess {
		t.Errorf("status = %v, want %v", status, StatusSuccess)
	}
	if got := transport.sent()[0].Message; got != "manual recovery" {
		t.Errorf("Message = %q", got)
	}
}

func TestFormatRecovered(t *testing.T) {
	if got := formatRecovered(nil); got != "<nil>" {
		t.Errorf("formatRecovered(nil) = %q", got)
	}
	if got := formatRecovered(errors.New("e")); got != "e" {
		t.Errorf("formatRecovered(error) = %q", got)
	}
	if got := formatRecovered(42); !strings.Contains(got, "42") {
		t.Errorf("formatRecovered(42) = %q", got)
	}
}
