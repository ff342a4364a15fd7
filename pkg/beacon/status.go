// status.go classifies transport response codes into send outcomes.

package beacon

import "net/http"

// SendStatus is the classification of a delivery attempt's outcome.
type SendStatus int

const (
	// StatusUnknown means the response code did not map to a known outcome.
	StatusUnknown SendStatus = iota

	// StatusSkipped means the pipeline never attempted delivery: the SDK is
	// disabled or a ShouldSend predicate rejected the event.
	StatusSkipped

	// StatusSuccess means the server accepted the event.
	StatusSuccess

	// StatusRateLimit means the server throttled the event. The pipeline
	// reports this but takes no corrective action.
	StatusRateLimit

	// StatusInvalid means the server rejected the event payload.
	StatusInvalid

	// StatusFailed means the server failed while processing the event.
	StatusFailed
)

// String returns the wire-friendly name of the status.
func (s SendStatus) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusSuccess:
		return "success"
	case StatusRateLimit:
		return "rate_limit"
	case StatusInvalid:
		return "invalid"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StatusFromCode maps an HTTP-style response code to a SendStatus.
// StatusSkipped is never produced here; only the pipeline yields it.
func StatusFromCode(code int) SendStatus {
	switch {
	case code >= 200 && code < 300:
		return StatusSuccess
	case code == http.StatusTooManyRequests:
		return StatusRateLimit
	case code >= 400 && code < 500:
		return StatusInvalid
	case code >= 500 && code < 600:
		return StatusFailed
	default:
		return StatusUnknown
	}
}
