// scrub.go implements fail-closed sensitive data redaction, packaged as
// BeforeSend/BeforeBreadcrumb hooks.

package beacon

import (
	"regexp"
	"strings"
)

// ScrubberConfig controls scrubbing behavior.
type ScrubberConfig struct {
	// SensitiveKeys contains additional substrings marking extra/tag/data
	// keys whose values must be redacted.
	SensitiveKeys []string

	// MaxMessageSize is the maximum length for event and breadcrumb messages
	// (default: 4096).
	MaxMessageSize int

	// MaxStackTraceSize is the maximum length for stack traces (default: 32768).
	MaxStackTraceSize int

	// MaxValueSize is the maximum length per extra/tag/data value (default: 1024).
	MaxValueSize int

	// ScrubMessages enables pattern scrubbing of messages for secrets/PII
	// (default: true).
	ScrubMessages bool
}

// DefaultScrubberConfig returns production-safe defaults.
func DefaultScrubberConfig() ScrubberConfig {
	return ScrubberConfig{
		MaxMessageSize:    4096,
		MaxStackTraceSize: 32768,
		MaxValueSize:      1024,
		ScrubMessages:     true,
	}
}

// Compiled regex patterns for message scrubbing (compiled once at package init)
var messageScrubPatterns = []*regexp.Regexp{
	// API keys and tokens
	regexp.MustCompile(`(?i)(api[_-]?key|token)[=:\s]+['"]?[\w\-\.]+['"]?`),
	regexp.MustCompile(`(?i)(authorization|bearer)[=:\s]+['"]?[\w\-\.]+['"]?[\s]+['"]?[\w\-\.]+['"]?`),
	regexp.MustCompile(`(?i)sk-[a-zA-Z0-9_-]{20,}`),
	regexp.MustCompile(`(?i)ghp_[a-zA-Z0-9]{36}`),
	regexp.MustCompile(`(?i)github_pat_[a-zA-Z0-9_]{22,}`),
	regexp.MustCompile(`(?i)xox[baprs]-[a-zA-Z0-9\-]{10,}`),
	regexp.MustCompile(`(?i)eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`), // JWT

	// Credentials
	regexp.MustCompile(`(?i)password[=:\s]+['"]?[^\s'"",]+['"]?`),
	regexp.MustCompile(`(?i)secret[=:\s]+['"]?[^\s'"",]+['"]?`),
	regexp.MustCompile(`(?i)passwd[=:\s]+['"]?[^\s'"",]+['"]?`),
	regexp.MustCompile(`(?i)credential[=:\s]+['"]?[^\s'"",]+['"]?`),

	// PII
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`), // Email
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),                               // SSN
	regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`),          // Credit card
}

// Sensitive key substrings (case-insensitive match)
var sensitiveKeyPatterns = []string{
	"token",
	"key",
	"secret",
	"password",
	"credential",
	"auth",
	"passwd",
}

// Path patterns to normalize in stack traces
var pathNormalizationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/home/[^/]+/`),
	regexp.MustCompile(`/Users/[^/]+/`),
	regexp.MustCompile(`C:\\Users\\[^\\]+\\`),
	regexp.MustCompile(`/tmp/[^/]+/`),
}

var memAddrScrubPattern = regexp.MustCompile(`0x[0-9a-fA-F]+`)

// Scrubber redacts sensitive data from events and breadcrumbs. Its ScrubEvent
// and ScrubBreadcrumb methods have the shapes of the BeforeSend and
// BeforeBreadcrumb hooks.
type Scrubber struct {
	cfg ScrubberConfig
}

// NewScrubber creates a scrubber with the given configuration.
func NewScrubber(cfg ScrubberConfig) *Scrubber {
	return &Scrubber{cfg: cfg}
}

// WithDefaultScrubbing installs a default-configured scrubber as the
// BeforeSend and BeforeBreadcrumb hooks.
func WithDefaultScrubbing() Option {
	s := NewScrubber(DefaultScrubberConfig())
	return func(o *Options) {
		o.BeforeSend = s.ScrubEvent
		o.BeforeBreadcrumb = s.ScrubBreadcrumb
	}
}

// ScrubEvent redacts the event's message, exception, context groups, and
// breadcrumbs. Shaped as a BeforeSend hook; the input is mutated and
// returned (prepared events are per-call copies).
func (s *Scrubber) ScrubEvent(event *Event) *Event {
	event.Message = s.ScrubMessage(event.Message)
	if event.Exception != nil {
		event.Exception.Value = s.ScrubMessage(event.Exception.Value)
		event.Exception.Stacktrace = s.ScrubStackTrace(event.Exception.Stacktrace)
	}
	event.Extra = s.scrubAnyMap(event.Extra)
	event.Tags = s.scrubStringMap(event.Tags)
	event.User = s.scrubStringMap(event.User)
	for i := range event.Breadcrumbs {
		event.Breadcrumbs[i] = s.ScrubBreadcrumb(event.Breadcrumbs[i])
	}
	return event
}

// ScrubBreadcrumb redacts a breadcrumb's message and data.
// Shaped as a BeforeBreadcrumb hook.
func (s *Scrubber) ScrubBreadcrumb(crumb Breadcrumb) Breadcrumb {
	crumb.Message = s.ScrubMessage(crumb.Message)
	crumb.Data = s.scrubAnyMap(crumb.Data)
	return crumb
}

// ScrubMessage truncates a message and redacts sensitive patterns.
func (s *Scrubber) ScrubMessage(msg string) string {
	if !s.cfg.ScrubMessages {
		return msg
	}
	if len(msg) > s.cfg.MaxMessageSize {
		msg = truncateWithMarker(msg, s.cfg.MaxMessageSize)
	}
	result := msg
	for _, pattern := range messageScrubPatterns {
		result = pattern.ReplaceAllString(result, "[REDACTED]")
	}
	return result
}

// ScrubStackTrace normalizes user paths and memory addresses and limits size.
func (s *Scrubber) ScrubStackTrace(trace string) string {
	if trace == "" {
		return trace
	}
	result := trace
	for _, pattern := range pathNormalizationPatterns {
		result = pattern.ReplaceAllString(result, "/[PATH]/")
	}
	result = memAddrScrubPattern.ReplaceAllString(result, "0x...")
	if len(result) > s.cfg.MaxStackTraceSize {
		result = truncateWithMarker(result, s.cfg.MaxStackTraceSize)
	}
	return result
}

// scrubAnyMap redacts sensitive keys and scrubs string values.
// Nested values are left alone except strings, which get message scrubbing.
func (s *Scrubber) scrubAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	result := make(map[string]any, len(m))
	for key, value := range m {
		if s.isSensitiveKey(key) {
			result[key] = "[REDACTED]"
			continue
		}
		if str, ok := value.(string); ok {
			if len(str) > s.cfg.MaxValueSize {
				str = truncateWithMarker(str, s.cfg.MaxValueSize)
			}
			result[key] = s.ScrubMessage(str)
			continue
		}
		result[key] = value
	}
	return result
}

// scrubStringMap redacts sensitive keys and truncates long values.
func (s *Scrubber) scrubStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	result := make(map[string]string, len(m))
	for key, value := range m {
		if s.isSensitiveKey(key) {
			result[key] = "[REDACTED]"
			continue
		}
		if len(value) > s.cfg.MaxValueSize {
			value = truncateWithMarker(value, s.cfg.MaxValueSize)
		}
		result[key] = value
	}
	return result
}

// isSensitiveKey checks a key against built-in and configured patterns.
func (s *Scrubber) isSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	for _, pattern := range s.cfg.SensitiveKeys {
		if strings.Contains(keyLower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// truncateWithMarker truncates a string and adds a truncation marker.
func truncateWithMarker(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	marker := "...[TRUNCATED]"
	if maxLen <= len(marker) {
		return marker[:maxLen]
	}
	return s[:maxLen-len(marker)] + marker
}
