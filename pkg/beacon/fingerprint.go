// fingerprint.go generates stable hashes for grouping similar events.

package beacon

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// EventFingerprint generates a hash for grouping similar events.
// The fingerprint is based on:
//   - exception type and culprit
//   - the event message, only when there is no exception (message events)
//   - first 3 stack frames (function names only, normalized)
//
// It ignores variable data like timestamps, event IDs, line numbers, and
// memory addresses.
func EventFingerprint(event *Event) string {
	var parts []string
	if event.Exception != nil {
		parts = append(parts, event.Exception.Type)
		parts = append(parts, normalizeStackTrace(event.Exception.Stacktrace)...)
	} else {
		parts = append(parts, event.Message)
	}
	parts = append(parts, event.Culprit)

	input := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(input))

	// Hex-encoded first 16 bytes (32 hex chars)
	return hex.EncodeToString(hash[:16])
}

// Regex patterns for stack trace parsing
var (
	// Match function names like "main.doSomething" or "pkg/subpkg.Function"
	funcNamePattern = regexp.MustCompile(`^([a-zA-Z0-9_./]+\.[a-zA-Z0-9_]+)`)

	// Match memory addresses like "0x1234abcd"
	memAddrPattern = regexp.MustCompile(`0x[0-9a-fA-F]+`)

	// Match offset patterns like "+0x123"
	offsetPattern = regexp.MustCompile(`\+0x[0-9a-fA-F]+`)
)

// normalizeStackTrace extracts the first 3 function names from a stack trace,
// stripping line numbers, memory addresses, and other variable data.
func normalizeStackTrace(trace string) []string {
	if trace == "" {
		return nil
	}

	var frames []string
	for _, line := range strings.Split(trace, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Skip header lines like "goroutine 1 [running]:"
		if strings.HasPrefix(line, "goroutine ") {
			continue
		}

		// Skip file path lines (start with tab or are absolute paths)
		if strings.HasPrefix(line, "\t") || strings.HasPrefix(line, "/") {
			continue
		}

		funcLine := line
		funcLine = memAddrPattern.ReplaceAllString(funcLine, "")
		funcLine = offsetPattern.ReplaceAllString(funcLine, "")

		// Drop parentheses and arguments
		if idx := strings.Index(funcLine, "("); idx > 0 {
			funcLine = funcLine[:idx]
		}

		funcLine = strings.TrimSpace(funcLine)
		if funcLine == "" {
			continue
		}

		if match := funcNamePattern.FindString(funcLine); match != "" {
			frames = append(frames, match)
			if len(frames) >= 3 {
				break
			}
		}
	}

	return frames
}
