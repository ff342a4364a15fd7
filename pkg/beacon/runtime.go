// runtime.go captures process state as a context fragment.

package beacon

import (
	"os"
	"runtime"
	"time"
)

// RuntimeContext captures process metrics as a context fragment suitable for
// Client.SetContext. The startTime parameter is used to calculate uptime.
func RuntimeContext(startTime time.Time) Context {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	hostname, _ := os.Hostname() // Ignore error, empty hostname is acceptable

	uptimeMs := time.Since(startTime).Milliseconds()
	if uptimeMs < 0 {
		uptimeMs = 0 // Clamp to 0 if start time is in the future
	}

	return Context{
		Extra: map[string]any{
			"memory_bytes":    int64(memStats.Alloc),
			"goroutine_count": runtime.NumGoroutine(),
			"uptime_ms":       uptimeMs,
		},
		Tags: map[string]string{
			"hostname":   hostname,
			"go_version": runtime.Version(),
		},
	}
}
