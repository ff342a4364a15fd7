// Package httpserver instruments net/http handlers with per-request scopes,
// request breadcrumbs, and panic capture.
//
// Each request gets its own scope, so breadcrumb trails and context from
// concurrent requests never mix while sharing one client and transport.
// Handlers reach their scope through beacon.ScopeFromContext, or implicitly
// by passing the request context to beacon.Recover.
package httpserver

import (
	"fmt"
	"net/http"

	"github.com/beaconhq/beacon-go/pkg/beacon"
)

// Middleware wraps handlers with a fresh scope per request, records an HTTP
// breadcrumb for the incoming request, and captures panics as fatal events
// before answering 500. Capture failures never abort request handling.
func Middleware(client *beacon.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := beacon.NewScope()
			ctx := beacon.WithScope(r.Context(), scope)

			_ = client.AddBreadcrumb(ctx, beacon.Breadcrumb{
				Type:     beacon.BreadcrumbTypeHTTP,
				Category: "http.request",
				Level:    beacon.LevelInfo,
				Message:  fmt.Sprintf("%s %s", r.Method, r.URL.Path),
				Data: map[string]any{
					beacon.BreadcrumbDataMethod: r.Method,
					beacon.BreadcrumbDataURL:    r.URL.String(),
				},
			}, scope)

			defer func() {
				if rec := recover(); rec != nil {
					_, _ = beacon.CapturePanic(ctx, client, rec, scope)
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
