package middleware

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// WithRoute adds the matched pattern to the request logger so the access
// line shows "POST /stories/{id}/like" rather than the raw path.
func WithRoute(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("route", pattern)
		})
		next.ServeHTTP(w, r)
	})
}
