package middleware

import (
	"net/http"
	"storyhub/backend/global"
	"time"

	"github.com/rs/zerolog/hlog"
)

// Logging gives every request its own logger carrying a request id and the
// client address, then writes one access line when the handler returns.
func Logging(next http.Handler) http.Handler {
	h := hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		l := hlog.FromRequest(r)
		ev := l.Info()
		if status >= 500 {
			ev = l.Error()
		}
		ev.Str("method", r.Method).Str("path", r.URL.Path).Int("status", status).Int("size", size).Dur("duration", d).Msg("request")
	})(next)
	h = hlog.RemoteAddrHandler("ip")(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	return hlog.NewHandler(global.Logger)(h)
}
