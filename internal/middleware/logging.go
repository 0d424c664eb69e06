package middleware

import (
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RequestLogger attaches logger to each request and writes one access log
// line per request. It must run after chi's RequestID middleware.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		h := requestID(next)
		h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			level := zerolog.InfoLevel
			if status >= http.StatusInternalServerError {
				level = zerolog.ErrorLevel
			}
			hlog.FromRequest(r).WithLevel(level).
				Str("method", r.Method).
				Stringer("url", r.URL).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("Request handled")
		})(h)
		h = hlog.RemoteAddrHandler("remote_addr")(h)
		return hlog.NewHandler(logger)(h)
	}
}

// requestID copies chi's request id into the request logger
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chiMiddleware.GetReqID(r.Context()); id != "" {
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("request_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}
