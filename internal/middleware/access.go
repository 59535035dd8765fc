// internal/middleware/access.go
//
// Access log.
//
// One structured line per request at Info level, through the global
// sugared logger.  The User-Agent is reduced to browser, OS, and device
// class with internal/ua so log search can group by client without regex
// over raw headers.  The tenant session cookie, when the browser already
// holds one, rides along for correlation.
package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/flota/internal/session"
	"github.com/yanizio/flota/internal/ua"
)

// AccessLog logs method, path, status, size, duration, and client summary.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		info := ua.Parse(r.UserAgent())
		kv := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"dur", time.Since(start),
			"client", info.String(),
		}
		if id := middleware.GetReqID(r.Context()); id != "" {
			kv = append(kv, "req_id", id)
		}
		if id, ok := session.ID(r); ok {
			kv = append(kv, "session", id)
		}
		if info.IsBot {
			kv = append(kv, "bot", true)
		}
		zap.S().Infow("http", kv...)
	})
}
