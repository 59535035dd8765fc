// internal/middleware/security.go
//
// Security-header middleware.
//
// The dashboard API only ever returns JSON and the tenant theme
// stylesheet, so the policy is stricter than a page-serving site:
//
//   • Strict-Transport-Security  –  two years, sub-domains included
//   • Content-Security-Policy   –  nothing may be loaded or framed
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  no Referer leaves the API
//   • Cache-Control             –  no-store unless the handler chose otherwise
//
// Notes
// -----
// • Headers are set before next.ServeHTTP, because a handler that writes
//   its body commits the header map.  Handlers may still overwrite any of
//   them.
// • HSTS is skipped on plain-HTTP localhost so browsers do not pin it.
// • Oxford commas, two spaces after periods.

package middleware

import "net/http"

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	const (
		hsts  = "max-age=63072000; includeSubDomains"
		csp   = "default-src 'none'; frame-ancestors 'none'"
		nosn  = "nosniff"
		refer = "no-referrer"
		cache = "no-store"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		if r.TLS != nil || stripPort(r.Host) != "localhost" {
			h.Set("Strict-Transport-Security", hsts)
		}
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Content-Type-Options", nosn)
		h.Set("Referrer-Policy", refer)
		h.Set("Cache-Control", cache)

		next.ServeHTTP(w, r)
	})
}
