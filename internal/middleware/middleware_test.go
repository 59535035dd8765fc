package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestForceHTTPS(t *testing.T) {
	cases := []struct {
		name   string
		host   string
		tls    bool
		proto  string
		status int
	}{
		{"plain http", "transportesdelsur.flota.app", false, "", http.StatusPermanentRedirect},
		{"tls", "transportesdelsur.flota.app", true, "", http.StatusOK},
		{"proxy tls", "transportesdelsur.flota.app", false, "https", http.StatusOK},
		{"localhost", "localhost:8080", false, "", http.StatusOK},
		{"ip", "127.0.0.1:8080", false, "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/tenant?x=1", nil)
			r.Host = tc.host
			if tc.tls {
				r.TLS = &tls.ConnectionState{}
			}
			if tc.proto != "" {
				r.Header.Set("X-Forwarded-Proto", tc.proto)
			}
			w := httptest.NewRecorder()
			ForceHTTPS(ok).ServeHTTP(w, r)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}
			if tc.status == http.StatusPermanentRedirect {
				if got := w.Header().Get("Location"); got != "https://transportesdelsur.flota.app/api/tenant?x=1" {
					t.Fatalf("Location = %q", got)
				}
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := Security(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Cache-Control", "max-age=60")
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Host = "flota.app"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	for _, k := range []string{"Strict-Transport-Security", "Content-Security-Policy", "X-Content-Type-Options", "Referrer-Policy"} {
		if w.Header().Get(k) == "" {
			t.Errorf("%s missing", k)
		}
	}
	if got := w.Header().Get("Cache-Control"); got != "max-age=60" {
		t.Errorf("handler Cache-Control overwritten: %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Host = "localhost:8080"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS sent to plain localhost")
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	r := httptest.NewRequest(http.MethodPost, "/api/forms/vehiculo/validate", nil)
	r.Header.Set("User-Agent", "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Mobile Safari/537.36")
	AccessLog(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})).ServeHTTP(httptest.NewRecorder(), r)

	entries := logs.FilterMessage("http").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log lines", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) || fields["path"] != "/api/forms/vehiculo/validate" {
		t.Fatalf("fields = %v", fields)
	}
}
