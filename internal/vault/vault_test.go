package vault

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap/zaptest"
)

func TestParseRef(t *testing.T) {
	path, key, err := ParseRef("vault:secret/flota#jwt_secret")
	if err != nil || path != "secret/flota" || key != "jwt_secret" {
		t.Fatalf("ParseRef = %q %q %v", path, key, err)
	}
	for _, bad := range []string{"secret/flota#k", "vault:secret#k", "vault:secret/flota", "vault:secret/flota#"} {
		if _, _, err := ParseRef(bad); !errors.Is(err, ErrBadRef) {
			t.Errorf("ParseRef(%q) err = %v", bad, err)
		}
	}
}

func TestGetKVAndCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/v1/secret/data/flota" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"data":{"jwt_secret":"s3cr3t","port":8080},"metadata":{"version":1}}}`))
	}))
	defer srv.Close()

	api, err := vault.NewClient(&vault.Config{Address: srv.URL})
	if err != nil {
		t.Fatalf("vault client: %v", err)
	}
	api.SetToken("test")
	c := newClient(api, zaptest.NewLogger(t).Sugar())
	ctx := context.Background()

	got, err := c.Resolve(ctx, "vault:secret/flota#jwt_secret")
	if err != nil || got != "s3cr3t" {
		t.Fatalf("Resolve = %q, %v", got, err)
	}

	for i := 0; i < 2; i++ {
		if _, err := c.GetKV(ctx, "secret/flota", "jwt_secret", time.Minute); err != nil {
			t.Fatalf("GetKV: %v", err)
		}
	}
	if n := hits.Load(); n != 2 {
		t.Fatalf("server hits = %d, want 2 (second GetKV served from cache)", n)
	}

	if _, err := c.GetKV(ctx, "secret/flota", "port", 0); err == nil {
		t.Fatal("non-string value must fail")
	}
	if _, err := c.GetKV(ctx, "secret/flota", "missing", 0); err == nil {
		t.Fatal("missing key must fail")
	}
}
