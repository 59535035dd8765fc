package component

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/flota/internal/acl"
	"github.com/yanizio/flota/internal/gateway"
)

type stubSvc struct{}

func (stubSvc) Policy() acl.Policy           { return acl.Default }
func (stubSvc) Backend() *gateway.RESTClient { return nil }
func (stubSvc) Logger() *zap.SugaredLogger   { return zap.NewNop().Sugar() }

type stubComp struct {
	name    string
	path    string
	initErr error
	inited  bool
}

func (s *stubComp) Name() string { return s.name }
func (s *stubComp) Init(Services) error {
	s.inited = true
	return s.initErr
}
func (s *stubComp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get(s.path, func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	return r
}

func reset(t *testing.T) {
	mu.Lock()
	saved := registry
	registry = map[string]Component{}
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		registry = saved
		mu.Unlock()
	})
}

func TestMountInitialisesAndRoutes(t *testing.T) {
	reset(t)
	a := &stubComp{name: "a", path: "/"}
	b := &stubComp{name: "b", path: "/"}
	Register(b)
	Register(a)

	if got := AllNames(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("AllNames = %v", got)
	}

	r := chi.NewRouter()
	if err := Mount(r, stubSvc{}, "b"); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if !a.inited || b.inited {
		t.Fatalf("inited a=%v b=%v", a.inited, b.inited)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/a", nil))
	if rr.Code != http.StatusTeapot {
		t.Fatalf("/a code = %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/b", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("/b code = %d, disabled component must not mount", rr.Code)
	}
}

func TestMountInitError(t *testing.T) {
	reset(t)
	Register(&stubComp{name: "x", path: "/x", initErr: errors.New("boom")})
	if err := Mount(chi.NewRouter(), stubSvc{}); err == nil {
		t.Fatal("expected init error")
	}
}
