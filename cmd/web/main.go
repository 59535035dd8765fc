// cmd/web/main.go
//
// Flota – HTTP entry point.
//
// Start-up
// --------
//
//  1. Load configuration (conf/.env → conf/global.yaml → FLOTA_ env, with
//     `vault:` references resolved).
//
//  2. Start the daily rotating logger (tees to console when running in a
//     TTY) and install it as the zap global.
//
//  3. Open the SQL pool when the tenant source or the preference store
//     needs it.
//
//  4. Build the tenant source (static, sql, or remote), wrapped in the
//     TTL cache, and the per-browser session cache.
//
//  5. Load form definitions and merge the configured ACL overrides.
//
//  6. Build the router:
//
//     • /metrics and /healthz      – outside auth and sessions
//     • /api/*                     – Bearer → session → components
//
//  7. Serve until SIGINT or SIGTERM, then drain.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/yanizio/flota/internal/acl"
	"github.com/yanizio/flota/internal/auth"
	"github.com/yanizio/flota/internal/component"
	"github.com/yanizio/flota/internal/config"
	"github.com/yanizio/flota/internal/database"
	"github.com/yanizio/flota/internal/form"
	"github.com/yanizio/flota/internal/gateway"
	"github.com/yanizio/flota/internal/logger"
	"github.com/yanizio/flota/internal/middleware"
	"github.com/yanizio/flota/internal/prefs"
	"github.com/yanizio/flota/internal/server"
	"github.com/yanizio/flota/internal/session"
	"github.com/yanizio/flota/internal/subdomain"
	"github.com/yanizio/flota/internal/tenant"
	"github.com/yanizio/flota/internal/tenant/meta"

	_ "github.com/yanizio/flota/components/backend"
	_ "github.com/yanizio/flota/components/forms"
	_ "github.com/yanizio/flota/components/tenant"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// services implements component.Services.
type services struct {
	policy  acl.Policy
	backend *gateway.RESTClient
	log     *zap.SugaredLogger
}

func (s services) Policy() acl.Policy           { return s.policy }
func (s services) Backend() *gateway.RESTClient { return s.backend }
func (s services) Logger() *zap.SugaredLogger   { return s.log }

func main() {
	if err := run(); err != nil {
		log.Fatalf("flota: %v", err)
	}
}

func run() error {
	//
	// ── 1.  Configuration and logging ───────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, cfg.Log.Level, runningInTTY())
	if err != nil {
		return fmt.Errorf("start logger: %w", err)
	}
	defer func() { _ = logOut.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 2.  Database (optional) ─────────────────────────────────────────
	//
	var db *sqlx.DB
	if cfg.NeedsDatabase() {
		opt := database.DefaultOptions
		if cfg.Database.MaxOpen > 0 {
			opt.MaxOpenConns = cfg.Database.MaxOpen
		}
		if cfg.Database.MaxIdle > 0 {
			opt.MaxIdleConns = cfg.Database.MaxIdle
		}
		logOut.Infow("connecting to database", "driver", cfg.Database.Driver)
		db, err = database.OpenWithOptions(ctx, cfg.Database.Driver, cfg.Database.DSN, opt)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		logOut.Infow("database online", "driver", cfg.Database.Driver)
	}

	//
	// ── 3.  Backend client, tenant source, and session cache ────────────
	//
	backend := gateway.NewRESTClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, nil)

	src, err := tenantSource(cfg, db, backend, logOut)
	if err != nil {
		return err
	}
	if cfg.Tenant.CacheTTL > 0 {
		cached, err := meta.NewCached(src, cfg.Tenant.CacheTTL)
		if err != nil {
			return fmt.Errorf("tenant cache: %w", err)
		}
		defer cached.Close()
		src = cached
	}

	var store prefs.Backend = prefs.NewMemory()
	if cfg.Prefs.Store == "sql" {
		store = prefs.NewSQL(db)
	}

	det := subdomain.New(cfg.HTTP.BaseDomain, cfg.HTTP.LocalhostAlias)
	sessions := tenant.NewCache(tenant.SessionConfig{
		Source:           src,
		Prefs:            store,
		ElevatedRole:     cfg.Auth.ElevatedRole,
		DefaultSubdomain: subdomain.Default,
		Log:              logOut,
	}.Factory(), tenant.CacheOptions{
		IdleTTL:    cfg.Tenant.SessionIdleTTL,
		MaxEntries: cfg.Tenant.SessionMax,
		Log:        logOut,
	})
	defer sessions.Close()

	//
	// ── 4.  Forms and access policy ─────────────────────────────────────
	//
	if err := form.RegisterDefaults(); err != nil {
		return fmt.Errorf("default forms: %w", err)
	}
	dirs := make([]string, len(cfg.Forms.Dirs))
	for i, d := range cfg.Forms.Dirs {
		if !filepath.IsAbs(d) {
			d = filepath.Join(cfg.Paths.Root, d)
		}
		dirs[i] = d
	}
	if err := form.RegisterForms(dirs); err != nil {
		return fmt.Errorf("forms: %w", err)
	}
	policy := acl.Default.Merge(cfg.ACL.Flatten())

	//
	// ── 5.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, middleware.AccessLog, chimw.Recoverer, middleware.Security)
	if cfg.HTTP.ForceHTTPS {
		r.Use(middleware.ForceHTTPS)
	}

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})

	secret := []byte(cfg.Auth.JWTSecret)
	var mountErr error
	r.Group(func(api chi.Router) {
		api.Use(auth.Bearer(secret), session.Resolve(sessions, det))
		mountErr = component.Mount(api, services{policy: policy, backend: backend, log: logOut}, cfg.Components.Disabled...)
	})
	if mountErr != nil {
		return mountErr
	}

	//
	// ── 6.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, otelhttp.NewHandler(r, "flota"), server.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})
	logOut.Infow("components mounted", "components", component.AllNames(), "disabled", cfg.Components.Disabled)
	return server.Run(ctx, srv, logOut)
}

// tenantSource builds the configured tenant listing.
func tenantSource(cfg *config.Config, db *sqlx.DB, backend gateway.Client, log *zap.SugaredLogger) (tenant.Source, error) {
	switch cfg.Tenant.Source {
	case "sql":
		return meta.NewSQL(db, log), nil
	case "remote":
		return meta.NewRemote(backend, cfg.Tenant.RemotePath, log), nil
	default:
		if cfg.Tenant.StaticFile == "" {
			return meta.DefaultStatic(log), nil
		}
		path := cfg.Tenant.StaticFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Paths.Root, path)
		}
		s, err := meta.LoadStatic(path, log)
		if err != nil {
			return nil, fmt.Errorf("tenant static file: %w", err)
		}
		return s, nil
	}
}
