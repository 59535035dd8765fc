// internal/config/model.go
//
// Typed configuration model for Flota.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                         – dotenv values,
//   • `conf/global.yaml`                      – primary static file,
//   • `FLOTA_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • Durations accept Go syntax ("5s", "30m").
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr     string        `koanf:"listen_addr"     validate:"required,hostname_port"`
	ForceHTTPS     bool          `koanf:"force_https"`
	BaseDomain     string        `koanf:"base_domain"     validate:"omitempty,fqdn"`
	LocalhostAlias string        `koanf:"localhost_alias" validate:"omitempty,alphanum"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	IdleTimeout    time.Duration `koanf:"idle_timeout"`
}

//
// Auth section
//

// Auth configures bearer-token verification.  JWTSecret is normally a
// `vault:` reference.
type Auth struct {
	JWTSecret    string `koanf:"jwt_secret"    validate:"required,min=32"`
	ElevatedRole string `koanf:"elevated_role" validate:"required"`
}

//
// Tenant section
//

// Tenant selects the tenant source and sizes the session cache.
type Tenant struct {
	Source         string        `koanf:"source"           validate:"required,oneof=static sql remote"`
	StaticFile     string        `koanf:"static_file"`
	RemotePath     string        `koanf:"remote_path"`
	CacheTTL       time.Duration `koanf:"cache_ttl"        validate:"gte=0"`
	SessionIdleTTL time.Duration `koanf:"session_idle_ttl" validate:"gte=0"`
	SessionMax     int           `koanf:"session_max"      validate:"gte=0"`
}

// Prefs selects the preference backend.
type Prefs struct {
	Store string `koanf:"store" validate:"required,oneof=memory sql"`
}

//
// Database section
//

// Database is required when either the tenant source or the preference
// store is "sql".
type Database struct {
	Driver  string `koanf:"driver"   validate:"omitempty,oneof=mysql pgx"`
	DSN     string `koanf:"dsn"`
	MaxOpen int    `koanf:"max_open" validate:"gte=0"`
	MaxIdle int    `koanf:"max_idle" validate:"gte=0"`
}

//
// Backend section
//

// Backend points at the REST API behind the gateway.
type Backend struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout"  validate:"gte=0"`
}

// Forms lists override directories for form definitions.
type Forms struct {
	Dirs []string `koanf:"dirs"`
}

// ACL overrides entries of the default role policy, keyed by component
// then action:
//
//	acl:
//	  rules:
//	    backend:
//	      write: [superadmin, admin]
type ACL struct {
	Rules map[string]map[string][]string `koanf:"rules"`
}

// Flatten returns the rules keyed "component.action".
func (a ACL) Flatten() map[string][]string {
	out := make(map[string][]string)
	for comp, actions := range a.Rules {
		for action, roles := range actions {
			out[comp+"."+action] = roles
		}
	}
	return out
}

// Components lists component names that must not be mounted.
type Components struct {
	Disabled []string `koanf:"disabled"`
}

// Log tunes the file logger.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.  The loader
// discovers `Root` (repo root or FLOTA_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // FLOTA_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP       HTTP       `koanf:"http"`
	Auth       Auth       `koanf:"auth"`
	Tenant     Tenant     `koanf:"tenant"`
	Prefs      Prefs      `koanf:"prefs"`
	Database   Database   `koanf:"database"`
	Backend    Backend    `koanf:"backend"`
	Forms      Forms      `koanf:"forms"`
	ACL        ACL        `koanf:"acl"`
	Components Components `koanf:"components"`
	Log        Log        `koanf:"log"`
	Paths      Paths      `koanf:"-"` // not loaded from config files
}

// NeedsDatabase reports whether any configured component reads SQL.
func (c *Config) NeedsDatabase() bool {
	return c.Tenant.Source == "sql" || c.Prefs.Store == "sql"
}

// applyDefaults fills zero values the YAML may omit.
func applyDefaults(c *Config) {
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 5 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.Auth.ElevatedRole == "" {
		c.Auth.ElevatedRole = "superadmin"
	}
	if c.Tenant.Source == "" {
		c.Tenant.Source = "static"
	}
	if c.Prefs.Store == "" {
		c.Prefs.Store = "memory"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
