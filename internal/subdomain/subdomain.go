// internal/subdomain/subdomain.go
//
// Subdomain detection.
//
// Context
// -------
// Each customer reaches the dashboard on its own host, for example
// `transportesdelsur.flota.app`.  The Detector turns the request Host into a
// short token that the tenant resolver matches against company names.  When
// no customer label is present the reserved token Default is returned.
//
// Rules, in order:
//
//  1. Lowercase and strip the :port suffix.
//  2. `localhost` and IP literals map to LocalhostAlias (or Default).
//  3. With BaseDomain set, the label left of `.BaseDomain` is used; the
//     leftmost label wins for deeper hosts.  Hosts outside BaseDomain yield
//     Default.
//  4. Without BaseDomain, hosts with three or more labels use the leftmost.
//  5. Reserved labels (www, app, api, …) and labels with characters outside
//     [a-z0-9-] yield Default.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package subdomain

import (
	"net"
	"net/http"
	"strings"
)

// Default is the reserved "no tenant subdomain" token.
const Default = "default"

// Reserved labels never name a tenant.
var Reserved = []string{"www", "app", "api", "admin", "dashboard", Default}

// Detector extracts tenant tokens from hosts.
type Detector struct {
	BaseDomain     string
	LocalhostAlias string
	reserved       map[string]struct{}
}

// New returns a Detector for baseDomain.  alias is used for local hosts.
func New(baseDomain, alias string) *Detector {
	d := &Detector{
		BaseDomain:     strings.Trim(strings.ToLower(baseDomain), "."),
		LocalhostAlias: strings.ToLower(alias),
		reserved:       make(map[string]struct{}, len(Reserved)),
	}
	for _, r := range Reserved {
		d.reserved[r] = struct{}{}
	}
	return d
}

// FromRequest applies FromHost to r.Host.
func (d *Detector) FromRequest(r *http.Request) string {
	return d.FromHost(r.Host)
}

// FromHost returns the tenant token for host, or Default.
func (d *Detector) FromHost(host string) string {
	h := strings.ToLower(strings.TrimSpace(stripPort(host)))
	h = strings.TrimSuffix(h, ".")

	if h == "" {
		return Default
	}
	if h == "localhost" || net.ParseIP(h) != nil {
		if d.LocalhostAlias != "" {
			return d.label(d.LocalhostAlias)
		}
		return Default
	}

	var prefix string
	switch {
	case d.BaseDomain != "":
		if h == d.BaseDomain {
			return Default
		}
		p, ok := strings.CutSuffix(h, "."+d.BaseDomain)
		if !ok {
			return Default
		}
		prefix = p
	default:
		parts := strings.Split(h, ".")
		if len(parts) < 3 {
			return Default
		}
		prefix = parts[0]
	}

	first, _, _ := strings.Cut(prefix, ".")
	return d.label(first)
}

func (d *Detector) label(s string) string {
	if _, ok := d.reserved[s]; ok || !validLabel(s) {
		return Default
	}
	return s
}

func validLabel(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-') {
			return false
		}
	}
	return true
}

// stripPort removes :port, keeping bracketed IPv6 literals intact.
func stripPort(h string) string {
	if host, _, err := net.SplitHostPort(h); err == nil {
		return host
	}
	return strings.TrimSuffix(strings.TrimPrefix(h, "["), "]")
}
