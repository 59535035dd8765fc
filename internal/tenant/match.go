package tenant

import "strings"

// normalize lowercases s and keeps only [a-z0-9].
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func filterActive(all []Tenant) []Tenant {
	out := make([]Tenant, 0, len(all))
	for _, t := range all {
		if t.Activo {
			out = append(out, t)
		}
	}
	return out
}

// bySubdomain returns the first tenant whose normalised name contains the
// normalised token.
func bySubdomain(ts []Tenant, token string) (Tenant, bool) {
	needle := normalize(token)
	if needle == "" {
		return Tenant{}, false
	}
	for _, t := range ts {
		if strings.Contains(normalize(t.Nombre), needle) {
			return t, true
		}
	}
	return Tenant{}, false
}

func byID(ts []Tenant, id int) (Tenant, bool) {
	for _, t := range ts {
		if t.ID == id {
			return t, true
		}
	}
	return Tenant{}, false
}
