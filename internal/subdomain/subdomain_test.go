package subdomain

import (
	"net/http/httptest"
	"testing"
)

func TestFromHostWithBaseDomain(t *testing.T) {
	d := New("flota.app", "")
	cases := map[string]string{
		"transportesdelsur.flota.app":      "transportesdelsur",
		"TransportesDelSur.Flota.App:8443": "transportesdelsur",
		"a.b.flota.app":                    "a",
		"flota.app":                        Default,
		"www.flota.app":                    Default,
		"acme.example.com":                 Default,
		"bad_label.flota.app":              Default,
		"":                                 Default,
		"localhost:3000":                   Default,
		"127.0.0.1":                        Default,
		"[::1]:8080":                       Default,
	}
	for host, want := range cases {
		if got := d.FromHost(host); got != want {
			t.Errorf("FromHost(%q) = %q, want %q", host, got, want)
		}
	}
}

func TestFromHostWithoutBaseDomain(t *testing.T) {
	d := New("", "")
	cases := map[string]string{
		"logistica.example.com": "logistica",
		"example.com":           Default,
		"api.example.com":       Default,
	}
	for host, want := range cases {
		if got := d.FromHost(host); got != want {
			t.Errorf("FromHost(%q) = %q, want %q", host, got, want)
		}
	}
}

func TestLocalhostAlias(t *testing.T) {
	d := New("flota.app", "Patagonia")
	if got := d.FromHost("localhost:8080"); got != "patagonia" {
		t.Fatalf("alias = %q", got)
	}
	r := httptest.NewRequest("GET", "http://127.0.0.1/", nil)
	if got := d.FromRequest(r); got != "patagonia" {
		t.Fatalf("FromRequest = %q", got)
	}
}
