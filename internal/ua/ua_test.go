package ua

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name, raw string
		browser   string
		os        string
		device    string
		bot       bool
	}{
		{
			name:    "chrome android",
			raw:     "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.6422.113 Mobile Safari/537.36",
			browser: "Chrome", os: "Android", device: Mobile,
		},
		{
			name:    "safari mac",
			raw:     "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
			browser: "Safari", os: "MacOSX", device: Desktop,
		},
		{
			name: "googlebot",
			raw:  "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			bot:  true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.raw)
			if got.IsBot != tc.bot {
				t.Fatalf("IsBot = %v, want %v", got.IsBot, tc.bot)
			}
			if tc.bot {
				return
			}
			if got.Browser != tc.browser || got.OS != tc.os || got.Device != tc.device {
				t.Fatalf("got %+v", got)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	got := Parse("")
	if got.String() != "unknown" || got.Device != Other {
		t.Fatalf("got %+v", got)
	}
}
