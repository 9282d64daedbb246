package locale

import (
	"strings"
	"testing"
)

func TestCatalog_BuiltInLocales(t *testing.T) {
	c := NewCatalog("en")
	params := map[string]string{"date": "2027-05-20"}

	tests := []struct {
		locale string
		want   string
	}{
		{"en", "Your next doctor visit is on 2027-05-20"},
		{"ta", "உங்கள் அடுத்த மருத்துவர் சந்திப்பு 2027-05-20"},
		{"hi", "आपकी अगली डॉक्टर की मुलाकात 2027-05-20 को है"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			if got := c.Localize(KeyFollowUp, tt.locale, params); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCatalog_ResolveLocale(t *testing.T) {
	c := NewCatalog("en")

	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"ta", "ta"},
		{"ta-IN", "ta"},
		{"hi-IN", "hi"},
		{"EN-gb", "en"},
		{"fr", "en"},
		{"mr", "en"},
		{"mr-IN", "en"},
		{"gu", "en"},
		{"ur", "en"},
		{"bn", "en"},
		{"", "en"},
		{"   ", "en"},
		{"not a locale!", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := c.resolve(tt.in); got != tt.want {
				t.Errorf("resolve(%q): expected %s, got %s", tt.in, tt.want, got)
			}
		})
	}
}

func TestCatalog_UnsupportedFallsBackSilently(t *testing.T) {
	c := NewCatalog("en")

	got := c.Localize(KeyFollowUp, "de", map[string]string{"date": "2027-01-01"})
	if got != "Your next doctor visit is on 2027-01-01" {
		t.Errorf("expected english fallback, got %q", got)
	}
}

func TestCatalog_CustomFallback(t *testing.T) {
	c := NewCatalog("hi")

	if c.Fallback() != "hi" {
		t.Errorf("expected hi fallback, got %s", c.Fallback())
	}
	if got := c.resolve("fr"); got != "hi" {
		t.Errorf("expected hi for unsupported locale, got %s", got)
	}
	if got := c.resolve("mr"); got != "hi" {
		t.Errorf("expected configured fallback for mr, got %s", got)
	}
}

func TestCatalog_MarathiGetsDefaultNotHindi(t *testing.T) {
	c := NewCatalog("en")
	params := map[string]string{"date": "2027-05-20"}

	for _, l := range []string{"mr", "gu"} {
		if got := c.Localize(KeyFollowUp, l, params); got != "Your next doctor visit is on 2027-05-20" {
			t.Errorf("%s: expected english default, got %q", l, got)
		}
	}
}

func TestNewCatalog_FallbackWithoutTemplates(t *testing.T) {
	tests := []string{"fr", "", "xx-YY", "bn"}
	for _, fallback := range tests {
		t.Run(fallback, func(t *testing.T) {
			c := NewCatalog(fallback)
			if c.Fallback() != DefaultLocale {
				t.Errorf("expected %s fallback, got %s", DefaultLocale, c.Fallback())
			}
			got := c.Localize(KeyFollowUp, "de", map[string]string{"date": "2027-05-20"})
			if !strings.Contains(got, "2027-05-20") {
				t.Errorf("expected the date in the message, got %q", got)
			}
		})
	}
}

func TestIsBuiltIn(t *testing.T) {
	for _, l := range []string{"en", "ta", "hi", " TA "} {
		if !IsBuiltIn(l) {
			t.Errorf("expected %q to be built in", l)
		}
	}
	for _, l := range []string{"fr", "", "ta-IN"} {
		if IsBuiltIn(l) {
			t.Errorf("expected %q not to be built in", l)
		}
	}
}

func TestCatalog_MissingKey(t *testing.T) {
	c := NewCatalog("en")
	c.Register("ta", "greeting", "வணக்கம் {{name}}")
	c.Register("en", "farewell", "Goodbye {{name}}")

	if got := c.Localize("greeting", "ta", map[string]string{"name": "Ravi"}); got != "வணக்கம் Ravi" {
		t.Errorf("unexpected greeting %q", got)
	}
	if got := c.Localize("farewell", "ta", map[string]string{"name": "Ravi"}); got != "Goodbye Ravi" {
		t.Errorf("expected fallback-locale template, got %q", got)
	}
	if got := c.Localize("unknown.key", "ta", nil); got != "unknown.key" {
		t.Errorf("expected key echoed back, got %q", got)
	}
}

func TestCatalog_RegisterNewLocale(t *testing.T) {
	c := NewCatalog("en")
	c.Register("bn", KeyFollowUp, "আপনার পরবর্তী ডাক্তার দেখানো {{date}}")

	if got := c.resolve("bn-IN"); got != "bn" {
		t.Errorf("expected bn, got %s", got)
	}
	got := c.Localize(KeyFollowUp, "bn", map[string]string{"date": "2027-03-03"})
	if !strings.Contains(got, "2027-03-03") {
		t.Errorf("expected date in message, got %q", got)
	}
}

func TestCatalog_UnmatchedPlaceholderKept(t *testing.T) {
	c := NewCatalog("en")

	got := c.Localize(KeyFollowUp, "en", nil)
	if !strings.Contains(got, "{{date}}") {
		t.Errorf("expected placeholder to remain, got %q", got)
	}
}
