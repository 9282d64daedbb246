// Package locale holds the message catalog used for worker-facing text.
package locale

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// KeyFollowUp is the template announcing a scheduled follow-up visit. It
// takes a single {{date}} parameter.
const KeyFollowUp = "followup.next_visit"

// Catalog maps (key, locale) to a template and renders it with {{name}}
// substitution. Locale strings are matched as BCP 47 tags, so "ta-IN"
// resolves to "ta"; anything unsupported or unparsable silently resolves
// to the fallback locale.
type Catalog struct {
	mu        sync.RWMutex
	fallback  string
	templates map[string]map[string]string
	tags      []language.Tag
	matcher   language.Matcher
}

// DefaultLocale backs every catalog whose requested fallback has no
// built-in templates.
const DefaultLocale = "en"

var builtIn = []struct{ locale, text string }{
	{"en", "Your next doctor visit is on {{date}}"},
	{"ta", "உங்கள் அடுத்த மருத்துவர் சந்திப்பு {{date}}"},
	{"hi", "आपकी अगली डॉक्टर की मुलाकात {{date}} को है"},
}

// NewCatalog returns a catalog with the built-in templates registered.
// The fallback must be a built-in locale; anything else, including "",
// is replaced by DefaultLocale.
func NewCatalog(fallback string) *Catalog {
	fallback = normalize(fallback)
	if !IsBuiltIn(fallback) {
		fallback = DefaultLocale
	}
	c := &Catalog{
		fallback:  fallback,
		templates: make(map[string]map[string]string),
	}
	for _, b := range builtIn {
		c.Register(b.locale, KeyFollowUp, b.text)
	}
	return c
}

// IsBuiltIn reports whether locale ships with templates for every key.
func IsBuiltIn(locale string) bool {
	locale = normalize(locale)
	for _, b := range builtIn {
		if b.locale == locale {
			return true
		}
	}
	return false
}

func normalize(locale string) string {
	return strings.ToLower(strings.TrimSpace(locale))
}

// Register adds or replaces the template for key in locale.
func (c *Catalog) Register(locale, key, text string) {
	locale = normalize(locale)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.templates[locale]; !ok {
		c.templates[locale] = make(map[string]string)
		c.rebuildMatcher()
	}
	c.templates[locale][key] = text
}

// rebuildMatcher must be called with c.mu held. The fallback locale is
// always the matcher's first tag so it wins when nothing else matches.
func (c *Catalog) rebuildMatcher() {
	others := make([]string, 0, len(c.templates))
	for l := range c.templates {
		if l != c.fallback {
			others = append(others, l)
		}
	}
	sort.Strings(others)

	tags := []language.Tag{language.Make(c.fallback)}
	for _, l := range others {
		tags = append(tags, language.Make(l))
	}
	c.tags = tags
	c.matcher = language.NewMatcher(tags)
}

// Fallback is the locale used when no registered locale matches.
func (c *Catalog) Fallback() string {
	return c.fallback
}

// resolve returns the registered locale that serves the requested one. A
// match must share the requested base language; closeness between
// distinct languages (mr and hi, say) does not count.
func (c *Catalog) resolve(requested string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolveLocked(requested)
}

func (c *Catalog) resolveLocked(requested string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" || c.matcher == nil {
		return c.fallback
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return c.fallback
	}
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(c.tags) {
		return c.fallback
	}
	want, _ := tag.Base()
	got, _ := c.tags[idx].Base()
	if want != got {
		return c.fallback
	}
	return c.tags[idx].String()
}

// Localize renders key for locale. A key missing from the resolved locale
// is taken from the fallback locale; a key missing everywhere renders as
// the key itself. Placeholders without a matching param are left as-is.
func (c *Catalog) Localize(key, locale string, params map[string]string) string {
	c.mu.RLock()
	resolved := c.resolveLocked(locale)
	text, ok := c.templates[resolved][key]
	if !ok {
		text, ok = c.templates[c.fallback][key]
	}
	c.mu.RUnlock()

	if !ok {
		return key
	}
	for k, v := range params {
		text = strings.ReplaceAll(text, "{{"+k+"}}", v)
	}
	return text
}
