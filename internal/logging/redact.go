package logging

import (
	"log/slog"
	"regexp"
)

// Masked replaces redacted values.
const Masked = "***"

// DefaultRedactPatterns match attribute keys whose values must never reach a log.
var DefaultRedactPatterns = []string{`(?i)secret`, `(?i)seed`, `(?i)password`, `(?i)^tx_blob$`}

var defaultRedactor = NewRedactor(DefaultRedactPatterns)

// Redactor masks attribute values by key.
type Redactor struct {
	patterns []*regexp.Regexp
}

// NewRedactor compiles patterns. It panics on an invalid pattern.
func NewRedactor(patternStrings []string) *Redactor {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return &Redactor{patterns: patterns}
}

func (r *Redactor) matches(key string) bool {
	for _, p := range r.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

// Attr masks a when its key matches, recursing into groups.
func (r *Redactor) Attr(a slog.Attr) slog.Attr {
	if r.matches(a.Key) {
		return slog.String(a.Key, Masked)
	}
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		masked := make([]any, len(attrs))
		for i, sub := range attrs {
			masked[i] = r.Attr(sub)
		}
		return slog.Group(a.Key, masked...)
	}
	if m, ok := a.Value.Any().(map[string]any); ok {
		return slog.Any(a.Key, r.Map(m))
	}
	return a
}

// Map returns a copy of m with matching keys masked at any depth.
func (r *Redactor) Map(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch {
		case r.matches(k):
			out[k] = Masked
		default:
			if sub, ok := v.(map[string]any); ok {
				out[k] = r.Map(sub)
			} else {
				out[k] = v
			}
		}
	}
	return out
}
