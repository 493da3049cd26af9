package logging

import (
	"log/slog"
	"regexp"
)

// Mask replaces redacted values.
const Mask = "***"

// DefaultRedactPatterns match attribute keys whose values never reach the log.
var DefaultRedactPatterns = []string{`(?i)token`, `(?i)authorization`, `(?i)password`, `(?i)secret`, `(?i)api_?key`}

// Redactor returns a slog ReplaceAttr func masking attributes whose key matches
// any pattern. Group attributes are walked recursively.
func Redactor(patterns ...string) func(groups []string, a slog.Attr) slog.Attr {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	var mask func(a slog.Attr) slog.Attr
	mask = func(a slog.Attr) slog.Attr {
		for _, p := range compiled {
			if p.MatchString(a.Key) {
				return slog.String(a.Key, Mask)
			}
		}
		if a.Value.Kind() == slog.KindGroup {
			attrs := a.Value.Group()
			out := make([]any, len(attrs))
			for i, sub := range attrs {
				out[i] = mask(sub)
			}
			return slog.Group(a.Key, out...)
		}
		return a
	}
	return func(_ []string, a slog.Attr) slog.Attr {
		return mask(a)
	}
}
