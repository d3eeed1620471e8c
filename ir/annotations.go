package ir

import (
	"strings"
)

// Annotations is the parsed attribute bag attached to an Item. Flags are presence-only; Values holds
// arbitrary key/value pairs including use_instead_of's path argument.
// Unknown annotations are preserved but otherwise ignored by the core
//, so Values keeps every key it saw, not just the recognized
// ones.
type Annotations struct {
	Hide         bool
	Opaque       bool
	UseInsteadOf string // empty when unset
	Values       map[string]string
}

// HasUseInsteadOf reports whether a use_instead_of override was parsed.
func (a Annotations) HasUseInsteadOf() bool {
	return a.UseInsteadOf != ""
}

// ParseAnnotations extracts `@key` / `@key(value)` / `@key: value` tags
// from a raw documentation comment. The upstream tool this core is
// modeled on farms this out to a small third-party annotation-comment
// parser; no such library was available to ground this port against, so
// the narrow subset of syntax the core actually needs (bare flags and
// single key/value pairs) is hand-rolled directly against strings and
// strings.Cut rather than a general doc-comment grammar.
func ParseAnnotations(rawComment string) Annotations {
	ann := Annotations{Values: make(map[string]string)}
	for _, line := range strings.Split(rawComment, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "///")
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)

		at := strings.Index(line, "@")
		if at < 0 {
			continue
		}
		line = line[at+1:]

		key, value, hasValue := splitAnnotation(line)
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}

		switch key {
		case "hide":
			ann.Hide = true
		case "opaque":
			ann.Opaque = true
		case "use_instead_of":
			if hasValue {
				ann.UseInsteadOf = value
			}
		}
		if hasValue {
			ann.Values[key] = value
		} else {
			ann.Values[key] = ""
		}
	}
	return ann
}

// splitAnnotation splits "key(value)" or "key: value" or a bare "key"
// into its parts.
func splitAnnotation(s string) (key, value string, hasValue bool) {
	if open := strings.IndexByte(s, '('); open >= 0 {
		close := strings.LastIndexByte(s, ')')
		if close > open {
			return s[:open], s[open+1 : close], true
		}
		return s[:open], "", false
	}
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		return s[:idx], s[idx+1:], true
	}
	// A bare flag may still be followed by trailing words on the same
	// line; only the first whitespace-delimited token is the key.
	if idx := strings.IndexAny(s, " \t"); idx >= 0 {
		return s[:idx], "", false
	}
	return s, "", false
}
