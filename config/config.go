// Package config holds the options recognized by the core plus
// the ambient machinery to load them, grounded on pablor21-goscanner's
// scanner/config.go: a bit-flag-free struct, a //go:embed default, and a
// hand-rolled comment-stripping JSON loader that strips `//` line
// comments out of the embedded config before calling encoding/json,
// since plain JSON has no comment syntax.
package config

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pablor21/cirbind/logger"
)

//go:embed config.json
var defaultConfigFS embed.FS

// OutOfScopeHandling names a policy for cursor kinds the core doesn't
// recognize. The parser does not read it: such cursors are always
// logged and recorded as warnings.
type OutOfScopeHandling string

const (
	OutOfScopeIgnore OutOfScopeHandling = "ignore"
	OutOfScopeWarn   OutOfScopeHandling = "warn"
	OutOfScopeError  OutOfScopeHandling = "error"
)

// Options holds the configuration switches the core recognizes.
type Options struct {
	// EnableCXXNamespaces emits namespaces and treats modules as
	// path-contributing.
	EnableCXXNamespaces bool `json:"enable_cxx_namespaces"`

	// DisableNameNamespacing drops namespace prefixing from canonical
	// names when namespaces are disabled.
	DisableNameNamespacing bool `json:"disable_name_namespacing"`

	// ConservativeInlineNamespaces preserves inline namespaces in paths
	// instead of collapsing them. Affects CanonicalPath only, never
	// CanonicalName.
	ConservativeInlineNamespaces bool `json:"conservative_inline_namespaces"`

	// DeriveDebug / DeriveDefault are master switches for the
	// corresponding derive queries.
	DeriveDebug   bool `json:"derive_debug"`
	DeriveDefault bool `json:"derive_default"`

	// HiddenByName / OpaqueByName are pattern sets matched against
	// canonical paths. Each entry is either a glob (path/filepath.Match
	// syntax) or, prefixed with "regex:", a regular expression.
	HiddenByName []string `json:"hidden_by_name"`
	OpaqueByName []string `json:"opaque_by_name"`

	// MangleReservedWords toggles rust_mangle-style keyword escaping.
	MangleReservedWords bool `json:"mangle_reserved_words"`

	// LogLevel is ambient, not part of the core contract, but every real
	// invocation needs one.
	LogLevel logger.Level `json:"log_level"`

	// UnhandledCursorHandling is loaded from JSON but not consulted by the
	// parser, which always reports unrecognized cursor kinds as warnings.
	UnhandledCursorHandling OutOfScopeHandling `json:"unhandled_cursor_handling"`
}

// Default returns the baseline Options, loaded from the embedded
// config.json, exactly as scanner.NewDefaultConfig reads its embedded file.
func Default() *Options {
	data, err := defaultConfigFS.ReadFile("config.json")
	if err != nil {
		panic("cirbind/config: failed to read embedded default config: " + err.Error())
	}
	opts := &Options{}
	if err := opts.fromJSON(data); err != nil {
		panic("cirbind/config: failed to parse embedded default config: " + err.Error())
	}
	return opts
}

// LoadBytes parses Options from JSON bytes, tolerating `//` line comments
// before delegating to encoding/json.
func LoadBytes(data []byte) (*Options, error) {
	opts := Default()
	if err := opts.fromJSON(data); err != nil {
		return nil, err
	}
	return opts, nil
}

// Load reads and parses Options from a JSON file on disk, for the
// `cmd/cirbind` front end's `-config` flag.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cirbind/config: reading %s: %w", path, err)
	}
	return LoadBytes(data)
}

func (o *Options) fromJSON(data []byte) error {
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "//"); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	return json.Unmarshal([]byte(strings.Join(lines, "\n")), o)
}

// NamePattern is a single compiled hidden_by_name/opaque_by_name entry.
type NamePattern struct {
	raw string
	re  *regexp.Regexp // non-nil for "regex:" patterns
}

// CompilePattern compiles one entry from HiddenByName/OpaqueByName.
func CompilePattern(pattern string) (NamePattern, error) {
	if rest, ok := strings.CutPrefix(pattern, "regex:"); ok {
		re, err := regexp.Compile(rest)
		if err != nil {
			return NamePattern{}, fmt.Errorf("cirbind/config: invalid regex pattern %q: %w", pattern, err)
		}
		return NamePattern{raw: pattern, re: re}, nil
	}
	// Validate the glob eagerly so bad patterns fail at load time, not at
	// first use deep inside a naming query.
	if _, err := filepath.Match(pattern, ""); err != nil {
		return NamePattern{}, fmt.Errorf("cirbind/config: invalid glob pattern %q: %w", pattern, err)
	}
	return NamePattern{raw: pattern}, nil
}

// Match reports whether path satisfies this pattern.
func (p NamePattern) Match(path string) bool {
	if p.re != nil {
		return p.re.MatchString(path)
	}
	ok, _ := filepath.Match(p.raw, path)
	return ok
}

// CompileAll compiles every pattern in patterns, stopping at the first
// invalid one.
func CompileAll(patterns []string) ([]NamePattern, error) {
	compiled := make([]NamePattern, 0, len(patterns))
	for _, p := range patterns {
		cp, err := CompilePattern(p)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, cp)
	}
	return compiled, nil
}

// MatchAny reports whether path matches any of patterns.
func MatchAny(patterns []NamePattern, path string) bool {
	for _, p := range patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}

// ExpandHeaderGlobs expands `**`/`*` header path patterns into concrete
// file paths, the job pablor21-goscanner/glob.go's PackageGlob.ExpandGlob
// does for Go import paths — here repurposed for filesystem header paths
// (there is no package-path notion in a single-header C/C++ tool) and
// implemented on path/filepath alone, since no third-party glob library
// appears anywhere in the retrieval pack either.
func ExpandHeaderGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range patterns {
		matches, err := expandOneGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("cirbind/config: expanding %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out, nil
}

func expandOneGlob(pattern string) ([]string, error) {
	if !strings.Contains(pattern, "**") {
		return filepath.Glob(pattern)
	}
	// "a/**/*.h" -> walk from "a" matching "*.h" against the remainder at
	// every depth ("**/" means recursive).
	idx := strings.Index(pattern, "**")
	base := strings.TrimSuffix(pattern[:idx], "/")
	rest := strings.TrimPrefix(pattern[idx+2:], "/")
	if base == "" {
		base = "."
	}
	var matches []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		candidate := rest
		if candidate == "" {
			candidate = "*"
		}
		ok, _ := filepath.Match(filepath.Join(base, candidate), path)
		if !ok {
			ok, _ = filepath.Match(candidate, filepath.Base(path))
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	return matches, err
}
