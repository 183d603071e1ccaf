// Package filter decides which directory entries a walk should skip.
package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// Options selects the active rules.
type Options struct {
	Exclude   []string // doublestar globs, matched against the relative path and the base name
	GitIgnore bool     // honour <root>/.gitignore
	Hidden    bool     // keep dot-entries
}

// Filter is bound to one root directory. A nil *Filter skips nothing.
type Filter struct {
	root    string
	exclude []string
	hidden  bool
	ignore  gitignore.IgnoreMatcher
}

// New validates the patterns and loads the root .gitignore when requested.
// A missing .gitignore is not an error.
func New(root string, opts Options, log *zap.Logger) (*Filter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	root = filepath.Clean(root)

	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern '%s'", p)
		}
	}

	f := &Filter{root: root, exclude: opts.Exclude, hidden: opts.Hidden}

	if opts.GitIgnore {
		gitIgnorePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			matcher, err := gitignore.NewGitIgnore(gitIgnorePath)
			if err != nil {
				log.Warn("could not parse .gitignore", zap.String("path", gitIgnorePath), zap.Error(err))
			} else {
				f.ignore = matcher
				log.Debug("loaded .gitignore", zap.String("path", gitIgnorePath))
			}
		}
	}
	return f, nil
}

// Skip reports whether path (rooted at the filter root) should be left out.
// The root itself is never skipped.
func (f *Filter) Skip(path string, isDir bool) bool {
	if f == nil {
		return false
	}
	path = filepath.Clean(path)
	if path == f.root {
		return false
	}

	name := filepath.Base(path)
	if !f.hidden && IsHidden(name) {
		return true
	}

	rel, err := filepath.Rel(f.root, path)
	if err != nil {
		rel = name
	}
	rel = filepath.ToSlash(rel)

	if f.ignore != nil && f.ignore.Match(path, isDir) {
		return true
	}

	for _, pattern := range f.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// ParsePatterns splits comma-separated patterns, dropping blanks.
func ParsePatterns(patterns ...string) []string {
	var out []string
	for _, s := range patterns {
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// IsHidden checks if a base name is hidden (starts with '.').
func IsHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}
