// Package tree prints a directory hierarchy as indented lines.
//
// Each directory is printed as "<tabs> |____ <name>" followed by its children one
// tab deeper; every other entry is printed as "<tabs> |---> <name>". Children are
// visited in name order. The walk uses an explicit stack, so depth is bounded only
// by memory. When links are followed, a directory that resolves to one of its own
// ancestors is printed but not entered; the same directory reached through two
// unrelated paths is printed in full both times.
package tree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jadenpxrk/tidy/internal/filter"
	"go.uber.org/zap"
)

// ErrInvalidPath is returned when the root does not exist.
var ErrInvalidPath = errors.New("invalid path")

const (
	dirMarker  = " |____ "
	fileMarker = " |---> "
	indentUnit = "\t"
)

// Entry is one printed line of the tree.
type Entry struct {
	Name    string
	Path    string
	Depth   int
	IsDir   bool
	Link    bool // the entry is a symbolic link
	Revisit bool // directory is one of its own ancestors; printed but not descended
}

// Options tunes the walk. The zero value prints everything and does not follow links.
type Options struct {
	MaxDepth       int // 0 for no limit
	FollowSymlinks bool
	Filter         *filter.Filter
	Logger         *zap.Logger
}

type stackItem struct {
	path      string
	depth     int
	ancestors []string // resolved paths of the enclosing directories, tracked only when following links
}

// Walk collects the entries under root in pre-order. The root itself is always
// resolved through symbolic links; entries below it follow links only with
// FollowSymlinks.
func Walk(root string, opts Options) ([]Entry, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPath, root, err)
	}

	var entries []Entry
	stack := []stackItem{{path: root, depth: 0}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		info, err := os.Lstat(item.path)
		if err != nil {
			log.Warn("could not stat entry", zap.String("path", item.path), zap.Error(err))
			continue
		}

		entry := Entry{
			Name:  filepath.Base(filepath.Clean(item.path)),
			Path:  item.path,
			Depth: item.depth,
			IsDir: info.IsDir(),
			Link:  info.Mode()&os.ModeSymlink != 0,
		}

		if entry.Link && (opts.FollowSymlinks || item.depth == 0) {
			if target, err := os.Stat(item.path); err == nil && target.IsDir() {
				entry.IsDir = true
			}
		}

		var resolved string
		if entry.IsDir && opts.FollowSymlinks {
			if resolved, err = realPath(item.path); err == nil && slices.Contains(item.ancestors, resolved) {
				entry.Revisit = true
			}
		}

		entries = append(entries, entry)

		if !entry.IsDir || entry.Revisit {
			continue
		}
		if opts.MaxDepth > 0 && item.depth >= opts.MaxDepth {
			continue
		}

		var ancestors []string
		if opts.FollowSymlinks && resolved != "" {
			ancestors = append(slices.Clone(item.ancestors), resolved)
		}

		children, err := os.ReadDir(item.path)
		if err != nil {
			log.Warn("could not read directory", zap.String("path", item.path), zap.Error(err))
			continue
		}

		// Push in reverse so the first name is popped first.
		for i := len(children) - 1; i >= 0; i-- {
			childPath := filepath.Join(item.path, children[i].Name())
			if opts.Filter.Skip(childPath, children[i].IsDir()) {
				log.Debug("skipping filtered entry", zap.String("path", childPath))
				continue
			}
			stack = append(stack, stackItem{path: childPath, depth: item.depth + 1, ancestors: ancestors})
		}
	}

	return entries, nil
}

// Line formats a single entry.
func Line(e Entry) string {
	marker := fileMarker
	if e.IsDir {
		marker = dirMarker
	}
	return strings.Repeat(indentUnit, e.Depth) + marker + e.Name
}

// Render writes one line per entry.
func Render(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(Line(e) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// String renders entries into a single string.
func String(entries []Entry) string {
	var builder strings.Builder
	_ = Render(&builder, entries)
	return builder.String()
}

// Print walks root and writes the tree to w. Nothing is written when the walk fails.
func Print(w io.Writer, root string, opts Options) error {
	entries, err := Walk(root, opts)
	if err != nil {
		return err
	}
	return Render(w, entries)
}

func realPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}
