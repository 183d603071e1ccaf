package tree

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jadenpxrk/tidy/internal/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTree builds:
//
//	root/a.txt
//	root/b/c.go
//	root/b/d/e.md
//	root/z.txt
func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b", "d"), 0o755))
	for _, p := range []string{"a.txt", "b/c.go", "b/d/e.md", "z.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, filepath.FromSlash(p)), []byte(p), 0o644))
	}
	return root
}

func TestPrint(t *testing.T) {
	root := makeTree(t)

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, root, Options{}))

	want := strings.Join([]string{
		" |____ " + filepath.Base(root),
		"\t |---> a.txt",
		"\t |____ b",
		"\t\t |---> c.go",
		"\t\t |____ d",
		"\t\t\t |---> e.md",
		"\t |---> z.txt",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestIndentMatchesDepth(t *testing.T) {
	root := makeTree(t)

	entries, err := Walk(root, Options{})
	require.NoError(t, err)
	require.Len(t, entries, 7)

	seen := make(map[string]bool)
	for _, e := range entries {
		assert.False(t, seen[e.Path], "visited twice: %s", e.Path)
		seen[e.Path] = true

		rel, err := filepath.Rel(root, e.Path)
		require.NoError(t, err)
		depth := 0
		if rel != "." {
			depth = len(strings.Split(filepath.ToSlash(rel), "/"))
		}
		assert.Equal(t, depth, e.Depth, e.Path)
		assert.Equal(t, depth, strings.Count(Line(e), "\t"), e.Path)
	}
}

func TestInvalidPathWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	err := Print(&buf, filepath.Join(t.TempDir(), "nonexistent", "path"), Options{})
	require.ErrorIs(t, err, ErrInvalidPath)
	assert.Empty(t, buf.String())
}

func TestFileRoot(t *testing.T) {
	root := makeTree(t)

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, filepath.Join(root, "a.txt"), Options{}))
	assert.Equal(t, " |---> a.txt\n", buf.String())
}

func TestEmptyDirectory(t *testing.T) {
	root := t.TempDir()

	entries, err := Walk(root, Options{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir)
}

func TestMaxDepth(t *testing.T) {
	root := makeTree(t)

	entries, err := Walk(root, Options{MaxDepth: 1})
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{filepath.Base(root), "a.txt", "b", "z.txt"}, names)
}

func TestFilter(t *testing.T) {
	root := makeTree(t)
	f, err := filter.New(root, filter.Options{Hidden: true, Exclude: []string{"d", "*.txt"}}, nil)
	require.NoError(t, err)

	entries, err := Walk(root, Options{Filter: f})
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{filepath.Base(root), "b", "c.go"}, names)
}

func symlinkOrSkip(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
}

func TestSymlinkNotFollowedByDefault(t *testing.T) {
	root := makeTree(t)
	symlinkOrSkip(t, filepath.Join(root, "b"), filepath.Join(root, "link"))

	entries, err := Walk(root, Options{})
	require.NoError(t, err)

	var link Entry
	for _, e := range entries {
		if e.Name == "link" {
			link = e
		}
	}
	assert.True(t, link.Link)
	assert.False(t, link.IsDir)
	assert.Equal(t, "\t |---> link", Line(link))
	assert.Len(t, entries, 8)
}

func TestSymlinkFollowed(t *testing.T) {
	root := makeTree(t)
	symlinkOrSkip(t, filepath.Join(root, "b", "d"), filepath.Join(root, "link"))

	entries, err := Walk(root, Options{FollowSymlinks: true})
	require.NoError(t, err)

	out := String(entries)
	// b/d is not an ancestor of link, so both paths are printed in full.
	assert.Contains(t, out, "\t |____ link\n\t\t |---> e.md\n")
	assert.Contains(t, out, "\t\t |____ d\n\t\t\t |---> e.md\n")
	assert.Equal(t, 2, strings.Count(out, "e.md"))
	for _, e := range entries {
		assert.False(t, e.Revisit, e.Path)
	}
}

func TestSymlinkRoot(t *testing.T) {
	root := makeTree(t)
	link := filepath.Join(t.TempDir(), "link")
	symlinkOrSkip(t, root, link)
	symlinkOrSkip(t, filepath.Join(root, "b"), filepath.Join(root, "inner"))

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, link, Options{}))

	want := strings.Join([]string{
		" |____ link",
		"\t |---> a.txt",
		"\t |____ b",
		"\t\t |---> c.go",
		"\t\t |____ d",
		"\t\t\t |---> e.md",
		"\t |---> inner",
		"\t |---> z.txt",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestDanglingSymlinkRoot(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "dangling")
	symlinkOrSkip(t, filepath.Join(dir, "missing"), link)

	var buf bytes.Buffer
	err := Print(&buf, link, Options{})
	require.ErrorIs(t, err, ErrInvalidPath)
	assert.Empty(t, buf.String())
}

func TestSymlinkCycleTerminates(t *testing.T) {
	root := makeTree(t)
	symlinkOrSkip(t, root, filepath.Join(root, "b", "loop"))

	entries, err := Walk(root, Options{FollowSymlinks: true})
	require.NoError(t, err)

	var loop *Entry
	for i := range entries {
		if entries[i].Name == "loop" {
			loop = &entries[i]
		}
	}
	require.NotNil(t, loop)
	assert.True(t, loop.IsDir)
	assert.True(t, loop.Revisit)
	assert.Len(t, entries, 8)
}
