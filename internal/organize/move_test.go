package organize

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCopyThenRemove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "out", "dst.bin")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "out"), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o600))

	require.NoError(t, copyThenRemove(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.NoFileExists(t, src)

	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestCopyFailureKeepsSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	err := moveFile(src, filepath.Join(dir, "missing", "dst.bin"), zap.NewNop())
	assert.Error(t, err)
	assert.FileExists(t, src)
}

func TestCrossDevice(t *testing.T) {
	assert.True(t, crossDevice(&os.LinkError{Op: "rename", Old: "a", New: "b", Err: syscall.EXDEV}))
	assert.False(t, crossDevice(&os.LinkError{Op: "rename", Old: "a", New: "b", Err: syscall.EACCES}))
	assert.False(t, crossDevice(&os.LinkError{Op: "rename", Old: "a", New: "b", Err: syscall.EPERM}))
	assert.False(t, crossDevice(errors.New("rename failed")))
}

func TestResolveConflict(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "b.txt")

	got, skip, err := resolveConflict(target, Skip)
	require.NoError(t, err)
	assert.False(t, skip)
	assert.Equal(t, target, got)

	require.NoError(t, os.WriteFile(target, nil, 0o644))

	_, skip, err = resolveConflict(target, Skip)
	require.NoError(t, err)
	assert.True(t, skip)

	got, _, err = resolveConflict(target, Rename)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b (1).txt"), got)

	got, skip, err = resolveConflict(target, Overwrite)
	require.NoError(t, err)
	assert.False(t, skip)
	assert.Equal(t, target, got)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.txt"), 0o755))
	_, _, err = resolveConflict(filepath.Join(dir, "d.txt"), Overwrite)
	assert.Error(t, err)
}

func TestFreeNameWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".bashrc"), nil, 0o644))

	got, _, err := freeName(filepath.Join(dir, ".bashrc"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".bashrc (1)"), got)
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": Overwrite, "overwrite": Overwrite, "SKIP": Skip, " rename ": Rename} {
		got, err := ParsePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsePolicy("merge")
	assert.Error(t, err)
	assert.Equal(t, "rename", Rename.String())
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("organized_files"))
	for _, bad := range []string{"", ".", "..", "a/b", `a\b`} {
		assert.Error(t, ValidateName(bad), bad)
	}
}
