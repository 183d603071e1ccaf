package organize

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/jadenpxrk/tidy/internal/category"
	"go.uber.org/zap"
)

// maxRenameAttempts bounds the search for a free "name (n).ext".
const maxRenameAttempts = 10000

func ensureDir(path string) error {
	info, err := os.Lstat(path)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return fmt.Errorf("conflict: %s exists and is not a directory", path)
	case os.IsNotExist(err):
		if err := os.Mkdir(path, 0o755); err != nil && !os.IsExist(err) {
			return fmt.Errorf("mkdir %s: %w", path, err)
		}
		return nil
	default:
		return fmt.Errorf("stat %s: %w", path, err)
	}
}

// resolveConflict returns the path to write to, or skip=true when the file should
// stay where it is.
func resolveConflict(target string, policy Policy) (string, bool, error) {
	info, err := os.Lstat(target)
	switch {
	case os.IsNotExist(err):
		return target, false, nil
	case err != nil:
		return "", false, fmt.Errorf("stat %s: %w", target, err)
	}

	switch policy {
	case Skip:
		return target, true, nil
	case Rename:
		return freeName(target)
	default:
		if info.IsDir() {
			return "", false, fmt.Errorf("conflict: %s is a directory", target)
		}
		return target, false, nil
	}
}

func freeName(target string) (string, bool, error) {
	dir, name := filepath.Split(target)
	stem, suffix := name, ""
	if ext := category.Extension(name); ext != "" {
		stem = name[:len(name)-len(ext)-1]
		suffix = "." + ext
	}

	for n := 1; n <= maxRenameAttempts; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, suffix))
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate, false, nil
		} else if err != nil {
			return "", false, fmt.Errorf("stat %s: %w", candidate, err)
		}
	}
	return "", false, fmt.Errorf("no free name for %s", target)
}

// moveFile renames src onto dst. Only a cross-device rename falls back to
// copy-then-delete; any other rename error is returned with both files untouched.
// The source is removed only after the copy has been synced and moved into place.
func moveFile(src, dst string, log *zap.Logger) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !crossDevice(err) {
		return fmt.Errorf("move %s: %w", src, err)
	}
	log.Debug("rename crosses filesystems, copying instead", zap.String("src", src), zap.String("dst", dst), zap.Error(err))
	return copyThenRemove(src, dst)
}

func crossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}

func copyThenRemove(src, dst string) error {
	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("copied to %s but could not remove source: %w", dst, err)
	}
	return nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tidy-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", filepath.Dir(dst), err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err = os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, dst); err != nil {
		return fmt.Errorf("rename %s: %w", dst, err)
	}
	return nil
}
