package filesystem

import (
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/spf13/afero"
)

// NewOS returns the real filesystem.
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// NewMemory returns an in-memory filesystem, used by tests.
func NewMemory() afero.Fs {
	return afero.NewMemMapFs()
}

// Exists reports whether path exists.
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path exists and is not a directory.
func IsFile(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && !info.IsDir()
}

// CopyFile copies src to dst, creating dst's parent directories.
func CopyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", src)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", src)
	}

	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(dst))
	}

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "failed to create %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to copy %s to %s", src, dst)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to close %s", dst)
	}
	return nil
}

// MoveFile renames src to dst, falling back to copy and remove when the
// rename fails (for example across devices). dst's parent is created.
func MoveFile(fs afero.Fs, src, dst string) error {
	if src == dst {
		return nil
	}
	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(dst))
	}
	if err := fs.Rename(src, dst); err == nil {
		return nil
	}

	if err := CopyFile(fs, src, dst); err != nil {
		return err
	}
	if err := fs.Remove(src); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to remove %s after copy", src)
	}
	return nil
}

// AtomicWrite writes data to path using a tmp+rename strategy.
// If rename fails, the tmp file is cleaned up.
func AtomicWrite(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(path))
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", tmp)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to replace %s", path)
	}
	return nil
}
