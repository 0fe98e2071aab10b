package filesystem

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/logging"
	"github.com/spf13/afero"
)

// MergeStats summarizes a Merge run.
type MergeStats struct {
	Copied  int
	Skipped int
	Failed  int
}

// Merge copies the tree under src into dst file by file. With overwrite
// false, files already present in dst are kept. A file that cannot be
// copied is logged and counted, never returned: only an unreadable src or
// an uncreatable dst root is an error.
func Merge(fs afero.Fs, src, dst string, overwrite bool) (MergeStats, error) {
	logger := logging.GetLogger("filesystem.merge")
	var stats MergeStats

	if !IsDir(fs, src) {
		return stats, errors.Newf(errors.ErrFileAccess, "merge source %s is not a directory", src)
	}
	if err := fs.MkdirAll(dst, 0755); err != nil {
		return stats, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dst)
	}

	walkErr := afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("Skipping unreadable entry")
			stats.Failed++
			return nil
		}
		rel, relErr := filepath.Rel(src, path)
		if relErr != nil || rel == "." {
			return nil
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			if err := fs.MkdirAll(target, 0755); err != nil {
				logger.Debug().Err(err).Str("dir", target).Msg("Failed to create directory")
				stats.Failed++
			}
			return nil
		}

		if !overwrite && Exists(fs, target) {
			stats.Skipped++
			return nil
		}
		if err := CopyFile(fs, path, target); err != nil {
			logger.Debug().Err(err).Str("file", rel).Msg("Failed to merge file")
			stats.Failed++
			return nil
		}
		stats.Copied++
		return nil
	})
	if walkErr != nil {
		return stats, errors.Wrapf(walkErr, errors.ErrFileAccess, "failed to walk %s", src)
	}

	logger.Trace().
		Str("src", src).
		Str("dst", dst).
		Int("copied", stats.Copied).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msg("Merged tree")
	return stats, nil
}

// ListFiles returns every regular file below root as a slash-separated
// path relative to root, sorted.
func ListFiles(fs afero.Fs, root string) ([]string, error) {
	files := []string{}
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", root)
	}
	sort.Strings(files)
	return files, nil
}

// ClearDir removes everything inside dir and keeps dir itself. A missing
// dir is created.
func ClearDir(fs afero.Fs, dir string) error {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fs.MkdirAll(dir, 0755)
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", dir)
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := fs.RemoveAll(path); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to remove %s", path)
		}
	}
	return nil
}

// RecreateDir removes dir entirely and creates it empty.
func RecreateDir(fs afero.Fs, dir string) error {
	if err := fs.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to remove %s", dir)
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
	}
	return nil
}

// RemoveFiles deletes each slash-separated relative path under root and
// returns how many were removed. Missing files are ignored.
func RemoveFiles(fs afero.Fs, root string, rels []string) int {
	removed := 0
	for _, rel := range rels {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if !IsFile(fs, path) {
			continue
		}
		if err := fs.Remove(path); err == nil {
			removed++
		}
	}
	return removed
}
