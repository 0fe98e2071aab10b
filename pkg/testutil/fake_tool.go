package testutil

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/arthur-debert/modpatch/pkg/filesystem"
	"github.com/spf13/afero"
)

// FakeTool simulates the external packer on an afero filesystem. Paks are
// zip files: Unpack extracts <file> into <file without ext>/ and Pack zips
// <folder> into <folder>.pak.
type FakeTool struct {
	FS             afero.Fs
	ContentSubpath string

	// AvailableErr is returned by Available when set
	AvailableErr error

	mu       sync.Mutex
	unpacked []string
	packed   []string
}

// NewFakeTool creates a FakeTool working on fs.
func NewFakeTool(fs afero.Fs, contentSubpath string) *FakeTool {
	return &FakeTool{FS: fs, ContentSubpath: contentSubpath}
}

func (f *FakeTool) Available() error {
	return f.AvailableErr
}

func (f *FakeTool) Unpack(_ context.Context, file string) (string, bool) {
	f.mu.Lock()
	f.unpacked = append(f.unpacked, file)
	f.mu.Unlock()

	out := strings.TrimSuffix(file, filepath.Ext(file))
	files, err := readZip(f.FS, file)
	if err != nil {
		return out, false
	}
	for name, content := range files {
		target := filepath.Join(out, filepath.FromSlash(name))
		if err := f.FS.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return out, false
		}
		if err := afero.WriteFile(f.FS, target, []byte(content), 0644); err != nil {
			return out, false
		}
	}
	return out, filesystem.IsDir(f.FS, filepath.Join(out, filepath.FromSlash(f.ContentSubpath)))
}

func (f *FakeTool) Pack(_ context.Context, folder string) (string, bool) {
	f.mu.Lock()
	f.packed = append(f.packed, folder)
	f.mu.Unlock()

	artifact := folder + ".pak"
	_ = f.FS.Remove(artifact)

	rels, err := filesystem.ListFiles(f.FS, folder)
	if err != nil {
		return artifact, false
	}
	files := map[string]string{}
	for _, rel := range rels {
		data, err := afero.ReadFile(f.FS, filepath.Join(folder, filepath.FromSlash(rel)))
		if err != nil {
			return artifact, false
		}
		files[rel] = string(data)
	}
	data, err := zipBytes(files)
	if err != nil {
		return artifact, false
	}
	if err := afero.WriteFile(f.FS, artifact, data, 0644); err != nil {
		return artifact, false
	}
	return artifact, true
}

// Unpacked returns the files passed to Unpack.
func (f *FakeTool) Unpacked() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.unpacked...)
}

// Packed returns the folders passed to Pack.
func (f *FakeTool) Packed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.packed...)
}
