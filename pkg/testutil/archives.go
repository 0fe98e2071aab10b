package testutil

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// ZipBytes builds a zip archive holding files (slash path -> content).
func ZipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	data, err := zipBytes(files)
	require.NoError(t, err)
	return data
}

func zipBytes(files map[string]string) ([]byte, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		f, err := w.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := io.WriteString(f, files[name]); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteZip writes a zip archive holding files at path.
func WriteZip(t *testing.T, fs afero.Fs, path string, files map[string]string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, ZipBytes(t, files), 0644))
}

// WritePak writes a pak FakeTool can unpack. Paths in files are relative to
// the pak root, e.g. "Game/Content/UI/a.uasset".
func WritePak(t *testing.T, fs afero.Fs, path string, files map[string]string) {
	t.Helper()
	WriteZip(t, fs, path, files)
}

// ReadZip returns the files held by the zip (or FakeTool pak) at path.
func ReadZip(t *testing.T, fs afero.Fs, path string) map[string]string {
	t.Helper()
	files, err := readZip(fs, path)
	require.NoError(t, err)
	return files
}

func readZip(fs afero.Fs, path string) (map[string]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	files := map[string]string{}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, err
		}
		files[f.Name] = string(content)
	}
	return files, nil
}
