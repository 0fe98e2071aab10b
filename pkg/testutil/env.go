package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modpatch/pkg/config"
	"github.com/arthur-debert/modpatch/pkg/datastore"
	"github.com/arthur-debert/modpatch/pkg/informer"
	"github.com/arthur-debert/modpatch/pkg/paths"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// ContentSubpath is the content subpath used by Env.
const ContentSubpath = "Game/Content"

// Env wires configuration, paths, an in-memory filesystem and a FakeTool
// for component tests.
type Env struct {
	T        *testing.T
	FS       afero.Fs
	Config   *config.Config
	Paths    paths.Paths
	Tool     *FakeTool
	Store    datastore.DataStore
	Informer *informer.Recorder
}

// NewEnv creates an Env with every folder under /modpatch and the game
// content folder at /game/Content.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	fs := afero.NewMemMapFs()

	cfg := &config.Config{
		Folders: config.Folders{
			Enabled:  "/modpatch/mods/enabled",
			Disabled: "/modpatch/mods/disabled",
			Profiles: "/modpatch/profiles",
			Work:     "/modpatch/work",
		},
		Game: config.Game{
			ContentDir:     "/game/Content",
			ContentSubpath: ContentSubpath,
		},
		Packer: config.Packer{
			Folder:     "/tool",
			Executable: "repak",
		},
		Execution: config.Execution{MaxWorkers: 4},
	}

	p, err := paths.New(cfg)
	require.NoError(t, err)

	return &Env{
		T:        t,
		FS:       fs,
		Config:   cfg,
		Paths:    p,
		Tool:     NewFakeTool(fs, ContentSubpath),
		Store:    datastore.New(fs),
		Informer: &informer.Recorder{},
	}
}

// Content prefixes every key of files with the content subpath.
func Content(files map[string]string) map[string]string {
	out := make(map[string]string, len(files))
	for name, content := range files {
		out[ContentSubpath+"/"+name] = content
	}
	return out
}

// ModPath returns where fileName lives in the enabled or disabled folder.
func (e *Env) ModPath(enabled bool, fileName string) string {
	return filepath.Join(e.Paths.ModDir(enabled), fileName)
}

// AddZip writes a zip mod holding files into the enabled or disabled folder.
func (e *Env) AddZip(enabled bool, fileName string, files map[string]string) string {
	e.T.Helper()
	path := e.ModPath(enabled, fileName)
	WriteZip(e.T, e.FS, path, files)
	return path
}

// AddPak writes a pak mod holding files into the enabled or disabled folder.
func (e *Env) AddPak(enabled bool, fileName string, files map[string]string) string {
	e.T.Helper()
	path := e.ModPath(enabled, fileName)
	WritePak(e.T, e.FS, path, files)
	return path
}

// SaveMetadata writes the sidecar of the archive at path.
func (e *Env) SaveMetadata(path string, md types.Metadata) {
	e.T.Helper()
	info := types.NewFileInfo(path, e.Paths.ExtractDir())
	require.NoError(e.T, e.Store.SaveMetadata(info.MetadataPath, md))
}

// Metadata reads the sidecar of the archive at path.
func (e *Env) Metadata(path string) types.Metadata {
	e.T.Helper()
	info := types.NewFileInfo(path, e.Paths.ExtractDir())
	md, found, err := e.Store.LoadMetadata(info.MetadataPath)
	require.NoError(e.T, err)
	require.True(e.T, found, "no sidecar for %s", path)
	return md
}

// Exists reports whether path exists on the Env filesystem.
func (e *Env) Exists(path string) bool {
	ok, err := afero.Exists(e.FS, path)
	require.NoError(e.T, err)
	return ok
}
