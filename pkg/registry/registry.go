package registry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/arthur-debert/modpatch/pkg/datastore"
	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/logging"
	"github.com/arthur-debert/modpatch/pkg/paths"
	"github.com/arthur-debert/modpatch/pkg/runner"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Registry caches every mod found in the enabled and disabled folders.
type Registry struct {
	fs      afero.Fs
	paths   paths.Paths
	store   datastore.DataStore
	workers int
	logger  zerolog.Logger

	mu   sync.RWMutex
	mods []*types.Mod
}

// New creates a Registry. workers bounds concurrent mod construction.
func New(fs afero.Fs, p paths.Paths, store datastore.DataStore, workers int) *Registry {
	return &Registry{
		fs:      fs,
		paths:   p,
		store:   store,
		workers: workers,
		logger:  logging.GetLogger("registry"),
	}
}

// Store returns the sidecar store the registry persists through.
func (r *Registry) Store() datastore.DataStore {
	return r.store
}

// Invalidate drops the snapshot; the next All reloads from disk.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.mods = nil
	r.mu.Unlock()
}

// All returns every mod sorted by Order then name. The snapshot is reused
// unless forceReload is set or it was invalidated.
func (r *Registry) All(ctx context.Context, forceReload bool) ([]*types.Mod, error) {
	if !forceReload {
		r.mu.RLock()
		cached := r.mods
		r.mu.RUnlock()
		if cached != nil {
			return cloneAll(cached), nil
		}
	}

	mods, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.mods = mods
	r.mu.Unlock()
	return cloneAll(mods), nil
}

// Find returns the mod whose id or display name matches name, ignoring case.
func (r *Registry) Find(ctx context.Context, name string) (*types.Mod, error) {
	mods, err := r.All(ctx, false)
	if err != nil {
		return nil, err
	}
	for _, m := range mods {
		if strings.EqualFold(m.ID(), name) {
			return m, nil
		}
	}
	for _, m := range mods {
		if strings.EqualFold(m.DisplayName(), name) || strings.EqualFold(m.File.FileName, name) {
			return m, nil
		}
	}
	return nil, errors.Newf(errors.ErrModNotFound, "no mod named %q", name).WithDetail("name", name)
}

// Save persists mod's metadata and drops the snapshot.
func (r *Registry) Save(mod *types.Mod) error {
	err := r.store.SaveMetadata(mod.File.MetadataPath, mod.Metadata)
	r.Invalidate()
	return err
}

// EnsureFolders creates both mod folders with their profiles/ and images/
// subfolders.
func (r *Registry) EnsureFolders() error {
	for _, dir := range []string{r.paths.EnabledDir(), r.paths.DisabledDir()} {
		for _, sub := range []string{dir, filepath.Join(dir, types.MetadataDirName), filepath.Join(dir, types.ImagesDirName)} {
			if err := r.fs.MkdirAll(sub, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", sub)
			}
		}
	}
	return nil
}

func (r *Registry) load(ctx context.Context) ([]*types.Mod, error) {
	done := logging.LogOperationStart(r.logger, "registry.load")
	defer done()

	if err := r.EnsureFolders(); err != nil {
		return nil, err
	}

	var files []string
	for _, dir := range []string{r.paths.EnabledDir(), r.paths.DisabledDir()} {
		found, err := r.scan(dir)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	var collected runner.Collector[*types.Mod]
	results := runner.ForEach(ctx, files, r.workers, func(_ context.Context, path string) error {
		mod, err := r.build(path)
		if err != nil {
			return err
		}
		collected.Add(mod)
		return nil
	})
	for _, failed := range runner.Failed(results) {
		r.logger.Warn().Err(failed.Err).Str("file", failed.Item).Msg("Skipping mod")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mods := collected.Values()
	types.SortMods(mods)
	r.logger.Debug().Int("mods", len(mods)).Msg("Loaded mods")
	return mods, nil
}

func (r *Registry) scan(dir string) ([]string, error) {
	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", dir)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !types.IsSupported(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// build hydrates one mod. A missing or unreadable sidecar is reseeded, and a
// sidecar whose Enabled flag disagrees with the file's folder is repaired.
func (r *Registry) build(path string) (*types.Mod, error) {
	info := types.NewFileInfo(path, r.paths.ExtractDir())
	enabled := filepath.Clean(info.Dir()) == filepath.Clean(r.paths.EnabledDir())

	md, found, err := r.store.LoadMetadata(info.MetadataPath)
	if err != nil {
		r.logger.Warn().Err(err).Str("mod", info.Name).Msg("Reseeding unreadable sidecar")
		found = false
	}

	dirty := false
	if !found {
		md = types.SeedMetadata(info, enabled)
		dirty = true
	}
	if md.Enabled != enabled {
		r.logger.Info().Str("mod", info.Name).Bool("enabled", enabled).Msg("Repairing enabled flag from location")
		md.Enabled = enabled
		if !enabled {
			md.Active = false
		}
		dirty = true
	}
	if md.Name == "" {
		md.Name = info.Name
		dirty = true
	}

	if dirty {
		if err := r.store.SaveMetadata(info.MetadataPath, md); err != nil {
			return nil, err
		}
	}
	return &types.Mod{File: info, Metadata: md}, nil
}

func cloneAll(mods []*types.Mod) []*types.Mod {
	out := make([]*types.Mod, len(mods))
	for i, m := range mods {
		out[i] = m.Clone()
	}
	return out
}
