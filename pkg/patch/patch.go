// Package patch installs packed artifacts into the game's pak folder and
// removes them again.
//
// Installed files are named pakchunkModManager_<artifact>_P.pak. Unpatch
// removes every file in the pak folder starting with pakchunkModManager.
package patch

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/modpatch/pkg/config"
	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/filesystem"
	"github.com/arthur-debert/modpatch/pkg/informer"
	"github.com/arthur-debert/modpatch/pkg/logging"
	"github.com/arthur-debert/modpatch/pkg/paths"
	"github.com/arthur-debert/modpatch/pkg/registry"
	"github.com/arthur-debert/modpatch/pkg/repack"
	"github.com/arthur-debert/modpatch/pkg/runner"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// FilePrefix starts the name of every file patch writes.
const FilePrefix = "pakchunkModManager"

// FileName returns the installed name for an artifact.
func FileName(artifact string) string {
	base := strings.TrimSuffix(filepath.Base(artifact), filepath.Ext(artifact))
	return FilePrefix + "_" + base + "_P.pak"
}

// IsPatchFile reports whether name was written by patch.
func IsPatchFile(name string) bool {
	return strings.HasPrefix(name, FilePrefix)
}

// Orchestrator applies and removes patches.
type Orchestrator struct {
	fs       afero.Fs
	cfg      *config.Config
	paths    paths.Paths
	registry *registry.Registry
	repack   *repack.Orchestrator
	informer informer.Informer
	logger   zerolog.Logger
}

// New creates an Orchestrator.
func New(fs afero.Fs, cfg *config.Config, p paths.Paths, reg *registry.Registry, rp *repack.Orchestrator, inf informer.Informer) *Orchestrator {
	if inf == nil {
		inf = informer.Nop
	}
	return &Orchestrator{
		fs:       fs,
		cfg:      cfg,
		paths:    p,
		registry: reg,
		repack:   rp,
		informer: inf,
		logger:   logging.GetLogger("patch"),
	}
}

// Result summarizes a patch run.
type Result struct {
	RunID     string
	Installed []string
	Removed   []string
	Cleaned   int
	Activated int
	Elapsed   time.Duration
}

// UnpatchResult summarizes an unpatch run.
type UnpatchResult struct {
	Removed     []string
	Deactivated int
}

func (o *Orchestrator) paksDir() (string, error) {
	dir := o.paths.GamePaksDir()
	if dir == "" {
		informer.Inform(o.informer, informer.PatchGameFolderMissing, nil)
		return "", errors.New(errors.ErrGameFolderUnset, "game content folder is not configured")
	}
	return dir, nil
}

// Patch removes content of mods disabled since the last unpack, packs the
// merge root and installs the artifacts into the game's pak folder. Mods
// that are unpacked and enabled are marked active.
func (o *Orchestrator) Patch(ctx context.Context) (*Result, error) {
	paksDir, err := o.paksDir()
	if err != nil {
		return nil, err
	}
	if err := o.repack.CheckTool(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := o.logger.With().Str("run", runID).Logger()
	start := time.Now()
	result := &Result{RunID: runID}

	mods, err := o.registry.All(ctx, true)
	if err != nil {
		return nil, err
	}

	var elapsed time.Duration
	result.Cleaned, elapsed = o.cleanup(ctx, mods)
	informer.Inform(o.informer, informer.PatchCleanup, informer.Params{
		informer.ParamCount:   result.Cleaned,
		informer.ParamElapsed: elapsed,
	})

	packed, err := o.repack.Pack(ctx)
	if err != nil {
		return nil, err
	}
	if len(packed.Artifacts) == 0 {
		informer.Inform(o.informer, informer.PatchNoArtifacts, nil)
		return nil, errors.New(errors.ErrNoArtifacts, "packing produced no artifacts")
	}

	if err := o.fs.MkdirAll(paksDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", paksDir)
	}

	targets := map[string]string{}
	for _, artifact := range packed.Artifacts {
		targets[FileName(artifact)] = artifact
	}

	existing, err := o.patchFiles(paksDir)
	if err != nil {
		return nil, err
	}
	for _, name := range existing {
		if _, rewritten := targets[name]; rewritten {
			continue
		}
		if err := o.fs.Remove(filepath.Join(paksDir, name)); err != nil {
			logger.Warn().Err(err).Str("file", name).Msg("Failed to remove stale patch file")
			continue
		}
		result.Removed = append(result.Removed, name)
	}

	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dst := filepath.Join(paksDir, name)
		_ = o.fs.Remove(dst)
		if err := filesystem.MoveFile(o.fs, targets[name], dst); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to install %s", name)
		}
		result.Installed = append(result.Installed, dst)
		logger.Info().Str("file", dst).Msg("Installed patch file")
		informer.Inform(o.informer, informer.PatchInstalled, informer.Params{informer.ParamName: name})
	}

	result.Activated, elapsed = o.activate(ctx)
	informer.Inform(o.informer, informer.PatchStatus, informer.Params{
		informer.ParamCount:   result.Activated,
		informer.ParamElapsed: elapsed,
	})

	result.Elapsed = time.Since(start)
	logger.Info().
		Int("installed", len(result.Installed)).
		Int("activated", result.Activated).
		Dur("elapsed", result.Elapsed).
		Msg("Patch finished")
	informer.Inform(o.informer, informer.PatchFinished, informer.Params{informer.ParamElapsed: result.Elapsed})
	return result, nil
}

// cleanup removes the merged content of disabled mods that are still
// unpacked and clears their Unpacked flag.
func (o *Orchestrator) cleanup(ctx context.Context, mods []*types.Mod) (int, time.Duration) {
	start := time.Now()
	root := o.paths.MergeDir()
	separate := o.cfg.Execution.DeployOnSeparateFile

	var stale []*types.Mod
	for _, m := range mods {
		if !m.Metadata.Enabled && m.Metadata.Unpacked {
			stale = append(stale, m)
		}
	}

	results := runner.ForEach(ctx, stale, o.cfg.Workers(), func(_ context.Context, m *types.Mod) error {
		if separate {
			if err := o.fs.RemoveAll(filepath.Join(root, m.ID())); err != nil {
				return err
			}
		} else {
			removed := filesystem.RemoveFiles(o.fs, root, m.Metadata.FilePaths)
			o.logger.Debug().Str("mod", m.ID()).Int("files", removed).Msg("Removed stale content")
		}
		m.Metadata.Unpacked = false
		m.Metadata.Active = false
		return o.registry.Save(m)
	})

	cleaned := 0
	for _, r := range results {
		if r.Err != nil {
			o.logger.Warn().Err(r.Err).Str("mod", r.Item.ID()).Msg("Failed to clean up mod")
			continue
		}
		cleaned++
	}
	return cleaned, time.Since(start)
}

// activate marks every unpacked, enabled mod active and clears Active on
// mods the new patch no longer carries.
func (o *Orchestrator) activate(ctx context.Context) (int, time.Duration) {
	start := time.Now()
	mods, err := o.registry.All(ctx, true)
	if err != nil {
		o.logger.Error().Err(err).Msg("Failed to reload mods for status update")
		return 0, time.Since(start)
	}

	var activated runner.Collector[string]
	runner.ForEach(ctx, mods, o.cfg.Workers(), func(_ context.Context, m *types.Mod) error {
		if !m.Metadata.Unpacked || !m.Metadata.Enabled {
			if !m.Metadata.Active {
				return nil
			}
			m.Metadata.Active = false
			if err := o.registry.Save(m); err != nil {
				o.logger.Warn().Err(err).Str("mod", m.ID()).Msg("Failed to mark mod inactive")
			}
			return nil
		}
		if !m.Metadata.Active {
			m.Metadata.Active = true
			if err := o.registry.Save(m); err != nil {
				o.logger.Warn().Err(err).Str("mod", m.ID()).Msg("Failed to mark mod active")
				return err
			}
		}
		activated.Add(m.ID())
		return nil
	})
	return len(activated.Values()), time.Since(start)
}

// Unpatch deletes every patch file from the game's pak folder and clears
// Active on all mods. Unpacked and Enabled are left alone.
func (o *Orchestrator) Unpatch(ctx context.Context) (*UnpatchResult, error) {
	paksDir, err := o.paksDir()
	if err != nil {
		return nil, err
	}

	files, err := o.patchFiles(paksDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		informer.Inform(o.informer, informer.UnpatchNone, nil)
		return nil, errors.Newf(errors.ErrNoPatchFiles, "no patch files in %s", paksDir)
	}

	result := &UnpatchResult{}
	for _, name := range files {
		if err := o.fs.Remove(filepath.Join(paksDir, name)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to remove %s", name)
		}
		result.Removed = append(result.Removed, name)
	}

	mods, err := o.registry.All(ctx, true)
	if err != nil {
		return nil, err
	}
	var deactivated runner.Collector[string]
	runner.ForEach(ctx, mods, o.cfg.Workers(), func(_ context.Context, m *types.Mod) error {
		if !m.Metadata.Active {
			return nil
		}
		m.Metadata.Active = false
		if err := o.registry.Save(m); err != nil {
			return err
		}
		deactivated.Add(m.ID())
		return nil
	})
	result.Deactivated = len(deactivated.Values())

	o.logger.Info().Strs("removed", result.Removed).Int("deactivated", result.Deactivated).Msg("Unpatch finished")
	informer.Inform(o.informer, informer.UnpatchFinished, informer.Params{informer.ParamCount: len(result.Removed)})
	return result, nil
}

// patchFiles lists the patch files in dir. A missing dir holds none.
func (o *Orchestrator) patchFiles(dir string) ([]string, error) {
	if !filesystem.IsDir(o.fs, dir) {
		return nil, nil
	}
	entries, err := afero.ReadDir(o.fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", dir)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && IsPatchFile(entry.Name()) {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}
