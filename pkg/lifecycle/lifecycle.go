package lifecycle

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/extract"
	"github.com/arthur-debert/modpatch/pkg/filesystem"
	"github.com/arthur-debert/modpatch/pkg/informer"
	"github.com/arthur-debert/modpatch/pkg/logging"
	"github.com/arthur-debert/modpatch/pkg/paths"
	"github.com/arthur-debert/modpatch/pkg/registry"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Extractor validates a mod by extracting it.
type Extractor interface {
	Extract(ctx context.Context, mod *types.Mod) (*extract.Result, error)
}

// Manager performs mod lifecycle operations.
type Manager struct {
	fs        afero.Fs
	paths     paths.Paths
	registry  *registry.Registry
	extractor Extractor
	informer  informer.Informer
	logger    zerolog.Logger
}

// New creates a Manager.
func New(fs afero.Fs, p paths.Paths, reg *registry.Registry, ext Extractor, inf informer.Informer) *Manager {
	if inf == nil {
		inf = informer.Nop
	}
	return &Manager{
		fs:        fs,
		paths:     p,
		registry:  reg,
		extractor: ext,
		informer:  inf,
		logger:    logging.GetLogger("lifecycle"),
	}
}

// Add copies the archive at src into the mods folders under a name no
// other mod uses, then enables it. When enabling fails the new mod is
// returned disabled together with the error.
func (m *Manager) Add(ctx context.Context, src string) (*types.Mod, error) {
	if !types.IsSupported(src) {
		return nil, errors.Newf(errors.ErrExtractUnsupported, "unsupported mod file %s", filepath.Base(src)).
			WithDetail("extensions", types.SupportedExtensions())
	}
	if !filesystem.IsFile(m.fs, src) {
		return nil, errors.Newf(errors.ErrNotFound, "mod file %s does not exist", src)
	}
	if err := m.registry.EnsureFolders(); err != nil {
		return nil, err
	}

	ext := filepath.Ext(src)
	base := strings.TrimSuffix(filepath.Base(src), ext)
	name := filesystem.UniqueName(m.fs,
		[]string{m.paths.EnabledDir(), m.paths.DisabledDir()},
		base, types.SupportedExtensions()...)

	dst := filepath.Join(m.paths.DisabledDir(), name+ext)
	if err := filesystem.CopyFile(m.fs, src, dst); err != nil {
		return nil, err
	}

	info := types.NewFileInfo(dst, m.paths.ExtractDir())
	mod := &types.Mod{File: info, Metadata: types.SeedMetadata(info, false)}
	if err := m.registry.Save(mod); err != nil {
		_ = m.fs.Remove(dst)
		return nil, err
	}

	m.logger.Info().Str("mod", name).Str("source", src).Msg("Added mod")
	informer.Inform(m.informer, informer.ModAdded, informer.Params{informer.ParamName: name})

	return m.Enable(ctx, mod)
}

// Enable validates mod and moves it into the enabled folder.
func (m *Manager) Enable(ctx context.Context, mod *types.Mod) (*types.Mod, error) {
	return m.SetEnabled(ctx, mod, true)
}

// Disable validates mod and moves it into the disabled folder.
func (m *Manager) Disable(ctx context.Context, mod *types.Mod) (*types.Mod, error) {
	return m.SetEnabled(ctx, mod, false)
}

// SetEnabled moves mod into the enabled or disabled folder. It is a no-op
// when the mod is already there.
func (m *Manager) SetEnabled(ctx context.Context, mod *types.Mod, enabled bool) (*types.Mod, error) {
	targetDir := m.paths.ModDir(enabled)
	inPlace := filepath.Clean(mod.File.Dir()) == filepath.Clean(targetDir)
	if mod.Metadata.Enabled == enabled && inPlace {
		return mod, nil
	}

	logger := m.logger.With().Str("mod", mod.ID()).Bool("enabled", enabled).Logger()
	dest := mod.File.Relocate(targetDir)
	if !inPlace && filesystem.Exists(m.fs, dest.Path) {
		return mod, errors.Newf(errors.ErrModMove, "%s already exists in %s", mod.File.FileName, targetDir)
	}

	result, err := m.extractor.Extract(ctx, mod)
	if err != nil {
		logger.Warn().Err(err).Msg("Validation failed")
		informer.Inform(m.informer, informer.ModValidationFailed, informer.Params{
			informer.ParamName:   mod.ID(),
			informer.ParamReason: err.Error(),
		})
		return mod, errors.Wrapf(err, errors.ErrModValidation, "%s failed validation", mod.ID())
	}
	_ = m.fs.RemoveAll(result.StagingDir)

	updated := mod.Clone()
	updated.Metadata.Valid = true
	updated.Metadata.SystemTags = result.SystemTags
	updated.Metadata.Enabled = enabled
	if !enabled {
		updated.Metadata.Active = false
	}
	if inPlace {
		if err := m.registry.Save(updated); err != nil {
			return mod, err
		}
	} else if err := m.relocate(mod, updated, dest); err != nil {
		return mod, err
	}
	m.registry.Invalidate()

	code := informer.ModDisabled
	if enabled {
		code = informer.ModEnabled
	}
	logger.Info().Msg("Changed mod state")
	informer.Inform(m.informer, code, informer.Params{informer.ParamName: updated.ID()})
	return updated, nil
}

// relocate moves mod to dest and persists updated's metadata there. The
// destination sidecar is written first and the archive is moved last; when
// a step fails the earlier ones are undone, so the mod stays at its old
// location with its old sidecar.
func (m *Manager) relocate(mod, updated *types.Mod, dest types.FileInfo) error {
	store := m.registry.Store()
	if err := store.SaveMetadata(dest.MetadataPath, updated.Metadata); err != nil {
		return errors.Wrapf(err, errors.ErrModMove, "failed to write sidecar of %s", mod.ID())
	}
	undo := []func(){func() { _ = store.RemoveMetadata(dest.MetadataPath) }}
	rollback := func() {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}

	if logo := mod.LogoPath(); logo != "" && filesystem.IsFile(m.fs, logo) {
		target := filepath.Join(dest.ImagesDir, mod.Metadata.Logo)
		if err := filesystem.MoveFile(m.fs, logo, target); err != nil {
			rollback()
			return errors.Wrapf(err, errors.ErrModMove, "failed to move logo of %s", mod.ID())
		}
		undo = append(undo, func() {
			if err := filesystem.MoveFile(m.fs, target, logo); err != nil {
				m.logger.Warn().Err(err).Str("mod", mod.ID()).Msg("Failed to restore logo")
			}
		})
	}

	if err := filesystem.MoveFile(m.fs, mod.File.Path, dest.Path); err != nil {
		// A failed copy fallback can leave a partial archive behind.
		if filesystem.IsFile(m.fs, mod.File.Path) {
			_ = m.fs.Remove(dest.Path)
		}
		rollback()
		return errors.Wrapf(err, errors.ErrModMove, "failed to move %s", mod.File.FileName)
	}

	if err := store.RemoveMetadata(mod.File.MetadataPath); err != nil {
		m.logger.Warn().Err(err).Str("mod", mod.ID()).Msg("Left stale sidecar behind")
	}
	updated.File = dest
	return nil
}

// Delete removes the archive, sidecar, logo and any staging of mod.
func (m *Manager) Delete(ctx context.Context, mod *types.Mod) error {
	if err := m.fs.Remove(mod.File.Path); err != nil && filesystem.Exists(m.fs, mod.File.Path) {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to delete %s", mod.File.Path)
	}
	if err := m.registry.Store().RemoveMetadata(mod.File.MetadataPath); err != nil {
		return err
	}
	if logo := mod.LogoPath(); logo != "" {
		_ = m.fs.Remove(logo)
	}
	_ = m.fs.RemoveAll(mod.File.StagingPath)
	m.registry.Invalidate()

	m.logger.Info().Str("mod", mod.ID()).Msg("Deleted mod")
	informer.Inform(m.informer, informer.ModDeleted, informer.Params{informer.ParamName: mod.ID()})
	return nil
}
