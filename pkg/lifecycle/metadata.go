package lifecycle

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/filesystem"
	"github.com/arthur-debert/modpatch/pkg/types"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
}

// SetOrder changes the merge precedence of mod.
func (m *Manager) SetOrder(mod *types.Mod, order int) (*types.Mod, error) {
	updated := mod.Clone()
	updated.Metadata.Order = order
	if err := m.registry.Save(updated); err != nil {
		return mod, err
	}
	return updated, nil
}

// SetTags replaces the user tags of mod. Blank and duplicate tags are dropped.
func (m *Manager) SetTags(mod *types.Mod, tags []string) (*types.Mod, error) {
	seen := map[string]bool{}
	clean := []string{}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		clean = append(clean, tag)
	}

	updated := mod.Clone()
	updated.Metadata.Tags = clean
	if err := m.registry.Save(updated); err != nil {
		return mod, err
	}
	return updated, nil
}

// SetName changes the display name of mod.
func (m *Manager) SetName(mod *types.Mod, name string) (*types.Mod, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return mod, errors.New(errors.ErrInvalidInput, "mod name cannot be empty")
	}
	updated := mod.Clone()
	updated.Metadata.Name = name
	if err := m.registry.Save(updated); err != nil {
		return mod, err
	}
	return updated, nil
}

// SetLogo copies image into the mod folder's images/ as <name><ext> and
// records it. An empty image clears the logo.
func (m *Manager) SetLogo(mod *types.Mod, image string) (*types.Mod, error) {
	updated := mod.Clone()
	previous := mod.LogoPath()

	if image == "" {
		updated.Metadata.Logo = ""
	} else {
		ext := strings.ToLower(filepath.Ext(image))
		if !imageExtensions[ext] {
			return mod, errors.Newf(errors.ErrInvalidInput, "unsupported logo image %s", filepath.Base(image))
		}
		fileName := mod.ID() + ext
		if err := filesystem.CopyFile(m.fs, image, filepath.Join(mod.File.ImagesDir, fileName)); err != nil {
			return mod, err
		}
		updated.Metadata.Logo = fileName
	}

	if previous != "" && previous != updated.LogoPath() {
		_ = m.fs.Remove(previous)
	}
	if err := m.registry.Save(updated); err != nil {
		return mod, err
	}
	return updated, nil
}
