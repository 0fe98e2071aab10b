package profiles

import (
	"context"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/modpatch/pkg/datastore"
	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/filesystem"
	"github.com/arthur-debert/modpatch/pkg/informer"
	"github.com/arthur-debert/modpatch/pkg/logging"
	"github.com/arthur-debert/modpatch/pkg/paths"
	"github.com/arthur-debert/modpatch/pkg/registry"
	"github.com/arthur-debert/modpatch/pkg/runner"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Lifecycle moves mods between the enabled and disabled folders.
type Lifecycle interface {
	SetEnabled(ctx context.Context, mod *types.Mod, enabled bool) (*types.Mod, error)
}

// Manager reads, writes and loads profiles.
type Manager struct {
	fs        afero.Fs
	paths     paths.Paths
	registry  *registry.Registry
	lifecycle Lifecycle
	store     datastore.DataStore
	workers   int
	informer  informer.Informer
	logger    zerolog.Logger
}

// New creates a Manager. workers bounds how many mods are switched at once.
func New(fs afero.Fs, p paths.Paths, reg *registry.Registry, lc Lifecycle, workers int, inf informer.Informer) *Manager {
	if inf == nil {
		inf = informer.Nop
	}
	return &Manager{
		fs:        fs,
		paths:     p,
		registry:  reg,
		lifecycle: lc,
		store:     reg.Store(),
		workers:   workers,
		informer:  inf,
		logger:    logging.GetLogger("profiles"),
	}
}

// LoadResult describes what loading a profile changed.
type LoadResult struct {
	Profile  *types.Profile
	Enabled  []string
	Disabled []string
	Failed   []runner.Result[*types.Mod]
}

func (m *Manager) path(p *types.Profile) string {
	return filepath.Join(m.paths.ProfilesDir(), p.FileName+types.MetadataExtension)
}

// All returns every profile, ordered by file name.
func (m *Manager) All() ([]*types.Profile, error) {
	return m.store.ListProfiles(m.paths.ProfilesDir())
}

// Find returns the profile whose file name or name matches, ignoring case.
func (m *Manager) Find(name string) (*types.Profile, error) {
	all, err := m.All()
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if strings.EqualFold(p.FileName, name) {
			return p, nil
		}
	}
	for _, p := range all {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, errors.Newf(errors.ErrProfileNotFound, "no profile named %q", name)
}

// Create writes a new, inactive profile. The file name is derived from name
// and made unique within the profiles folder.
func (m *Manager) Create(name string, selected []string) (*types.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New(errors.ErrInvalidInput, "profile name must not be empty")
	}
	if err := m.fs.MkdirAll(m.paths.ProfilesDir(), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", m.paths.ProfilesDir())
	}

	p := &types.Profile{
		Name:     name,
		Selected: dedupe(selected),
		FileName: filesystem.UniqueName(m.fs, []string{m.paths.ProfilesDir()}, fileBase(name), types.MetadataExtension),
	}
	if err := m.store.SaveProfile(m.path(p), p); err != nil {
		return nil, err
	}
	m.logger.Info().Str("profile", p.Name).Str("file", p.FileName).Msg("Created profile")
	return p, nil
}

// Update persists p over its existing record.
func (m *Manager) Update(p *types.Profile) error {
	if p.FileName == "" {
		return errors.Newf(errors.ErrProfileNotFound, "profile %q has no record", p.Name)
	}
	p.Selected = dedupe(p.Selected)
	return m.store.SaveProfile(m.path(p), p)
}

// Delete removes the record of p.
func (m *Manager) Delete(p *types.Profile) error {
	if !filesystem.Exists(m.fs, m.path(p)) {
		return errors.Newf(errors.ErrProfileNotFound, "profile %q does not exist", p.Name)
	}
	return m.store.RemoveProfile(m.path(p))
}

// Current returns the active profile. Without one, the first profile is
// loaded; without any profile, a default profile selecting every enabled
// mod is created and loaded.
func (m *Manager) Current(ctx context.Context) (*types.Profile, error) {
	all, err := m.All()
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.Active {
			return p, nil
		}
	}

	var p *types.Profile
	if len(all) > 0 {
		p = all[0]
	} else {
		mods, err := m.registry.All(ctx, true)
		if err != nil {
			return nil, err
		}
		var enabled []string
		for _, mod := range mods {
			if mod.Metadata.Enabled {
				enabled = append(enabled, mod.ID())
			}
		}
		if p, err = m.Create(types.DefaultProfileName, enabled); err != nil {
			return nil, err
		}
	}

	if _, err := m.Load(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Load enables the mods p selects and disables the rest, then makes p the
// only active profile. Mods that fail to switch are reported in the result
// and do not stop the load.
func (m *Manager) Load(ctx context.Context, p *types.Profile) (*LoadResult, error) {
	done := logging.LogOperationStart(m.logger, "load profile "+p.Name)

	mods, err := m.registry.All(ctx, true)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{Profile: p}
	var enabled, disabled runner.Collector[string]
	results := runner.ForEach(ctx, mods, m.workers, func(ctx context.Context, mod *types.Mod) error {
		want := p.IsSelected(mod.ID())
		was := mod.Metadata.Enabled
		if _, err := m.lifecycle.SetEnabled(ctx, mod, want); err != nil {
			return err
		}
		switch {
		case want && !was:
			enabled.Add(mod.ID())
		case !want && was:
			disabled.Add(mod.ID())
		}
		return nil
	})
	result.Failed = runner.Failed(results)
	result.Enabled = enabled.Values()
	result.Disabled = disabled.Values()
	sort.Strings(result.Enabled)
	sort.Strings(result.Disabled)
	for _, r := range result.Failed {
		m.logger.Warn().Err(r.Err).Str("mod", r.Item.ID()).Msg("Failed to switch mod")
	}

	if err := m.activate(p); err != nil {
		return result, err
	}
	m.registry.Invalidate()

	elapsed := done()
	informer.Inform(m.informer, informer.ProfileLoaded, informer.Params{
		informer.ParamName:    p.Name,
		informer.ParamElapsed: elapsed,
	})
	return result, nil
}

// activate marks p active and every other profile inactive.
func (m *Manager) activate(p *types.Profile) error {
	all, err := m.All()
	if err != nil {
		return err
	}
	for _, other := range all {
		if other.FileName == p.FileName || !other.Active {
			continue
		}
		other.Active = false
		if err := m.store.SaveProfile(m.path(other), other); err != nil {
			return err
		}
	}
	p.Active = true
	return m.store.SaveProfile(m.path(p), p)
}

// Export writes p as YAML.
func (m *Manager) Export(w io.Writer, p *types.Profile) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	out := *p
	out.Active = false
	if err := enc.Encode(&out); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to export profile %s", p.Name)
	}
	return enc.Close()
}

// Import reads a YAML profile and creates it as a new, inactive profile.
func (m *Manager) Import(r io.Reader) (*types.Profile, error) {
	var in types.Profile
	if err := yaml.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(err, errors.ErrProfileInvalid, "failed to parse profile")
	}
	return m.Create(in.Name, in.Selected)
}

// fileBase turns a display name into a safe file name.
func fileBase(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

func dedupe(ids []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
