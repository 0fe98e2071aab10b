// pkg/patch/patch_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Memory FS, FakeTool
// PURPOSE: Test installing and removing patch files and the mod state they drive

package patch_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/extract"
	"github.com/arthur-debert/modpatch/pkg/informer"
	"github.com/arthur-debert/modpatch/pkg/lifecycle"
	"github.com/arthur-debert/modpatch/pkg/patch"
	"github.com/arthur-debert/modpatch/pkg/paths"
	"github.com/arthur-debert/modpatch/pkg/registry"
	"github.com/arthur-debert/modpatch/pkg/repack"
	"github.com/arthur-debert/modpatch/pkg/testutil"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	env       *testutil.Env
	registry  *registry.Registry
	lifecycle *lifecycle.Manager
	repack    *repack.Orchestrator
	patch     *patch.Orchestrator
}

func newFixture(t *testing.T) *fixture {
	env := testutil.NewEnv(t)
	reg := registry.New(env.FS, env.Paths, env.Store, env.Config.Workers())
	ext := extract.New(env.FS, env.Tool, testutil.ContentSubpath)
	rp := repack.New(env.FS, env.Config, env.Paths, reg, ext, env.Tool, env.Informer)
	return &fixture{
		env:       env,
		registry:  reg,
		lifecycle: lifecycle.New(env.FS, env.Paths, reg, ext, env.Informer),
		repack:    rp,
		patch:     patch.New(env.FS, env.Config, env.Paths, reg, rp, env.Informer),
	}
}

func (f *fixture) addMod(name string, order int, files map[string]string) {
	path := f.env.AddZip(true, name+".zip", testutil.Content(files))
	f.env.SaveMetadata(path, types.Metadata{Name: name, Order: order, Enabled: true, Valid: true})
}

func (f *fixture) mod(t *testing.T, name string) *types.Mod {
	t.Helper()
	f.registry.Invalidate()
	m, err := f.registry.Find(context.Background(), name)
	require.NoError(t, err)
	return m
}

func (f *fixture) installed(name string) string {
	return filepath.Join(f.env.Paths.GamePaksDir(), name)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "pakchunkModManager_ModManager_P.pak", patch.FileName("/work/ModManager.pak"))
	assert.Equal(t, "pakchunkModManager_ui_P.pak", patch.FileName("ui.pak"))
	assert.True(t, patch.IsPatchFile("pakchunkModManager_ui_P.pak"))
	assert.False(t, patch.IsPatchFile("pakchunk0-Windows.pak"))
}

func TestPatch_InstallsArtifactAndActivatesMods(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addMod("ui", 0, map[string]string{"UI/a.uasset": "a"})
	f.addMod("maps", 1, map[string]string{"Maps/m.umap": "m"})

	_, err := f.repack.Unpack(ctx)
	require.NoError(t, err)
	result, err := f.patch.Patch(ctx)
	require.NoError(t, err)

	target := f.installed("pakchunkModManager_ModManager_P.pak")
	assert.Equal(t, []string{target}, result.Installed)
	assert.Equal(t, 2, result.Activated)
	assert.NotEmpty(t, result.RunID)

	files := testutil.ReadZip(t, f.env.FS, target)
	assert.Equal(t, "a", files["Game/Content/UI/a.uasset"])
	assert.Equal(t, "m", files["Game/Content/Maps/m.umap"])
	assert.False(t, f.env.Exists(filepath.Join(filepath.Dir(f.env.Paths.MergeDir()), "ModManager.pak")), "artifact is moved")

	assert.True(t, f.mod(t, "ui").Metadata.Active)
	assert.True(t, f.mod(t, "maps").Metadata.Active)
	assert.True(t, f.env.Informer.Has(informer.PatchInstalled))
	assert.True(t, f.env.Informer.Has(informer.PatchFinished))
}

func TestPatch_RemovesContentOfDisabledMods(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addMod("keep", 0, map[string]string{"keep.uasset": "k"})
	f.addMod("drop", 0, map[string]string{"drop.uasset": "d"})

	_, err := f.repack.Unpack(ctx)
	require.NoError(t, err)
	_, err = f.lifecycle.Disable(ctx, f.mod(t, "drop"))
	require.NoError(t, err)

	result, err := f.patch.Patch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Cleaned)
	assert.Equal(t, 1, result.Activated)

	files := testutil.ReadZip(t, f.env.FS, result.Installed[0])
	assert.Contains(t, files, "Game/Content/keep.uasset")
	assert.NotContains(t, files, "Game/Content/drop.uasset")

	dropped := f.mod(t, "drop")
	assert.False(t, dropped.Metadata.Unpacked)
	assert.False(t, dropped.Metadata.Active)
	assert.False(t, dropped.Metadata.Enabled)
	assert.True(t, f.mod(t, "keep").Metadata.Active)
}

func TestPatch_DeactivatesModsLeftOutOfTheNewPatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addMod("ui", 0, map[string]string{"UI/a.uasset": "a"})
	broken := f.env.AddZip(true, "broken.zip", testutil.Content(map[string]string{"b": "b"}))
	f.env.SaveMetadata(broken, types.Metadata{Name: "broken", Enabled: true, Valid: false, Unpacked: true, Active: true})

	_, err := f.repack.Unpack(ctx)
	require.NoError(t, err)
	assert.True(t, f.mod(t, "broken").Metadata.Active, "unpack leaves the installed state alone")

	result, err := f.patch.Patch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Activated)
	assert.False(t, f.mod(t, "broken").Metadata.Active)
	assert.True(t, f.mod(t, "ui").Metadata.Active)
}

func TestPatch_SeparateFilesRemovesStalePatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.env.Config.Execution.DeployOnSeparateFile = true
	f.addMod("one", 0, map[string]string{"a.uasset": "1"})
	f.addMod("two", 0, map[string]string{"b.uasset": "2"})

	stale := f.installed("pakchunkModManager_gone_P.pak")
	foreign := f.installed("pakchunk0-Windows.pak")
	require.NoError(t, f.env.FS.MkdirAll(f.env.Paths.GamePaksDir(), 0755))
	require.NoError(t, afero.WriteFile(f.env.FS, stale, []byte("old"), 0644))
	require.NoError(t, afero.WriteFile(f.env.FS, foreign, []byte("game"), 0644))

	_, err := f.repack.Unpack(ctx)
	require.NoError(t, err)
	result, err := f.patch.Patch(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{
		f.installed("pakchunkModManager_one_P.pak"),
		f.installed("pakchunkModManager_two_P.pak"),
	}, result.Installed)
	assert.Equal(t, []string{"pakchunkModManager_gone_P.pak"}, result.Removed)
	assert.False(t, f.env.Exists(stale))
	assert.True(t, f.env.Exists(foreign))
}

func TestPatch_GameFolderMissing(t *testing.T) {
	f := newFixture(t)
	f.env.Config.Game.ContentDir = ""
	noGame, err := paths.New(f.env.Config)
	require.NoError(t, err)
	p := patch.New(f.env.FS, f.env.Config, noGame, f.registry, f.repack, f.env.Informer)

	_, err = p.Patch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrGameFolderUnset))
	assert.Equal(t, []informer.Code{informer.PatchGameFolderMissing}, f.env.Informer.Codes())
}

func TestPatch_NothingUnpacked(t *testing.T) {
	f := newFixture(t)

	_, err := f.patch.Patch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStagingMissing))
}

func TestUnpatch_RemovesFilesAndClearsActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addMod("ui", 0, map[string]string{"UI/a.uasset": "a"})

	_, err := f.repack.Unpack(ctx)
	require.NoError(t, err)
	_, err = f.patch.Patch(ctx)
	require.NoError(t, err)
	foreign := f.installed("pakchunk0-Windows.pak")
	require.NoError(t, afero.WriteFile(f.env.FS, foreign, []byte("game"), 0644))

	result, err := f.patch.Unpatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"pakchunkModManager_ModManager_P.pak"}, result.Removed)
	assert.Equal(t, 1, result.Deactivated)
	assert.True(t, f.env.Exists(foreign))

	ui := f.mod(t, "ui")
	assert.False(t, ui.Metadata.Active)
	assert.True(t, ui.Metadata.Unpacked)
	assert.True(t, ui.Metadata.Enabled)
	assert.True(t, f.env.Informer.Has(informer.UnpatchFinished))
}

func TestUnpatch_NothingInstalledChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path := f.env.AddZip(true, "ui.zip", testutil.Content(map[string]string{"a": "a"}))
	f.env.SaveMetadata(path, types.Metadata{Name: "ui", Enabled: true, Valid: true, Unpacked: true, Active: true})

	_, err := f.patch.Unpatch(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoPatchFiles))
	assert.True(t, f.env.Informer.Has(informer.UnpatchNone))
	assert.True(t, f.env.Metadata(path).Active, "no mod is touched")
}

func TestUnpatch_Twice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addMod("ui", 0, map[string]string{"UI/a.uasset": "a"})
	_, err := f.repack.Unpack(ctx)
	require.NoError(t, err)
	_, err = f.patch.Patch(ctx)
	require.NoError(t, err)

	_, err = f.patch.Unpatch(ctx)
	require.NoError(t, err)
	before := f.mod(t, "ui").Metadata

	_, err = f.patch.Unpatch(ctx)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoPatchFiles))
	assert.Equal(t, before, f.mod(t, "ui").Metadata)
}
