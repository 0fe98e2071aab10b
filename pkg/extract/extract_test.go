// pkg/extract/extract_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Memory FS, FakeTool
// PURPOSE: Test archive dispatch, nested paks, tags and failure cleanup

package extract_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/extract"
	"github.com/arthur-debert/modpatch/pkg/packer"
	"github.com/arthur-debert/modpatch/pkg/testutil"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMod(env *testutil.Env, path string) *types.Mod {
	info := types.NewFileInfo(path, env.Paths.ExtractDir())
	return &types.Mod{File: info, Metadata: types.SeedMetadata(info, true)}
}

func newExtractor(env *testutil.Env, tool packer.Packer) *extract.Extractor {
	return extract.New(env.FS, tool, testutil.ContentSubpath)
}

func TestExtract_ZipWithContent(t *testing.T) {
	env := testutil.NewEnv(t)
	path := env.AddZip(true, "Better UI.zip", testutil.Content(map[string]string{
		"UI/hud.uasset":       "hud",
		"Movies/intro.bk2":    "intro",
		"Maps/level.umap":     "map",
		"UI/fonts/main.ufont": "font",
	}))

	result, err := newExtractor(env, env.Tool).Extract(context.Background(), newMod(env, path))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(env.Paths.ExtractDir(), "Better UI"), result.StagingDir)
	assert.Equal(t, []string{
		"Game/Content/Maps/level.umap",
		"Game/Content/Movies/intro.bk2",
		"Game/Content/UI/fonts/main.ufont",
		"Game/Content/UI/hud.uasset",
	}, result.FilePaths)
	assert.Equal(t, []string{"compressed", "UI", "Movies"}, result.SystemTags)
	assert.Empty(t, env.Tool.Unpacked())
}

func TestExtract_ZipWithNestedPak(t *testing.T) {
	env := testutil.NewEnv(t)
	inner := testutil.ZipBytes(t, testutil.Content(map[string]string{
		"Characters/hero.uasset": "hero",
	}))
	path := env.AddZip(true, "Heroes.zip", map[string]string{
		"readme.txt":           "hi",
		"Paks/Heroes_P.pak":    string(inner),
		"Paks/more/Extra_P.pak": string(testutil.ZipBytes(t, testutil.Content(map[string]string{
			"UI/extra.uasset": "extra",
		}))),
	})

	result, err := newExtractor(env, env.Tool).Extract(context.Background(), newMod(env, path))
	require.NoError(t, err)

	assert.Len(t, env.Tool.Unpacked(), 2)
	assert.Contains(t, result.FilePaths, "Game/Content/Characters/hero.uasset")
	assert.Contains(t, result.FilePaths, "Game/Content/UI/extra.uasset")
	for _, f := range result.FilePaths {
		assert.NotEqual(t, ".pak", filepath.Ext(f), "pak %s should be removed", f)
	}
	assert.Equal(t, []string{"compressed", "UI", "Characters"}, result.SystemTags)
}

func TestExtract_ZipWithoutContent(t *testing.T) {
	env := testutil.NewEnv(t)
	path := env.AddZip(true, "junk.zip", map[string]string{"readme.txt": "nothing here"})
	mod := newMod(env, path)

	_, err := newExtractor(env, env.Tool).Extract(context.Background(), mod)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExtractNoContent))
	assert.False(t, env.Exists(mod.File.StagingPath))
}

func TestExtract_CorruptZip(t *testing.T) {
	env := testutil.NewEnv(t)
	path := env.ModPath(true, "broken.zip")
	require.NoError(t, env.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(env.FS, path, []byte("not a zip"), 0644))

	_, err := newExtractor(env, env.Tool).Extract(context.Background(), newMod(env, path))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExtractArchive))
}

func TestExtract_Pak(t *testing.T) {
	env := testutil.NewEnv(t)
	path := env.AddPak(false, "Skins_P.pak", testutil.Content(map[string]string{
		"Characters/skin.uasset": "skin",
	}))
	mod := newMod(env, path)

	result, err := newExtractor(env, env.Tool).Extract(context.Background(), mod)
	require.NoError(t, err)

	assert.Equal(t, mod.File.StagingPath, result.StagingDir)
	assert.Equal(t, []string{"Game/Content/Characters/skin.uasset"}, result.FilePaths)
	assert.Equal(t, []string{"pak", "Characters"}, result.SystemTags)
	assert.Equal(t, []string{mod.File.StagingPath + ".pak"}, env.Tool.Unpacked())
	assert.False(t, env.Exists(mod.File.StagingPath+".pak"), "working copy must be removed")
	assert.True(t, env.Exists(path), "original archive must stay")
}

func TestExtract_PakToolFailure(t *testing.T) {
	env := testutil.NewEnv(t)
	path := env.AddPak(true, "Skins_P.pak", testutil.Content(map[string]string{"a.uasset": "a"}))
	mod := newMod(env, path)
	tool := &testutil.MockPacker{}

	_, err := newExtractor(env, tool).Extract(context.Background(), mod)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPackerFailed))
	assert.False(t, env.Exists(mod.File.StagingPath+".pak"))
	assert.False(t, env.Exists(mod.File.StagingPath))
}

func TestExtract_UnsupportedHasNoSideEffects(t *testing.T) {
	env := testutil.NewEnv(t)
	path := env.ModPath(true, "notes.txt")
	require.NoError(t, env.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(env.FS, path, []byte("text"), 0644))

	_, err := newExtractor(env, env.Tool).Extract(context.Background(), newMod(env, path))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExtractUnsupported))
	assert.False(t, env.Exists(env.Paths.ExtractDir()))
	assert.True(t, env.Exists(path))
}

func TestExtract_IsRestartable(t *testing.T) {
	env := testutil.NewEnv(t)
	path := env.AddZip(true, "ui.zip", testutil.Content(map[string]string{"UI/a.uasset": "a"}))
	mod := newMod(env, path)
	extractor := newExtractor(env, env.Tool)

	first, err := extractor.Extract(context.Background(), mod)
	require.NoError(t, err)

	stale := filepath.Join(mod.File.StagingPath, "stale.txt")
	require.NoError(t, afero.WriteFile(env.FS, stale, []byte("old"), 0644))

	second, err := extractor.Extract(context.Background(), mod)
	require.NoError(t, err)
	assert.Equal(t, first.FilePaths, second.FilePaths)
	assert.False(t, env.Exists(stale))
}
