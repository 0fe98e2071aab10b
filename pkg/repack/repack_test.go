// pkg/repack/repack_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Memory FS, FakeTool
// PURPOSE: Test unpack ordering, failure handling, cleanup and packing

package repack_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/extract"
	"github.com/arthur-debert/modpatch/pkg/filesystem"
	"github.com/arthur-debert/modpatch/pkg/informer"
	"github.com/arthur-debert/modpatch/pkg/registry"
	"github.com/arthur-debert/modpatch/pkg/repack"
	"github.com/arthur-debert/modpatch/pkg/testutil"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrchestrator(env *testutil.Env) *repack.Orchestrator {
	reg := registry.New(env.FS, env.Paths, env.Store, env.Config.Workers())
	ext := extract.New(env.FS, env.Tool, testutil.ContentSubpath)
	return repack.New(env.FS, env.Config, env.Paths, reg, ext, env.Tool, env.Informer)
}

func addMod(env *testutil.Env, name string, order int, enabled bool, files map[string]string) string {
	path := env.AddZip(enabled, name+".zip", testutil.Content(files))
	env.SaveMetadata(path, types.Metadata{Name: name, Order: order, Enabled: enabled, Valid: true})
	return path
}

func merged(t *testing.T, env *testutil.Env, rel string) string {
	t.Helper()
	data, err := afero.ReadFile(env.FS, filepath.Join(env.Paths.MergeDir(), filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestUnpack_ToolPreconditions(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code informer.Code
	}{
		{"disabled", errors.New(errors.ErrPackerDisabled, "off"), informer.ToolDisabled},
		{"folder", errors.New(errors.ErrPackerFolderMissing, "no folder"), informer.ToolFolderMissing},
		{"executable", errors.New(errors.ErrPackerExecutableMiss, "no exe"), informer.ToolMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewEnv(t)
			path := addMod(env, "a", 0, true, map[string]string{"a": "a"})
			env.Tool.AvailableErr = tt.err

			_, err := newOrchestrator(env).Unpack(context.Background())
			require.Error(t, err)
			assert.Equal(t, errors.GetErrorCode(tt.err), errors.GetErrorCode(err))
			assert.Equal(t, []informer.Code{tt.code}, env.Informer.Codes())
			assert.False(t, env.Exists(env.Paths.ExtractDir()), "nothing is touched")
			assert.False(t, env.Metadata(path).Unpacked)
		})
	}
}

func TestUnpack_NothingToUnpack(t *testing.T) {
	env := testutil.NewEnv(t)
	addMod(env, "off", 0, false, map[string]string{"a": "a"})

	_, err := newOrchestrator(env).Unpack(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNothingToUnpack))
	assert.True(t, env.Informer.Has(informer.UnpackNothing))
}

func TestUnpack_HigherOrderWins(t *testing.T) {
	env := testutil.NewEnv(t)
	addMod(env, "A", 1, true, map[string]string{"shared.uasset": "A", "a.uasset": "a"})
	addMod(env, "B", 1, true, map[string]string{"shared.uasset": "B", "b.uasset": "b"})
	addMod(env, "C", 2, true, map[string]string{"shared.uasset": "C"})

	result, err := newOrchestrator(env).Unpack(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Unpacked())
	assert.Empty(t, result.Failed())
	assert.NotEmpty(t, result.RunID)

	assert.Equal(t, "C", merged(t, env, "Game/Content/shared.uasset"))
	assert.Equal(t, "a", merged(t, env, "Game/Content/a.uasset"))
	assert.Equal(t, "b", merged(t, env, "Game/Content/b.uasset"))
}

func TestUnpack_SingleThreadRunsInOrder(t *testing.T) {
	env := testutil.NewEnv(t)
	env.Config.Execution.SingleThread = true
	addMod(env, "z-first", 0, true, map[string]string{"shared.uasset": "first"})
	addMod(env, "a-last", 5, true, map[string]string{"shared.uasset": "last"})

	result, err := newOrchestrator(env).Unpack(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, "z-first", result.Outcomes[0].Mod.ID())
	assert.Equal(t, "a-last", result.Outcomes[1].Mod.ID())
	assert.Equal(t, "last", merged(t, env, "Game/Content/shared.uasset"))
}

func TestUnpack_FailureDoesNotStopPipeline(t *testing.T) {
	env := testutil.NewEnv(t)
	good := addMod(env, "good", 0, true, map[string]string{"UI/ok.uasset": "ok"})
	bad := env.AddZip(true, "bad.zip", map[string]string{"readme.txt": "no content"})
	env.SaveMetadata(bad, types.Metadata{Name: "bad", Enabled: true, Valid: true, Unpacked: true})

	result, err := newOrchestrator(env).Unpack(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Failed(), 1)
	assert.Equal(t, "bad", result.Failed()[0].Mod.ID())
	assert.True(t, errors.IsErrorCode(result.Failed()[0].Err, errors.ErrExtractNoContent))

	badMeta := env.Metadata(bad)
	assert.False(t, badMeta.Unpacked)
	assert.True(t, badMeta.Valid, "validity is left to enable/disable")

	goodMeta := env.Metadata(good)
	assert.True(t, goodMeta.Unpacked)
	assert.Equal(t, []string{"Game/Content/UI/ok.uasset"}, goodMeta.FilePaths)
	assert.Equal(t, []string{"compressed", "UI"}, goodMeta.SystemTags)

	assert.True(t, env.Informer.Has(informer.UnpackModFailed))
	assert.True(t, env.Informer.Has(informer.UnpackFinished))
}

func TestUnpack_ResetsInactiveMods(t *testing.T) {
	env := testutil.NewEnv(t)
	addMod(env, "on", 0, true, map[string]string{"a": "a"})
	off := env.AddZip(false, "off.zip", testutil.Content(map[string]string{"b": "b"}))
	env.SaveMetadata(off, types.Metadata{Name: "off", Valid: true, Unpacked: true})
	invalid := env.AddZip(true, "invalid.zip", testutil.Content(map[string]string{"c": "c"}))
	env.SaveMetadata(invalid, types.Metadata{Name: "invalid", Enabled: true, Valid: false, Unpacked: true, Active: true})

	result, err := newOrchestrator(env).Unpack(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Reset)
	assert.Equal(t, 1, result.Unpacked())
	assert.False(t, env.Metadata(off).Unpacked)
	assert.False(t, env.Metadata(invalid).Unpacked)
	assert.True(t, env.Metadata(invalid).Active, "still installed until the next patch or unpatch")
	assert.False(t, env.Exists(filepath.Join(env.Paths.MergeDir(), "Game", "Content", "b")))
}

func TestUnpack_ClearsPreviousRun(t *testing.T) {
	env := testutil.NewEnv(t)
	path := addMod(env, "ui", 0, true, map[string]string{"UI/a.uasset": "a"})
	stale := filepath.Join(env.Paths.MergeDir(), "Game", "Content", "old.uasset")
	require.NoError(t, env.FS.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, afero.WriteFile(env.FS, stale, []byte("old"), 0644))

	orch := newOrchestrator(env)
	_, err := orch.Unpack(context.Background())
	require.NoError(t, err)
	first := env.Metadata(path).FilePaths

	_, err = orch.Unpack(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, env.Metadata(path).FilePaths)
	assert.False(t, env.Exists(stale))
	entries, err := afero.ReadDir(env.FS, env.Paths.ExtractDir())
	require.NoError(t, err)
	assert.Empty(t, entries, "per-mod staging is removed after merge")
}

func TestUnpack_SeparateFiles(t *testing.T) {
	env := testutil.NewEnv(t)
	env.Config.Execution.DeployOnSeparateFile = true
	addMod(env, "one", 0, true, map[string]string{"a.uasset": "1"})
	addMod(env, "two", 0, true, map[string]string{"a.uasset": "2"})

	_, err := newOrchestrator(env).Unpack(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1", merged(t, env, "one/Game/Content/a.uasset"))
	assert.Equal(t, "2", merged(t, env, "two/Game/Content/a.uasset"))
}

func TestPack_Single(t *testing.T) {
	env := testutil.NewEnv(t)
	addMod(env, "A", 1, true, map[string]string{"shared.uasset": "A"})
	addMod(env, "C", 2, true, map[string]string{"shared.uasset": "C", "c.uasset": "c"})
	orch := newOrchestrator(env)

	_, err := orch.Unpack(context.Background())
	require.NoError(t, err)
	result, err := orch.Pack(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{env.Paths.MergeDir() + ".pak"}, result.Artifacts)
	files := testutil.ReadZip(t, env.FS, result.Artifacts[0])
	assert.Equal(t, "C", files["Game/Content/shared.uasset"])
	assert.Equal(t, "c", files["Game/Content/c.uasset"])
}

func TestPack_SeparateFiles(t *testing.T) {
	env := testutil.NewEnv(t)
	env.Config.Execution.DeployOnSeparateFile = true
	addMod(env, "one", 0, true, map[string]string{"a.uasset": "1"})
	addMod(env, "two", 0, true, map[string]string{"b.uasset": "2"})
	orch := newOrchestrator(env)

	_, err := orch.Unpack(context.Background())
	require.NoError(t, err)
	result, err := orch.Pack(context.Background())
	require.NoError(t, err)

	root := env.Paths.MergeDir()
	assert.Equal(t, []string{filepath.Join(root, "one.pak"), filepath.Join(root, "two.pak")}, result.Artifacts)
	assert.Equal(t, "2", testutil.ReadZip(t, env.FS, filepath.Join(root, "two.pak"))["Game/Content/b.uasset"])
}

func TestPack_StagingMissing(t *testing.T) {
	env := testutil.NewEnv(t)

	_, err := newOrchestrator(env).Pack(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStagingMissing))
	assert.True(t, env.Informer.Has(informer.PackStagingMissing))
}

func TestPack_ToolFailure(t *testing.T) {
	env := testutil.NewEnv(t)
	require.NoError(t, env.FS.MkdirAll(env.Paths.MergeDir(), 0755))
	reg := registry.New(env.FS, env.Paths, env.Store, 1)
	tool := &testutil.MockPacker{}
	orch := repack.New(env.FS, env.Config, env.Paths, reg, extract.New(env.FS, tool, testutil.ContentSubpath), tool, env.Informer)

	result, err := orch.Pack(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Artifacts)
	assert.Equal(t, []string{env.Paths.MergeDir()}, result.Failed)
	assert.True(t, env.Informer.Has(informer.PackFolderFailed))
	assert.False(t, filesystem.Exists(env.FS, env.Paths.MergeDir()+".pak"))
}
