package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfiguration_Defaults(t *testing.T) {
	cfg, err := LoadConfiguration(LoadOptions{SkipUserConfig: true, SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, "Game/Content", cfg.Game.ContentSubpath)
	assert.Equal(t, "repak", cfg.Packer.Executable)
	assert.False(t, cfg.Packer.Ignore)
	assert.False(t, cfg.Execution.SingleThread)
	assert.False(t, cfg.Execution.DeployOnSeparateFile)
	assert.Empty(t, cfg.Folders.Enabled)
}

func TestLoadConfiguration_FileEnvOverridesLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[folders]
enabled = "/srv/mods/on"
disabled = "/srv/mods/off"

[packer]
folder = "/opt/repak"
aes_key = "0xABC"

[execution]
max_workers = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("MODPATCH_EXECUTION__DEPLOY_ON_SEPARATE_FILE", "true")
	t.Setenv("MODPATCH_GAME__CONTENT_DIR", "/games/pal/Content")

	cfg, err := LoadConfiguration(LoadOptions{
		ConfigFile: path,
		Overrides:  map[string]interface{}{"execution.single_thread": true},
	})
	require.NoError(t, err)

	assert.Equal(t, "/srv/mods/on", cfg.Folders.Enabled)
	assert.Equal(t, "/srv/mods/off", cfg.Folders.Disabled)
	assert.Equal(t, "/opt/repak", cfg.Packer.Folder)
	assert.Equal(t, "0xABC", cfg.Packer.AESKey)
	assert.Equal(t, "repak", cfg.Packer.Executable, "defaults survive partial files")
	assert.Equal(t, 3, cfg.Execution.MaxWorkers)
	assert.True(t, cfg.Execution.DeployOnSeparateFile)
	assert.Equal(t, "/games/pal/Content", cfg.Game.ContentDir)
	assert.True(t, cfg.Execution.SingleThread)
	assert.Equal(t, 1, cfg.Workers())
}

func TestLoadConfiguration_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfiguration(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.toml"), SkipEnv: true})
	assert.Error(t, err)
}

func TestLoadConfiguration_DefaultPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[packer]\nignore = true\n"), 0644))
	t.Setenv(EnvConfigFile, path)

	assert.Equal(t, path, DefaultConfigPath())

	cfg, err := LoadConfiguration(LoadOptions{SkipEnv: true})
	require.NoError(t, err)
	assert.True(t, cfg.Packer.Ignore)
}

func TestLoadConfiguration_InvalidValues(t *testing.T) {
	_, err := LoadConfiguration(LoadOptions{
		SkipUserConfig: true,
		SkipEnv:        true,
		Overrides:      map[string]interface{}{"execution.max_workers": -2},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}
