package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/modpatch/pkg/config"
	"github.com/arthur-debert/modpatch/pkg/errors"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for modpatch
	EnvDataDir = "MODPATCH_DATA_DIR"

	// EnvCacheDir overrides the XDG cache directory for modpatch
	EnvCacheDir = "MODPATCH_CACHE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories. These define the internal work layout and are NOT
// user-configurable; user-facing folders live in pkg/config.
const (
	// AppDirName is the directory name for modpatch-specific files
	AppDirName = "modpatch"

	// ModsDirName groups the enabled/disabled folders under the data dir
	ModsDirName = "mods"

	// EnabledDirName is the default enabled-mods folder name
	EnabledDirName = "enabled"

	// DisabledDirName is the default disabled-mods folder name
	DisabledDirName = "disabled"

	// ProfilesDirName is the default profiles folder name
	ProfilesDirName = "profiles"

	// ExtractDirName holds per-mod extraction staging
	ExtractDirName = "extract"

	// MergeDirName is the merged content tree handed to the packer
	MergeDirName = "ModManager"

	// PaksDirName is the pak folder inside the game content folder
	PaksDirName = "Paks"
)

// Paths provides centralized path management for modpatch
type Paths interface {
	EnabledDir() string
	DisabledDir() string
	ModDir(enabled bool) string
	ProfilesDir() string
	WorkDir() string
	ExtractDir() string
	MergeDir() string
	GameContentDir() string
	GamePaksDir() string
	PackerFolder() string
	PackerExecutable() string
}

type paths struct {
	enabled      string
	disabled     string
	profiles     string
	work         string
	gameContent  string
	packerFolder string
	packerExe    string
}

// New resolves every folder from cfg. Empty folders fall back to XDG
// locations; all results are absolute.
func New(cfg *config.Config) (Paths, error) {
	dataDir := filepath.Join(xdg.DataHome, AppDirName)
	if dir := os.Getenv(EnvDataDir); dir != "" {
		dataDir = expandHome(dir)
	}
	cacheDir := filepath.Join(xdg.CacheHome, AppDirName)
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		cacheDir = expandHome(dir)
	}

	p := &paths{
		enabled:      orDefault(cfg.Folders.Enabled, filepath.Join(dataDir, ModsDirName, EnabledDirName)),
		disabled:     orDefault(cfg.Folders.Disabled, filepath.Join(dataDir, ModsDirName, DisabledDirName)),
		profiles:     orDefault(cfg.Folders.Profiles, filepath.Join(dataDir, ProfilesDirName)),
		work:         orDefault(cfg.Folders.Work, cacheDir),
		gameContent:  expandHome(cfg.Game.ContentDir),
		packerFolder: expandHome(cfg.Packer.Folder),
	}

	for _, field := range []*string{&p.enabled, &p.disabled, &p.profiles, &p.work, &p.gameContent, &p.packerFolder} {
		if *field == "" {
			continue
		}
		abs, err := filepath.Abs(*field)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", *field)
		}
		*field = abs
	}

	if p.enabled == p.disabled {
		return nil, errors.Newf(errors.ErrConfigValid, "enabled and disabled folders must differ (%s)", p.enabled)
	}

	p.packerExe = executableName(cfg.Packer.Executable)
	return p, nil
}

func (p *paths) EnabledDir() string  { return p.enabled }
func (p *paths) DisabledDir() string { return p.disabled }
func (p *paths) ProfilesDir() string { return p.profiles }
func (p *paths) WorkDir() string     { return p.work }

// ModDir returns the enabled or disabled folder.
func (p *paths) ModDir(enabled bool) string {
	if enabled {
		return p.enabled
	}
	return p.disabled
}

// ExtractDir is the root of the per-mod staging directories.
func (p *paths) ExtractDir() string {
	return filepath.Join(p.work, ExtractDirName)
}

// MergeDir is the merged tree handed to the packer.
func (p *paths) MergeDir() string {
	return filepath.Join(p.work, MergeDirName)
}

// GameContentDir is empty when no game folder is configured.
func (p *paths) GameContentDir() string {
	return p.gameContent
}

// GamePaksDir is empty when no game folder is configured.
func (p *paths) GamePaksDir() string {
	if p.gameContent == "" {
		return ""
	}
	return filepath.Join(p.gameContent, PaksDirName)
}

// PackerFolder is empty when no tool folder is configured.
func (p *paths) PackerFolder() string {
	return p.packerFolder
}

// PackerExecutable is the full tool path, or empty without a tool folder.
func (p *paths) PackerExecutable() string {
	if p.packerFolder == "" {
		return ""
	}
	return filepath.Join(p.packerFolder, p.packerExe)
}

func executableName(name string) string {
	if runtime.GOOS == "windows" && !strings.EqualFold(filepath.Ext(name), ".exe") {
		return name + ".exe"
	}
	return name
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return expandHome(value)
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}
	}

	return path
}
