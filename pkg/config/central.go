package config

import "runtime"

// Folders holds the folder locations the core works on. Empty values are
// resolved to XDG defaults by pkg/paths.
type Folders struct {
	Enabled  string `koanf:"enabled" toml:"enabled"`
	Disabled string `koanf:"disabled" toml:"disabled"`
	Profiles string `koanf:"profiles" toml:"profiles"`
	Work     string `koanf:"work" toml:"work"`
}

// Game holds game installation settings
type Game struct {
	// ContentDir is the game's content folder; empty disables patching
	ContentDir string `koanf:"content_dir" toml:"content_dir"`
	// ContentSubpath marks valid content inside an unpacked mod
	ContentSubpath string `koanf:"content_subpath" toml:"content_subpath"`
}

// Packer holds the external pack/unpack tool settings
type Packer struct {
	Folder     string `koanf:"folder" toml:"folder"`
	Executable string `koanf:"executable" toml:"executable"`
	AESKey     string `koanf:"aes_key" toml:"aes_key"`
	Ignore     bool   `koanf:"ignore" toml:"ignore"`
}

// Execution holds the concurrency switches
type Execution struct {
	SingleThread         bool `koanf:"single_thread" toml:"single_thread"`
	MaxWorkers           int  `koanf:"max_workers" toml:"max_workers"`
	DeployOnSeparateFile bool `koanf:"deploy_on_separate_file" toml:"deploy_on_separate_file"`
}

// Config is the main configuration structure
type Config struct {
	Folders   Folders   `koanf:"folders" toml:"folders"`
	Game      Game      `koanf:"game" toml:"game"`
	Packer    Packer    `koanf:"packer" toml:"packer"`
	Execution Execution `koanf:"execution" toml:"execution"`
}

// Workers returns the worker bound for concurrent steps: 1 in single-thread
// mode, otherwise max_workers or one per CPU.
func (c *Config) Workers() int {
	if c.Execution.SingleThread {
		return 1
	}
	if c.Execution.MaxWorkers > 0 {
		return c.Execution.MaxWorkers
	}
	return runtime.NumCPU()
}

// Default returns the configuration built from the embedded defaults only.
func Default() *Config {
	cfg, err := LoadConfiguration(LoadOptions{SkipUserConfig: true, SkipEnv: true})
	if err != nil {
		// The embedded defaults are static; keep a usable fallback anyway.
		return &Config{
			Game:   Game{ContentSubpath: "Game/Content"},
			Packer: Packer{Executable: "repak"},
		}
	}
	return cfg
}
