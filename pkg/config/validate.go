package config

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modpatch/pkg/errors"
)

// Validate rejects configurations the core cannot work with.
func Validate(cfg *Config) error {
	if cfg.Execution.MaxWorkers < 0 {
		return errors.Newf(errors.ErrConfigValid, "execution.max_workers must be >= 0, got %d", cfg.Execution.MaxWorkers)
	}
	sub := strings.TrimSpace(cfg.Game.ContentSubpath)
	if sub == "" {
		return errors.New(errors.ErrConfigValid, "game.content_subpath must not be empty")
	}
	if filepath.IsAbs(sub) || strings.HasPrefix(filepath.ToSlash(filepath.Clean(sub)), "../") {
		return errors.Newf(errors.ErrConfigValid, "game.content_subpath must be relative, got %q", sub)
	}
	if strings.TrimSpace(cfg.Packer.Executable) == "" {
		return errors.New(errors.ErrConfigValid, "packer.executable must not be empty")
	}
	return nil
}
