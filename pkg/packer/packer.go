package packer

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/modpatch/pkg/config"
	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/filesystem"
	"github.com/arthur-debert/modpatch/pkg/logging"
	"github.com/arthur-debert/modpatch/pkg/paths"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// PakExtension is the extension of packed artifacts.
const PakExtension = ".pak"

// Packer is the contract the pipelines use to reach the external tool.
type Packer interface {
	// Available checks, in order, that the tool is not disabled, that its
	// folder is configured and exists, and that the executable is inside it.
	Available() error

	// Unpack unpacks file and returns the output folder.
	Unpack(ctx context.Context, file string) (string, bool)

	// Pack packs folder and returns the produced <folder>.pak.
	Pack(ctx context.Context, folder string) (string, bool)
}

// Options configures a Tool.
type Options struct {
	Folder         string
	Executable     string
	AESKey         string
	Ignore         bool
	ContentSubpath string
	Timeout        time.Duration
}

// OptionsFrom builds Options from the configuration and resolved paths.
func OptionsFrom(cfg *config.Config, p paths.Paths) Options {
	return Options{
		Folder:         p.PackerFolder(),
		Executable:     p.PackerExecutable(),
		AESKey:         cfg.Packer.AESKey,
		Ignore:         cfg.Packer.Ignore,
		ContentSubpath: cfg.Game.ContentSubpath,
	}
}

// Tool runs the external executable.
type Tool struct {
	fs     afero.Fs
	opts   Options
	logger zerolog.Logger
}

// New creates a Tool. fs is used for availability and output checks and
// must be the filesystem the executable writes to.
func New(fs afero.Fs, opts Options) *Tool {
	return &Tool{
		fs:     fs,
		opts:   opts,
		logger: logging.GetLogger("packer"),
	}
}

func (t *Tool) Available() error {
	if t.opts.Ignore {
		return errors.New(errors.ErrPackerDisabled, "packer tool is disabled by configuration")
	}
	if t.opts.Folder == "" || !filesystem.IsDir(t.fs, t.opts.Folder) {
		return errors.New(errors.ErrPackerFolderMissing, "packer tool folder is not set or does not exist").
			WithDetail("folder", t.opts.Folder)
	}
	if t.opts.Executable == "" || !filesystem.IsFile(t.fs, t.opts.Executable) {
		return errors.New(errors.ErrPackerExecutableMiss, "packer tool executable not found").
			WithDetail("executable", t.opts.Executable)
	}
	return nil
}

func (t *Tool) Unpack(ctx context.Context, file string) (string, bool) {
	out := strings.TrimSuffix(file, filepath.Ext(file))
	if !t.run(ctx, "unpack", file) {
		return out, false
	}

	marker := filepath.Join(out, filepath.FromSlash(t.opts.ContentSubpath))
	if !filesystem.IsDir(t.fs, marker) {
		t.logger.Warn().
			Str("file", file).
			Str("expected", marker).
			Msg("Unpack finished without producing the content folder")
		return out, false
	}
	return out, true
}

func (t *Tool) Pack(ctx context.Context, folder string) (string, bool) {
	folder = strings.TrimRight(folder, `/\`)
	artifact := folder + PakExtension

	if filesystem.Exists(t.fs, artifact) {
		if err := t.fs.Remove(artifact); err != nil {
			t.logger.Error().Err(err).Str("artifact", artifact).Msg("Failed to remove stale artifact")
			return artifact, false
		}
	}

	if !t.run(ctx, "pack", folder) {
		return artifact, false
	}
	if !filesystem.IsFile(t.fs, artifact) {
		t.logger.Warn().Str("folder", folder).Msg("Pack finished without producing an artifact")
		return artifact, false
	}
	return artifact, true
}

func (t *Tool) args(verb, target string) []string {
	args := []string{}
	if t.opts.AESKey != "" {
		args = append(args, "--aes-key", t.opts.AESKey)
	}
	return append(args, verb, target)
}

func (t *Tool) run(ctx context.Context, verb, target string) bool {
	if err := t.Available(); err != nil {
		t.logger.Error().Err(err).Str("verb", verb).Msg("Packer tool unavailable")
		return false
	}

	if t.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, t.opts.Executable, t.args(verb, target)...)
	cmd.Dir = t.opts.Folder
	hideWindow(cmd)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	t.logger.Debug().
		Str("executable", t.opts.Executable).
		Str("verb", verb).
		Str("target", target).
		Msg("Running packer tool")

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		t.logger.Error().
			Err(err).
			Str("verb", verb).
			Str("target", target).
			Str("output", output.String()).
			Dur("elapsed", elapsed).
			Msg("Packer tool failed")
		return false
	}

	t.logger.Trace().
		Str("verb", verb).
		Str("target", target).
		Str("output", output.String()).
		Dur("elapsed", elapsed).
		Msg("Packer tool finished")
	return true
}
