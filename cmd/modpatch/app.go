package modpatch

import (
	"github.com/arthur-debert/modpatch/pkg/config"
	"github.com/arthur-debert/modpatch/pkg/datastore"
	"github.com/arthur-debert/modpatch/pkg/extract"
	"github.com/arthur-debert/modpatch/pkg/filesystem"
	"github.com/arthur-debert/modpatch/pkg/informer"
	"github.com/arthur-debert/modpatch/pkg/lifecycle"
	"github.com/arthur-debert/modpatch/pkg/logging"
	"github.com/arthur-debert/modpatch/pkg/packer"
	"github.com/arthur-debert/modpatch/pkg/patch"
	"github.com/arthur-debert/modpatch/pkg/paths"
	"github.com/arthur-debert/modpatch/pkg/profiles"
	"github.com/arthur-debert/modpatch/pkg/registry"
	"github.com/arthur-debert/modpatch/pkg/repack"
	"github.com/arthur-debert/modpatch/pkg/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	verbosity    int
	configFile   string
	singleThread bool
	separate     bool
	format       string
}

// app holds the wired components for one command invocation.
type app struct {
	cfg       *config.Config
	paths     paths.Paths
	fs        afero.Fs
	tool      *packer.Tool
	registry  *registry.Registry
	lifecycle *lifecycle.Manager
	repack    *repack.Orchestrator
	patch     *patch.Orchestrator
	profiles  *profiles.Manager
	informer  informer.Informer
	renderer  ui.Renderer
}

func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	overrides := map[string]interface{}{}
	if cmd.Flags().Changed("single-thread") {
		overrides["execution.single_thread"] = opts.singleThread
	}
	if cmd.Flags().Changed("separate") {
		overrides["execution.deploy_on_separate_file"] = opts.separate
	}
	cfg, err := config.LoadConfiguration(config.LoadOptions{
		ConfigFile: opts.configFile,
		Overrides:  overrides,
	})
	if err != nil {
		return nil, err
	}
	config.Initialize(cfg)
	return cfg, nil
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	p, err := paths.New(cfg)
	if err != nil {
		return nil, err
	}

	format, err := ui.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}
	out := cmd.OutOrStdout()
	renderer, err := ui.NewRenderer(format, out)
	if err != nil {
		return nil, err
	}

	inf := informer.NewLog(logging.GetLogger("informer"))
	if format == ui.FormatTerminal || (format == ui.FormatAuto && ui.IsTerminal(out)) {
		inf = informer.NewConsole(out)
	}

	fs := filesystem.NewOS()
	store := datastore.New(fs)
	tool := packer.New(fs, packer.OptionsFrom(cfg, p))
	ext := extract.New(fs, tool, cfg.Game.ContentSubpath)
	reg := registry.New(fs, p, store, cfg.Workers())
	if err := reg.EnsureFolders(); err != nil {
		return nil, err
	}
	lc := lifecycle.New(fs, p, reg, ext, inf)
	rp := repack.New(fs, cfg, p, reg, ext, tool, inf)

	return &app{
		cfg:       cfg,
		paths:     p,
		fs:        fs,
		tool:      tool,
		registry:  reg,
		lifecycle: lc,
		repack:    rp,
		patch:     patch.New(fs, cfg, p, reg, rp, inf),
		profiles:  profiles.New(fs, p, reg, lc, cfg.Workers(), inf),
		informer:  inf,
		renderer:  renderer,
	}, nil
}
