package repack

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/arthur-debert/modpatch/pkg/config"
	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/extract"
	"github.com/arthur-debert/modpatch/pkg/filesystem"
	"github.com/arthur-debert/modpatch/pkg/informer"
	"github.com/arthur-debert/modpatch/pkg/logging"
	"github.com/arthur-debert/modpatch/pkg/packer"
	"github.com/arthur-debert/modpatch/pkg/paths"
	"github.com/arthur-debert/modpatch/pkg/registry"
	"github.com/arthur-debert/modpatch/pkg/runner"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Extractor extracts one mod into its staging directory.
type Extractor interface {
	Extract(ctx context.Context, mod *types.Mod) (*extract.Result, error)
}

// Orchestrator runs the unpack and pack phases.
type Orchestrator struct {
	fs        afero.Fs
	cfg       *config.Config
	paths     paths.Paths
	registry  *registry.Registry
	extractor Extractor
	tool      packer.Packer
	informer  informer.Informer
	logger    zerolog.Logger
}

// New creates an Orchestrator.
func New(fs afero.Fs, cfg *config.Config, p paths.Paths, reg *registry.Registry, ext Extractor, tool packer.Packer, inf informer.Informer) *Orchestrator {
	if inf == nil {
		inf = informer.Nop
	}
	return &Orchestrator{
		fs:        fs,
		cfg:       cfg,
		paths:     p,
		registry:  reg,
		extractor: ext,
		tool:      tool,
		informer:  inf,
		logger:    logging.GetLogger("repack"),
	}
}

// ModOutcome is the unpack result of one mod.
type ModOutcome struct {
	Mod *types.Mod
	Err error
}

// UnpackResult summarizes an unpack run.
type UnpackResult struct {
	RunID    string
	Outcomes []ModOutcome
	Reset    int
	Elapsed  time.Duration
}

// Unpacked counts the mods that were unpacked.
func (r *UnpackResult) Unpacked() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the outcomes that carry an error.
func (r *UnpackResult) Failed() []ModOutcome {
	var failed []ModOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// PackResult summarizes a pack run.
type PackResult struct {
	RunID     string
	Artifacts []string
	Failed    []string
	Elapsed   time.Duration
}

// CheckTool verifies the packer tool and reports the first missing
// precondition through the informer.
func (o *Orchestrator) CheckTool() error {
	err := o.tool.Available()
	if err == nil {
		return nil
	}
	code := informer.ToolMissing
	switch errors.GetErrorCode(err) {
	case errors.ErrPackerDisabled:
		code = informer.ToolDisabled
	case errors.ErrPackerFolderMissing:
		code = informer.ToolFolderMissing
	}
	informer.Inform(o.informer, code, nil)
	return err
}

func (o *Orchestrator) runLogger() (string, zerolog.Logger) {
	runID := uuid.NewString()
	return runID, o.logger.With().Str("run", runID).Logger()
}

// Unpack extracts every valid, enabled mod and merges it into the merge root.
func (o *Orchestrator) Unpack(ctx context.Context) (*UnpackResult, error) {
	if err := o.CheckTool(); err != nil {
		return nil, err
	}
	runID, logger := o.runLogger()
	start := time.Now()
	informer.Inform(o.informer, informer.UnpackStarted, nil)

	if err := filesystem.RecreateDir(o.fs, o.paths.ExtractDir()); err != nil {
		return nil, err
	}
	if err := filesystem.ClearDir(o.fs, o.paths.MergeDir()); err != nil {
		return nil, err
	}

	mods, err := o.registry.All(ctx, true)
	if err != nil {
		return nil, err
	}

	var set, inactive []*types.Mod
	for _, m := range mods {
		if m.Metadata.Valid && m.Metadata.Enabled {
			set = append(set, m)
		} else {
			inactive = append(inactive, m)
		}
	}

	reset, elapsed := o.reset(ctx, inactive)
	informer.Inform(o.informer, informer.UnpackCleanup, informer.Params{
		informer.ParamCount:   reset,
		informer.ParamElapsed: elapsed,
	})

	if len(set) == 0 {
		informer.Inform(o.informer, informer.UnpackNothing, nil)
		return nil, errors.New(errors.ErrNothingToUnpack, "no valid enabled mods to unpack")
	}

	workers := o.cfg.Workers()
	logger.Info().Int("mods", len(set)).Int("workers", workers).Msg("Unpacking mods")

	results := runner.ForEachGroup(ctx, set,
		func(m *types.Mod) int { return m.Metadata.Order },
		workers,
		func(ctx context.Context, m *types.Mod) error { return o.unpackOne(ctx, logger, m) })

	result := &UnpackResult{RunID: runID, Reset: reset, Elapsed: time.Since(start)}
	for _, r := range results {
		result.Outcomes = append(result.Outcomes, ModOutcome{Mod: r.Item, Err: r.Err})
	}

	logger.Info().
		Int("unpacked", result.Unpacked()).
		Int("failed", len(result.Failed())).
		Dur("elapsed", result.Elapsed).
		Msg("Unpack finished")
	informer.Inform(o.informer, informer.UnpackFinished, informer.Params{
		informer.ParamCount:   result.Unpacked(),
		informer.ParamElapsed: result.Elapsed,
	})
	return result, nil
}

// reset clears Unpacked on mods that will not take part in the run. Active
// is left alone: the installed patch still carries their content until the
// next patch or unpatch.
func (o *Orchestrator) reset(ctx context.Context, mods []*types.Mod) (int, time.Duration) {
	start := time.Now()
	var changed runner.Collector[string]
	runner.ForEach(ctx, mods, o.cfg.Workers(), func(_ context.Context, m *types.Mod) error {
		if !m.Metadata.Unpacked {
			return nil
		}
		m.Metadata.Unpacked = false
		if err := o.registry.Save(m); err != nil {
			o.logger.Warn().Err(err).Str("mod", m.ID()).Msg("Failed to reset mod")
			return err
		}
		changed.Add(m.ID())
		return nil
	})
	return len(changed.Values()), time.Since(start)
}

func (o *Orchestrator) unpackOne(ctx context.Context, logger zerolog.Logger, m *types.Mod) error {
	result, err := o.extractor.Extract(ctx, m)
	if err != nil {
		m.Metadata.Unpacked = false
		if saveErr := o.registry.Save(m); saveErr != nil {
			logger.Warn().Err(saveErr).Str("mod", m.ID()).Msg("Failed to persist unpack failure")
		}
		logger.Warn().Err(err).Str("mod", m.ID()).Msg("Skipping mod")
		informer.Inform(o.informer, informer.UnpackModFailed, informer.Params{
			informer.ParamName:   m.ID(),
			informer.ParamReason: err.Error(),
		})
		return err
	}
	defer func() { _ = o.fs.RemoveAll(result.StagingDir) }()

	m.Metadata.Unpacked = true
	m.Metadata.FilePaths = result.FilePaths
	m.Metadata.SystemTags = result.SystemTags
	if err := o.registry.Save(m); err != nil {
		return err
	}

	dst := o.paths.MergeDir()
	if o.cfg.Execution.DeployOnSeparateFile {
		dst = filepath.Join(dst, m.ID())
	}
	stats, err := filesystem.Merge(o.fs, result.StagingDir, dst, true)
	if err != nil {
		return err
	}

	logger.Debug().
		Str("mod", m.ID()).
		Int("order", m.Metadata.Order).
		Int("files", stats.Copied).
		Int("failed", stats.Failed).
		Msg("Merged mod")
	informer.Inform(o.informer, informer.UnpackModDone, informer.Params{informer.ParamName: m.ID()})
	return nil
}

// Pack packs the merge root, or each of its subfolders when deploying on
// separate files, and returns the produced artifacts.
func (o *Orchestrator) Pack(ctx context.Context) (*PackResult, error) {
	if err := o.CheckTool(); err != nil {
		return nil, err
	}
	runID, logger := o.runLogger()
	start := time.Now()

	root := o.paths.MergeDir()
	if !filesystem.IsDir(o.fs, root) {
		informer.Inform(o.informer, informer.PackStagingMissing, nil)
		return nil, errors.Newf(errors.ErrStagingMissing, "merge root %s does not exist", root)
	}
	informer.Inform(o.informer, informer.PackStarted, nil)

	folders := []string{root}
	if o.cfg.Execution.DeployOnSeparateFile {
		entries, err := afero.ReadDir(o.fs, root)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", root)
		}
		folders = folders[:0]
		for _, entry := range entries {
			if entry.IsDir() {
				folders = append(folders, filepath.Join(root, entry.Name()))
			}
		}
	}

	var artifacts, failed runner.Collector[string]
	runner.ForEach(ctx, folders, o.cfg.Workers(), func(ctx context.Context, folder string) error {
		artifact, ok := o.tool.Pack(ctx, folder)
		if !ok || artifact == "" {
			failed.Add(folder)
			informer.Inform(o.informer, informer.PackFolderFailed, informer.Params{
				informer.ParamName: filepath.Base(folder),
			})
			return errors.Newf(errors.ErrPackerFailed, "failed to pack %s", folder)
		}
		artifacts.Add(artifact)
		return nil
	})

	result := &PackResult{
		RunID:     runID,
		Artifacts: artifacts.Values(),
		Failed:    failed.Values(),
		Elapsed:   time.Since(start),
	}
	sort.Strings(result.Artifacts)
	sort.Strings(result.Failed)
	logger.Info().
		Strs("artifacts", result.Artifacts).
		Int("failed", len(result.Failed)).
		Dur("elapsed", result.Elapsed).
		Msg("Pack finished")
	informer.Inform(o.informer, informer.PackFinished, informer.Params{
		informer.ParamCount:   len(result.Artifacts),
		informer.ParamElapsed: result.Elapsed,
	})
	return result, nil
}
