package modpatch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/filesystem"
	"github.com/arthur-debert/modpatch/pkg/logging"
	"github.com/spf13/cobra"
)

// unpack runs the unpack phase and reports per-mod failures.
func (a *app) unpack(ctx context.Context) error {
	result, err := a.repack.Unpack(ctx)
	if err != nil {
		return err
	}
	for _, failed := range result.Failed() {
		_ = a.renderer.RenderError(fmt.Errorf("%s: %w", failed.Mod.DisplayName(), failed.Err))
	}
	return a.renderer.RenderMessage(fmt.Sprintf(MsgUnpackSummary, result.Unpacked(), len(result.Failed())))
}

// apply unpacks and patches.
func (a *app) apply(ctx context.Context) error {
	if err := a.unpack(ctx); err != nil {
		return err
	}
	_, err := a.patch.Patch(ctx)
	return err
}

func newUnpackCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "unpack",
		Short:   MsgUnpackShort,
		GroupID: "pipeline",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.unpack(cmd.Context())
		},
	}
}

func newPackCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "pack",
		Short:   MsgPackShort,
		GroupID: "pipeline",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			result, err := a.repack.Pack(cmd.Context())
			if err != nil {
				return err
			}
			for _, artifact := range result.Artifacts {
				_ = a.renderer.RenderMessage(artifact)
			}
			return a.renderer.RenderMessage(fmt.Sprintf(MsgPackArtifacts, len(result.Artifacts), len(result.Failed)))
		},
	}
}

func newPatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "patch",
		Short:   MsgPatchShort,
		GroupID: "pipeline",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			_, err = a.patch.Patch(cmd.Context())
			return err
		},
	}
}

func newUnpatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "unpatch",
		Short:   MsgUnpatchShort,
		GroupID: "pipeline",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			_, err = a.patch.Unpatch(cmd.Context())
			return err
		},
	}
}

func newApplyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "apply",
		Short:   MsgApplyShort,
		GroupID: "pipeline",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.apply(cmd.Context())
		},
	}
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var noApply bool
	cmd := &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		GroupID: "pipeline",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			logger := logging.GetLogger("cmd.watch")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_ = a.renderer.RenderMessage(fmt.Sprintf(MsgWatching, a.paths.EnabledDir(), a.paths.DisabledDir()))
			err = a.registry.Watch(ctx, func(ctx context.Context, changed []string) {
				logger.Info().Strs("changed", changed).Msg("Mod folders changed")
				mods, err := a.registry.All(ctx, true)
				if err == nil {
					_ = a.renderer.RenderMods(mods)
				}
				if noApply {
					return
				}
				if err := a.apply(ctx); err != nil {
					_ = a.renderer.RenderError(err)
				}
			})
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&noApply, "no-apply", false, MsgFlagNoApply)
	return cmd
}

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "doctor",
		Short:   MsgDoctorShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			checks := []struct {
				name string
				err  error
			}{
				{"enabled folder " + a.paths.EnabledDir(), dirCheck(a, a.paths.EnabledDir())},
				{"disabled folder " + a.paths.DisabledDir(), dirCheck(a, a.paths.DisabledDir())},
				{"game content folder " + a.paths.GameContentDir(), gameCheck(a)},
				{"packer " + a.paths.PackerExecutable(), a.tool.Available()},
			}

			failed := 0
			for _, c := range checks {
				if c.err != nil {
					failed++
					fmt.Fprintf(out, MsgDoctorFail+"\n", c.name, c.err)
					continue
				}
				fmt.Fprintf(out, MsgDoctorOK+"\n", c.name)
			}
			if failed > 0 {
				return errors.Newf(errors.ErrConfigValid, MsgErrDoctor, failed)
			}
			return nil
		},
	}
}

func dirCheck(a *app, dir string) error {
	if !filesystem.IsDir(a.fs, dir) {
		return errors.Newf(errors.ErrFileAccess, "%s is not a directory", dir)
	}
	return nil
}

func gameCheck(a *app) error {
	if a.paths.GameContentDir() == "" {
		return errors.New(errors.ErrGameFolderUnset, "game.content_dir is not set")
	}
	return dirCheck(a, a.paths.GameContentDir())
}
