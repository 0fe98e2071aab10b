package modpatch

import (
	"fmt"
	"os"

	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/spf13/cobra"
)

func newProfileCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Short:   MsgProfileShort,
		GroupID: "mods",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: MsgProfileListShort,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd, opts)
				if err != nil {
					return err
				}
				all, err := a.profiles.All()
				if err != nil {
					return err
				}
				return a.renderer.RenderProfiles(all)
			},
		},
		&cobra.Command{
			Use:   "create <name> [mods...]",
			Short: MsgProfileCreateShort,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd, opts)
				if err != nil {
					return err
				}
				selected := args[1:]
				if len(selected) == 0 {
					mods, err := a.registry.All(cmd.Context(), true)
					if err != nil {
						return err
					}
					for _, m := range mods {
						if m.Metadata.Enabled {
							selected = append(selected, m.ID())
						}
					}
				}
				p, err := a.profiles.Create(args[0], selected)
				if err != nil {
					return err
				}
				return a.renderer.RenderMessage(fmt.Sprintf(MsgProfileCreated, p.Name))
			},
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: MsgProfileDeleteShort,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd, opts)
				if err != nil {
					return err
				}
				p, err := a.profiles.Find(args[0])
				if err != nil {
					return err
				}
				if err := a.profiles.Delete(p); err != nil {
					return err
				}
				return a.renderer.RenderMessage(fmt.Sprintf(MsgProfileDeleted, p.Name))
			},
		},
		&cobra.Command{
			Use:   "load <name>",
			Short: MsgProfileLoadShort,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd, opts)
				if err != nil {
					return err
				}
				p, err := a.profiles.Find(args[0])
				if err != nil {
					return err
				}
				result, err := a.profiles.Load(cmd.Context(), p)
				if err != nil {
					return err
				}
				for _, failed := range result.Failed {
					_ = a.renderer.RenderError(fmt.Errorf("%s: %w", failed.Item.DisplayName(), failed.Err))
				}
				return a.renderer.RenderMessage(fmt.Sprintf(MsgProfileLoadDiff,
					len(result.Enabled), len(result.Disabled), len(result.Failed)))
			},
		},
		&cobra.Command{
			Use:   "current",
			Short: MsgProfileCurrentShort,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd, opts)
				if err != nil {
					return err
				}
				p, err := a.profiles.Current(cmd.Context())
				if err != nil {
					return err
				}
				return a.renderer.RenderProfiles([]*types.Profile{p})
			},
		},
		&cobra.Command{
			Use:   "export <name>",
			Short: MsgProfileExportShort,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd, opts)
				if err != nil {
					return err
				}
				p, err := a.profiles.Find(args[0])
				if err != nil {
					return err
				}
				return a.profiles.Export(cmd.OutOrStdout(), p)
			},
		},
		&cobra.Command{
			Use:   "import <file>",
			Short: MsgProfileImportShort,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd, opts)
				if err != nil {
					return err
				}
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", args[0])
				}
				defer f.Close()
				p, err := a.profiles.Import(f)
				if err != nil {
					return err
				}
				return a.renderer.RenderMessage(fmt.Sprintf(MsgProfileCreated, p.Name))
			},
		},
	)
	return cmd
}
