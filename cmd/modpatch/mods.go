package modpatch

import (
	"context"
	"fmt"
	"strconv"

	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/spf13/cobra"
)

// modNamesCompletion completes mod IDs from the registry.
func modNamesCompletion(opts *rootOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		a, err := newApp(cmd, opts)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		mods, err := a.registry.All(cmd.Context(), false)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		names := make([]string, 0, len(mods))
		for _, m := range mods {
			names = append(names, m.ID())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}

// eachMod resolves every name and calls fn for it. All names are tried;
// the first error is returned after the rest were processed.
func (a *app) eachMod(ctx context.Context, names []string, fn func(*types.Mod) error) error {
	var first error
	for _, name := range names {
		m, err := a.registry.Find(ctx, name)
		if err == nil {
			err = fn(m)
		}
		if err != nil {
			_ = a.renderer.RenderError(err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgListShort,
		GroupID: "mods",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			mods, err := a.registry.All(cmd.Context(), true)
			if err != nil {
				return err
			}
			if tag != "" {
				filtered := mods[:0]
				for _, m := range mods {
					if m.HasTag(tag) {
						filtered = append(filtered, m)
					}
				}
				mods = filtered
			}
			return a.renderer.RenderMods(mods)
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "Only list mods carrying this tag")
	return cmd
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "add <file>...",
		Short:   MsgAddShort,
		GroupID: "mods",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			var first error
			added := 0
			for _, src := range args {
				if _, err := a.lifecycle.Add(cmd.Context(), src); err != nil {
					_ = a.renderer.RenderError(err)
					if first == nil {
						first = err
					}
					continue
				}
				added++
			}
			_ = a.renderer.RenderMessage(fmt.Sprintf(MsgModsAdded, added))
			return first
		},
	}
}

func newEnableCmd(opts *rootOptions, enable bool) *cobra.Command {
	use, short := "enable <mod>...", MsgEnableShort
	if !enable {
		use, short = "disable <mod>...", MsgDisableShort
	}
	return &cobra.Command{
		Use:               use,
		Short:             short,
		GroupID:           "mods",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: modNamesCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.eachMod(cmd.Context(), args, func(m *types.Mod) error {
				_, err := a.lifecycle.SetEnabled(cmd.Context(), m, enable)
				return err
			})
		},
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "delete <mod>...",
		Aliases:           []string{"rm"},
		Short:             MsgDeleteShort,
		GroupID:           "mods",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: modNamesCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.eachMod(cmd.Context(), args, func(m *types.Mod) error {
				return a.lifecycle.Delete(cmd.Context(), m)
			})
		},
	}
}

func newOrderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "order <mod> <n>",
		Short:             MsgOrderShort,
		GroupID:           "mods",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: modNamesCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrapf(err, errors.ErrInvalidInput, "invalid order %q", args[1])
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.eachMod(cmd.Context(), args[:1], func(m *types.Mod) error {
				updated, err := a.lifecycle.SetOrder(m, order)
				if err != nil {
					return err
				}
				return a.renderer.RenderMessage(fmt.Sprintf(MsgOrderSet, updated.DisplayName(), updated.Metadata.Order))
			})
		},
	}
}

func newTagCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "tag <mod> [tags...]",
		Short:             MsgTagShort,
		GroupID:           "mods",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: modNamesCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.eachMod(cmd.Context(), args[:1], func(m *types.Mod) error {
				updated, err := a.lifecycle.SetTags(m, args[1:])
				if err != nil {
					return err
				}
				return a.renderer.RenderMessage(fmt.Sprintf(MsgTagsSet, updated.DisplayName(), updated.Metadata.Tags))
			})
		},
	}
}

func newLogoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "logo <mod> <image>",
		Short:             MsgLogoShort,
		GroupID:           "mods",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: modNamesCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.eachMod(cmd.Context(), args[:1], func(m *types.Mod) error {
				updated, err := a.lifecycle.SetLogo(m, args[1])
				if err != nil {
					return err
				}
				if !updated.HasLogo() {
					return a.renderer.RenderMessage(fmt.Sprintf(MsgLogoCleared, updated.DisplayName()))
				}
				return a.renderer.RenderMessage(fmt.Sprintf(MsgLogoSet, updated.DisplayName(), updated.LogoPath()))
			})
		},
	}
}

func newRenameCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "rename <mod> <name>",
		Short:             MsgRenameShort,
		GroupID:           "mods",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: modNamesCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.eachMod(cmd.Context(), args[:1], func(m *types.Mod) error {
				updated, err := a.lifecycle.SetName(m, args[1])
				if err != nil {
					return err
				}
				return a.renderer.RenderMessage(fmt.Sprintf(MsgRenamed, updated.ID(), updated.Metadata.Name))
			})
		},
	}
}
