package modpatch

import (
	"fmt"

	"github.com/arthur-debert/modpatch/internal/version"
	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "modpatch",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	flags.BoolVar(&opts.singleThread, "single-thread", false, MsgFlagSingleThread)
	flags.BoolVar(&opts.separate, "separate", false, MsgFlagSeparate)
	flags.StringVar(&opts.format, "format", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "mods", Title: "MODS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "pipeline", Title: "PIPELINE:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(
		newListCmd(opts),
		newAddCmd(opts),
		newEnableCmd(opts, true),
		newEnableCmd(opts, false),
		newDeleteCmd(opts),
		newOrderCmd(opts),
		newTagCmd(opts),
		newLogoCmd(opts),
		newRenameCmd(opts),

		newUnpackCmd(opts),
		newPackCmd(opts),
		newPatchCmd(opts),
		newUnpatchCmd(opts),
		newApplyCmd(opts),
		newWatchCmd(opts),

		newProfileCmd(opts),
		newDoctorCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
		newCompletionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "modpatch version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(modpatch completion bash)

Zsh:
  $ modpatch completion zsh > "${fpath[1]}/_modpatch"

Fish:
  $ modpatch completion fish | source

PowerShell:
  PS> modpatch completion powershell | Out-String | Invoke-Expression
`,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
