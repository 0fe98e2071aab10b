package modpatch

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/modpatch/pkg/config"
	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/filesystem"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var force bool

	initCmd := &cobra.Command{
		Use:   "init",
		Short: MsgConfigInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configFile
			if path == "" {
				path = config.DefaultConfigPath()
			}
			fs := filesystem.NewOS()
			if filesystem.Exists(fs, path) && !force {
				return errors.Newf(errors.ErrFileCreate, MsgErrConfigExists, path)
			}
			if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(path))
			}
			if err := filesystem.AtomicWrite(fs, path, []byte(config.GenerateConfigContent()), 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten+"\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: MsgConfigShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return config.WriteTOML(cmd.OutOrStdout(), cfg)
		},
	}

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
	}
	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
