package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flynn-ai/baymax/internal/config"
	"github.com/flynn-ai/baymax/internal/errors"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil && !initForce {
			return errors.NewBuilder(errors.CodeConfigInvalid, "config file already exists: "+cfgFile).
				User().
				WithSuggestion("Pass --force to overwrite it").
				Build()
		}
		if err := config.Default().Save(cfgFile); err != nil {
			return errors.Wrap(err, errors.CodeConfigInvalid, "cannot write config "+cfgFile, errors.CategorySystem)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgFile)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}
