package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/dynfinder/repository"
)

// newInitCmd: dynfinder init
func newInitCmd(opts *options) *cobra.Command {
	var (
		cfgFile string
		force   bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a sample repository descriptor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfigurationFile(cfgFile, force); err != nil {
				opts.logger.Error("Error initializing config file", zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created/updated: %s\n", cfgFile)
			return nil
		},
	}

	initCmd.Flags().StringVarP(&cfgFile, "config", "c", repository.DefaultConfigFile, "Path of the descriptor to write")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing descriptor")

	return initCmd
}

func initConfigurationFile(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite it", path)
		}
	}
	return repository.Sample().Save(path)
}
