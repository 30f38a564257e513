package main

import (
	"fmt"
	"os"

	"GopherWater/internal/config"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	configOut   string
	configForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the demo configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to a YAML file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configOut); err == nil && !configForce {
			return errors.Errorf("%s already exists, use --force to overwrite", configOut)
		}
		if err := config.DefaultConfig().SaveToFile(configOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configOut)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVarP(&configOut, "out", "o", "waterdemo.yaml", "output path")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
}
