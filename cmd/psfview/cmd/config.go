package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration psfview runs with, as TOML: the file selected by
--config or found in the search path, on top of the built-in defaults.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), cfg.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
