package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psfguard/psfview/pkg/tier"
)

var (
	urlsServer string
	urlsMode   string
)

var urlsCmd = &cobra.Command{
	Use:   "urls <image-id>",
	Short: "Print the URL of every tier of an image",
	Long: `Print the server URL of each resolution tier (screen, large, original)
of an image, in plain and annotated display modes.

Examples:
  psfview urls 1042
  psfview urls 1042 --mode annotated --server http://nas.local:3000`,
	Args: cobra.ExactArgs(1),
	RunE: runURLs,
}

func init() {
	rootCmd.AddCommand(urlsCmd)
	urlsCmd.Flags().StringVar(&urlsServer, "server", "", "server base URL (overrides config)")
	urlsCmd.Flags().StringVar(&urlsMode, "mode", "", "plain or annotated (default: both)")
}

func runURLs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if urlsServer != "" {
		cfg.Server.BaseURL = urlsServer
	}
	resolver, err := cfg.Resolver()
	if err != nil {
		return err
	}

	modes := []tier.DisplayMode{tier.Plain, tier.Annotated}
	if urlsMode != "" {
		m, err := tier.ParseDisplayMode(urlsMode)
		if err != nil {
			return err
		}
		modes = []tier.DisplayMode{m}
	}

	out := cmd.OutOrStdout()
	for _, m := range modes {
		fmt.Fprintf(out, "%s:\n", m)
		for _, t := range tier.All() {
			bound := "unbounded"
			if limit, ok := tier.MaxDimension(t); ok {
				bound = fmt.Sprintf("%dpx", limit)
			}
			fmt.Fprintf(out, "  %-9s %-10s %s\n", t, bound, resolver.URL(args[0], t, m))
		}
	}
	return nil
}
