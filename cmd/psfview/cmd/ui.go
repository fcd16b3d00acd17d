package cmd

import (
	"github.com/spf13/cobra"

	"github.com/psfguard/psfview/internal/ui"
	"github.com/psfguard/psfview/pkg/tier"
)

var (
	uiLeft   string
	uiRight  string
	uiMode   string
	uiSync   bool
	uiServer string
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the side-by-side viewer",
	Long: `Launch the Gio viewer with two panes.

Scroll to zoom around the cursor, drag to pan. Keys: + and - zoom, 0 resets,
1 shows 100%, f fits. With sync on, both panes follow the leader pane.

Examples:
  psfview ui --left 1042 --right 1043
  psfview ui --left 1042 --right 1043 --mode annotated --sync`,
	RunE: runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
	uiCmd.Flags().StringVar(&uiLeft, "left", "", "image id shown in the left pane")
	uiCmd.Flags().StringVar(&uiRight, "right", "", "image id shown in the right pane")
	uiCmd.Flags().StringVar(&uiMode, "mode", "plain", "plain or annotated")
	uiCmd.Flags().BoolVar(&uiSync, "sync", false, "start with sync mode on (overrides config)")
	uiCmd.Flags().StringVar(&uiServer, "server", "", "server base URL (overrides config)")
}

func runUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if uiServer != "" {
		cfg.Server.BaseURL = uiServer
	}
	engine, err := cfg.Engine()
	if err != nil {
		return err
	}
	resolver, err := cfg.Resolver()
	if err != nil {
		return err
	}
	mode, err := tier.ParseDisplayMode(uiMode)
	if err != nil {
		return err
	}

	state := ui.NewState()
	state.SetAppVersion(version)
	state.SetServerURL(cfg.Server.BaseURL)

	timeout := cfg.Server.Timeout.Duration
	return ui.Run(state, ui.WindowSize{Width: cfg.UI.Width, Height: cfg.UI.Height}, ui.Options{
		Left:     uiLeft,
		Right:    uiRight,
		Mode:     mode,
		Sync:     uiSync || cfg.UI.Sync,
		Engine:   engine,
		Resolver: resolver,
		Fetcher:  tier.NewHTTPFetcher(timeout),
		Loader:   ui.NewHTTPLoader(timeout),
	})
}
