package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/psfguard/psfview/internal/config"
	"github.com/psfguard/psfview/internal/logging"
)

// version is set at build time with -ldflags "-X ...cmd.version=...".
var version = "dev"

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "psfview",
	Short: "psfview - side-by-side viewer for PSF Guard exposures",
	Long: `psfview compares two astronomical exposures served by a PSF Guard server.
Each pane starts on a downscaled tier and switches to the full resolution
original once it is zoomed past 100%, keeping the picture still.

Examples:
  psfview ui --left 1042 --right 1043 --sync    # Launch the viewer
  psfview fit --container 800x600 --image 4000x3000
  psfview urls 1042                             # Print tier URLs
  psfview replay session.psfs                   # Replay a scripted session
  psfview snapshot --image m31.tif --zoom 100 --out m31.png`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
			logging.SetLogger(slog.New(h))
		} else {
			logging.SetLogger(nil)
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default: search psfview/config.toml)")
}

// loadConfig loads the configuration selected by --config or the search path.
func loadConfig() (*config.Config, error) {
	return config.NewLoader(version, configPath).Load()
}
