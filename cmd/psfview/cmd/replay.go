package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psfguard/psfview/pkg/session"
)

var replayQuiet bool

var replayCmd = &cobra.Command{
	Use:   "replay <script>",
	Short: "Replay a scripted viewer session headless",
	Long: `Replay a session script against two headless panes on virtual time.
Scripts set container geometry and images, resolve preloads, send wheel,
drag, key and toolbar input, toggle sync mode, wait, and assert on the
resulting state with expect statements.

Example script:
  image left "1042" plain 8000x6000
  transform left 4.4 -500 -400
  preload left ok 8000x6000
  expect left state SwitchingToOriginal
  wait 300ms
  expect left state Original
  print left`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVarP(&replayQuiet, "quiet", "q", false, "suppress print output")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := cfg.Engine()
	if err != nil {
		return err
	}
	resolver, err := cfg.Resolver()
	if err != nil {
		return err
	}

	parser, err := session.NewParser()
	if err != nil {
		return err
	}
	script, err := parser.ParseFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	trace := out
	if replayQuiet {
		trace = nil
	}
	runner := session.NewRunner(engine, resolver, trace)
	if err := runner.Run(script); err != nil {
		return err
	}
	fmt.Fprintf(out, "ok: %d statements\n", len(script.Statements))
	return nil
}
