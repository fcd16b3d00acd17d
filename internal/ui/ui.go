// Package ui is the Gio host of the comparison viewer: it lays out two
// panes, feeds pointer and key input to the engine, downloads the tiers the
// engine selects and draws them under the engine transforms.
package ui

import (
	"os"

	"gioui.org/app"
	"gioui.org/unit"

	"github.com/psfguard/psfview/internal/logging"
)

// WindowSize is the initial window size in dp.
type WindowSize struct {
	Width, Height int
}

// Run launches the Gio UI and blocks until the window closes.
func Run(state *AppState, size WindowSize, opts Options) error {
	if state == nil {
		state = NewState()
	}
	if size.Width <= 0 || size.Height <= 0 {
		size = WindowSize{Width: 1600, Height: 900}
	}

	go func() {
		w := new(app.Window)
		w.Option(app.Title("PSF Compare"), app.Size(unit.Dp(size.Width), unit.Dp(size.Height)))
		ui := New(w, state, opts)
		if err := ui.Run(); err != nil {
			logging.For("ui").Error("window closed", "err", err)
		}
		os.Exit(0)
	}()

	app.Main()
	return nil
}
