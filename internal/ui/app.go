package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sort"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/oligo/gioview/theme"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/psfguard/psfview/internal/logging"
	"github.com/psfguard/psfview/pkg/compare"
	"github.com/psfguard/psfview/pkg/eventloop"
	"github.com/psfguard/psfview/pkg/input"
	"github.com/psfguard/psfview/pkg/pane"
	"github.com/psfguard/psfview/pkg/resolution"
	"github.com/psfguard/psfview/pkg/tier"
	"github.com/psfguard/psfview/pkg/viewport"
)

// Options selects what the viewer opens with.
type Options struct {
	Left, Right string // image identities; either may be empty
	Mode        tier.DisplayMode
	Sync        bool

	Engine   *pane.Config
	Resolver tier.Resolver
	Fetcher  tier.Fetcher // Original preloads
	Loader   ImageLoader  // displayed tiers
}

type toolButton struct {
	cmd   input.Command
	desc  string
	icon  *widget.Icon
	click widget.Clickable
}

// App drives the Gio-based comparison viewer.
type App struct {
	Window *app.Window
	Theme  *theme.Theme
	State  *AppState

	ops  op.Ops
	ctx  context.Context
	stop context.CancelFunc
	log  *slog.Logger

	loop   *eventloop.Queue
	coord  *compare.Coordinator
	views  [2]*paneView
	loader ImageLoader
	opts   Options

	started   bool
	active    compare.ID
	topHeight int

	tools     []*toolButton
	syncBool  widget.Bool
	leaderBtn widget.Clickable
	keys      input.KeyMap
}

// New wires the Gio window, theme, engine and shared state together.
func New(window *app.Window, state *AppState, opts Options) *App {
	if state == nil {
		state = NewState()
	}
	ctx, stop := context.WithCancel(context.Background())
	a := &App{
		Window: window,
		Theme:  theme.NewTheme("", nil, true),
		State:  state,
		ctx:    ctx,
		stop:   stop,
		log:    logging.For("ui"),
		loader: opts.Loader,
		opts:   opts,
		keys:   input.DefaultKeyMap(),
	}
	a.loop = eventloop.NewQueue(a.invalidate)

	store := tier.NewCanonicalStore(0)
	for _, id := range []compare.ID{compare.Left, compare.Right} {
		v := &paneView{id: id}
		v.pane = pane.New(id.String(), pane.Deps{
			Context:    ctx,
			Dispatcher: a.loop,
			Container:  viewport.ContainerFunc(v.container),
			Resolver:   opts.Resolver,
			Fetcher:    opts.Fetcher,
			Canonical:  store,
			KeyMap:     a.keys,
		}, opts.Engine)
		v.pane.OnState(func(s resolution.State) {
			a.State.SetStatus(fmt.Sprintf("%s: %s", v.id, s))
			a.State.Logf("[%s] %s", v.id, s)
		})
		a.views[id] = v
	}
	a.coord = compare.New(a.views[compare.Left].pane, a.views[compare.Right].pane)
	a.syncBool.Value = opts.Sync
	a.initTools()
	return a
}

// Run processes Gio events until the window is closed.
func (a *App) Run() error {
	defer a.stop()
	for {
		e := a.Window.Event()
		switch ev := e.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&a.ops, ev)
			a.layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}

func (a *App) initTools() {
	makeIcon := func(data []byte, name string) *widget.Icon {
		icon, err := widget.NewIcon(data)
		if err != nil {
			a.log.Warn("failed to load icon", "name", name, "err", err)
			return nil
		}
		return icon
	}
	a.tools = []*toolButton{
		{cmd: input.CommandZoomIn, desc: "Zoom in", icon: makeIcon(icons.ActionZoomIn, "zoom-in")},
		{cmd: input.CommandZoomOut, desc: "Zoom out", icon: makeIcon(icons.ActionZoomOut, "zoom-out")},
		{cmd: input.CommandZoomToFit, desc: "Fit", icon: makeIcon(icons.NavigationFullscreen, "fit")},
		{cmd: input.CommandZoomTo100, desc: "100%", icon: makeIcon(icons.ImageCropOriginal, "100")},
		{cmd: input.CommandResetZoom, desc: "Reset", icon: makeIcon(icons.ActionAutorenew, "reset")},
	}
}

// start sets the initial images once both containers have a size.
func (a *App) start() {
	a.started = true
	if a.opts.Left != "" {
		a.views[compare.Left].pane.SetImage(a.opts.Left, a.opts.Mode, tier.Dimensions{})
	}
	if a.opts.Right != "" {
		a.views[compare.Right].pane.SetImage(a.opts.Right, a.opts.Mode, tier.Dimensions{})
	}
	if a.opts.Sync {
		a.coord.SetSync(true, compare.Left)
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	a.loop.Drain()
	state := a.State.Snapshot()

	paint.FillShape(gtx.Ops, a.Theme.Palette.Bg, clip.Rect{Max: gtx.Constraints.Max}.Op())

	dims := layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			dims := a.layoutTopBar(gtx)
			a.topHeight = dims.Size.Y
			return dims
		}),
		layout.Flexed(1, a.layoutPanes),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.layoutStatus(gtx, state)
		}),
	)
	a.handleKeys(gtx)
	a.loop.Drain()
	a.requestTiers()
	return dims
}

func (a *App) layoutTopBar(gtx layout.Context) layout.Dimensions {
	for _, tb := range a.tools {
		for tb.click.Clicked(gtx) {
			a.coord.Command(a.active, tb.cmd)
			a.invalidate()
		}
	}
	if a.syncBool.Update(gtx) {
		a.coord.SetSync(a.syncBool.Value, a.coord.Leader())
		a.State.Logf("[SYNC] %v (leader %s)", a.syncBool.Value, a.coord.Leader())
	}
	for a.leaderBtn.Clicked(gtx) {
		a.coord.SetSync(a.coord.Sync(), a.coord.Leader().Other())
		a.State.Logf("[SYNC] leader %s", a.coord.Leader())
	}

	children := []layout.FlexChild{
		layout.Rigid(material.H6(a.Theme.Theme, "PSF Compare").Layout),
		layout.Rigid(layout.Spacer{Width: unit.Dp(16)}.Layout),
	}
	for _, tb := range a.tools {
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if tb.icon == nil {
				btn := material.Button(a.Theme.Theme, &tb.click, tb.desc)
				btn.Inset = layout.UniformInset(unit.Dp(6))
				return btn.Layout(gtx)
			}
			btn := material.IconButton(a.Theme.Theme, &tb.click, tb.icon, tb.desc)
			btn.Size = unit.Dp(20)
			btn.Inset = layout.UniformInset(unit.Dp(6))
			return btn.Layout(gtx)
		}), layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout))
	}
	children = append(children,
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions { return layout.Dimensions{} }),
		layout.Rigid(material.Body2(a.Theme.Theme, "Sync").Layout),
		layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout),
		layout.Rigid(material.Switch(a.Theme.Theme, &a.syncBool, "Sync").Layout),
		layout.Rigid(layout.Spacer{Width: unit.Dp(12)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			btn := material.Button(a.Theme.Theme, &a.leaderBtn, fmt.Sprintf("Leader: %s", a.coord.Leader()))
			btn.Inset = layout.UniformInset(unit.Dp(6))
			return btn.Layout(gtx)
		}),
	)

	return layout.Inset{
		Top: unit.Dp(8), Bottom: unit.Dp(8), Left: unit.Dp(16), Right: unit.Dp(16),
	}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx, children...)
	})
}

// layoutPanes splits the area between the two panes. Pane rectangles are
// recorded in window coordinates; the top bar is laid out first, so its
// height is known.
func (a *App) layoutPanes(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	gap := gtx.Dp(unit.Dp(4))
	half := (size.X - gap) / 2

	for i, v := range a.views {
		v.rect = viewport.Rect{
			X:      float64(i * (half + gap)),
			Y:      float64(a.topHeight),
			Width:  float64(half),
			Height: float64(size.Y),
		}
	}
	if !a.started && half > 0 && size.Y > 0 {
		a.start()
	}

	for i, v := range a.views {
		if v.handlePointer(gtx, a.coord) {
			a.active = compare.ID(i)
		}
	}

	for i, v := range a.views {
		stack := op.Offset(image.Pt(i*(half+gap), 0)).Push(gtx.Ops)
		pgtx := gtx
		pgtx.Constraints = layout.Exact(image.Pt(half, size.Y))
		v.layout(pgtx, a.Theme.Theme, a.active == compare.ID(i))
		stack.Pop()
	}
	return layout.Dimensions{Size: size}
}

func (a *App) handleKeys(gtx layout.Context) {
	names := make([]string, 0, len(a.keys))
	for name := range a.keys {
		names = append(names, name)
	}
	sort.Strings(names)
	filters := make([]event.Filter, 0, len(names))
	for _, name := range names {
		filters = append(filters, key.Filter{Name: key.Name(name), Optional: key.ModShift | key.ModCtrl | key.ModAlt | key.ModSuper | key.ModCommand})
	}
	for {
		ev, ok := gtx.Event(filters...)
		if !ok {
			break
		}
		if e, ok := ev.(key.Event); ok && e.State == key.Press {
			a.coord.ApplyInput(a.active, input.Key(string(e.Name), modifiers(e.Modifiers)))
			a.invalidate()
		}
	}
}

// requestTiers starts loading every tier a pane displays but the host has
// not decoded yet.
func (a *App) requestTiers() {
	if a.loader == nil {
		return
	}
	for _, v := range a.views {
		url := v.wantURL()
		if url == "" {
			continue
		}
		v.requested = url
		t := v.pane.DisplayTier()
		a.State.SetStatus(fmt.Sprintf("Loading %s %s", v.id, t))
		a.State.Logf("[LOAD] %s %s", v.id, url)
		a.loader.Load(a.ctx, url, func(img image.Image, err error) {
			a.loop.Post(func() {
				if err := v.loaded(url, t, img, err); err != nil {
					a.State.SetStatus(fmt.Sprintf("%s: %s failed", v.id, t))
					a.State.SetError(err)
					a.State.Logf("[ERROR] %v", err)
					return
				}
				if v.shownURL == url {
					a.State.SetStatus(fmt.Sprintf("%s: %s ready", v.id, t))
				}
			})
		})
	}
}

func (a *App) layoutStatus(gtx layout.Context, state StateSnapshot) layout.Dimensions {
	syncLabel := "Sync: off"
	if a.coord.Sync() {
		syncLabel = fmt.Sprintf("Sync: on (leader %s)", a.coord.Leader())
	}
	errLabel := ""
	if state.LastError != nil && !errors.Is(state.LastError, context.Canceled) {
		errLabel = fmt.Sprintf("Error: %v", state.LastError)
	}
	lastLog := ""
	if n := len(state.Logs); n > 0 {
		lastLog = state.Logs[n-1]
	}

	return layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			paint.FillShape(gtx.Ops, color.NRGBA{R: 230, G: 234, B: 244, A: 255}, clip.Rect{Max: gtx.Constraints.Max}.Op())
			return layout.Dimensions{Size: gtx.Constraints.Max}
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			inset := layout.Inset{Left: unit.Dp(16), Right: unit.Dp(16), Top: unit.Dp(6), Bottom: unit.Dp(6)}
			return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
					layout.Rigid(material.Body2(a.Theme.Theme, state.Status).Layout),
					layout.Rigid(layout.Spacer{Width: unit.Dp(18)}.Layout),
					layout.Rigid(material.Body2(a.Theme.Theme, fmt.Sprintf("Version: %s", state.AppVersion)).Layout),
					layout.Rigid(layout.Spacer{Width: unit.Dp(18)}.Layout),
					layout.Rigid(material.Body2(a.Theme.Theme, fmt.Sprintf("Server: %s", state.ServerURL)).Layout),
					layout.Rigid(layout.Spacer{Width: unit.Dp(18)}.Layout),
					layout.Rigid(material.Body2(a.Theme.Theme, syncLabel).Layout),
					layout.Rigid(layout.Spacer{Width: unit.Dp(18)}.Layout),
					layout.Rigid(material.Body2(a.Theme.Theme, errLabel).Layout),
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						return layout.Dimensions{}
					}),
					layout.Rigid(material.Body2(a.Theme.Theme, lastLog).Layout),
				)
			})
		}),
	)
}

func (a *App) invalidate() {
	if a.Window != nil {
		a.Window.Invalidate()
	}
}
