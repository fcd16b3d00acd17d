package session

import "github.com/alecthomas/participle/v2/lexer"

// Script is a parsed session: one statement per action, run in order.
type Script struct {
	Statements []*Statement `@@*`
}

// Statement is one line of a session script.
type Statement struct {
	Pos lexer.Position

	Container *ContainerStmt `  "container" @@`
	Image     *ImageStmt     `| "image" @@`
	Load      *LoadStmt      `| "load" @@`
	Fail      *FailStmt      `| "fail" @@`
	Preload   *PreloadStmt   `| "preload" @@`
	Wheel     *WheelStmt     `| "wheel" @@`
	Pointer   *PointerStmt   `| @@`
	Key       *KeyStmt       `| "key" @@`
	Cmd       *CmdStmt       `| "cmd" @@`
	Sync      *SyncStmt      `| "sync" @@`
	Transform *TransformStmt `| "transform" @@`
	Wait      *WaitStmt      `| "wait" @@`
	Expect    *ExpectStmt    `| "expect" @@`
	Print     *PrintStmt     `| "print" @@`
}

// ContainerStmt places a pane's container in window coordinates:
//
//	container left 0 0 800 600
type ContainerStmt struct {
	Pane   string  `@("left" | "right")`
	X      float64 `@Number`
	Y      float64 `@Number`
	Width  float64 `@Number`
	Height float64 `@Number`
}

// ImageStmt shows an image, with an optional Original size hint:
//
//	image left "42" plain 8000x6000
type ImageStmt struct {
	Pane     string `@("left" | "right")`
	Identity string `@(String | Ident | Number)`
	Mode     string `@("plain" | "annotated")?`
	Hint     string `@Dims?`
}

// LoadStmt reports that the host decoded a tier:
//
//	load left large 2000x1500
type LoadStmt struct {
	Pane string `@("left" | "right")`
	Tier string `@("screen" | "large" | "original")`
	Size string `@Dims`
}

// FailStmt reports that the host could not load a tier.
type FailStmt struct {
	Pane string `@("left" | "right")`
	Tier string `@("screen" | "large" | "original")`
}

// PreloadStmt resolves a pending Original preload. The request defaults to
// the pane's current image; "for" names an earlier one:
//
//	preload left ok 8000x6000
//	preload left fail
//	preload left ok 8000x6000 for "42"
type PreloadStmt struct {
	Pane     string `@("left" | "right")`
	Outcome  string `@("ok" | "fail")`
	Size     string `@Dims?`
	Identity string `("for" @(String | Ident | Number))?`
}

// WheelStmt scrolls over a pane; the position defaults to its center:
//
//	wheel left -120 at 400 300
type WheelStmt struct {
	Pane  string  `@("left" | "right")`
	Delta float64 `@Number`
	At    *Coord  `("at" @@)?`
}

// PointerStmt is a primary-button press, motion or release.
type PointerStmt struct {
	Kind string `@("down" | "move" | "up")`
	Pane string `@("left" | "right")`
	At   Coord  `@@`
}

// Coord is a window position.
type Coord struct {
	X float64 `@Number`
	Y float64 `@Number`
}

// KeyStmt presses a key with optional modifiers:
//
//	key left "+" shift
type KeyStmt struct {
	Pane      string   `@("left" | "right")`
	Key       string   `@String`
	Modifiers []string `@("shift" | "ctrl" | "alt" | "meta")*`
}

// CmdStmt runs a toolbar command: zoom-in, zoom-out, fit, 100, reset.
type CmdStmt struct {
	Pane string `@("left" | "right")`
	Name string `@(Ident | Number)`
}

// SyncStmt toggles sync mode:
//
//	sync on left
//	sync off
type SyncStmt struct {
	State  string `@("on" | "off")`
	Leader string `@("left" | "right")?`
}

// TransformStmt forces a pane's transform.
type TransformStmt struct {
	Pane    string  `@("left" | "right")`
	Scale   float64 `@Number`
	OffsetX float64 `@Number`
	OffsetY float64 `@Number`
}

// WaitStmt advances virtual time.
type WaitStmt struct {
	Duration string `@Duration`
}

// ExpectStmt asserts pane state, or that both transforms are equal:
//
//	expect left state SwitchingToOriginal
//	expect right scale 0.1933
//	expect equal
type ExpectStmt struct {
	Equal    bool   `  @"equal"`
	Pane     string `| @("left" | "right")`
	Property string `  @Ident`
	Value    string `  @(Number | Ident | String | Dims)`
}

// PrintStmt writes a pane's status line to the trace.
type PrintStmt struct {
	Pane string `@("left" | "right")`
}
