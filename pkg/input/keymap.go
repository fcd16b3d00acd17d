package input

// KeyMap binds key names to commands.
type KeyMap map[string]Command

// DefaultKeyMap returns the viewer's standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		"+": CommandZoomIn,
		"=": CommandZoomIn,
		"-": CommandZoomOut,
		"_": CommandZoomOut,
		"0": CommandResetZoom,
		"1": CommandZoomTo100,
		"f": CommandZoomToFit,
		"F": CommandZoomToFit,
	}
}

// Lookup returns the command bound to name. Chords with Ctrl or Meta belong
// to the host (browser zoom, window shortcuts) and never match.
func (m KeyMap) Lookup(name string, mods Modifiers) (Command, bool) {
	if mods&(ModCtrl|ModMeta) != 0 {
		return 0, false
	}
	c, ok := m[name]
	return c, ok
}
