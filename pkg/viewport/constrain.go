package viewport

// Constrain clamps a proposed offset for an image of the given natural size
// drawn at scale inside container.
//
// Each axis is handled on its own. When the scaled image fits, it is
// centered on that axis. Otherwise the offset is clamped to
// [container - scaled - m, m] with m = overscroll * scaled, which allows a
// small pull past either edge.
func Constrain(offset Point, scale float64, natural, container Size, overscroll float64) Point {
	if !natural.Valid() || !container.Valid() || !positive(scale) {
		return Point{}
	}
	if !finite(overscroll) || overscroll < 0 {
		overscroll = 0
	}
	return Point{
		X: constrainAxis(offset.X, natural.Width*scale, container.Width, overscroll),
		Y: constrainAxis(offset.Y, natural.Height*scale, container.Height, overscroll),
	}
}

func constrainAxis(offset, scaled, container, overscroll float64) float64 {
	if scaled <= container {
		return (container - scaled) / 2
	}
	margin := overscroll * scaled
	lo := container - scaled - margin
	hi := margin
	if !finite(offset) {
		return (container - scaled) / 2
	}
	if offset < lo {
		return lo
	}
	if offset > hi {
		return hi
	}
	return offset
}
