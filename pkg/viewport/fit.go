package viewport

import "math"

// Fit returns the scale at which an image of the given natural size fits
// inside container after subtracting padding from both dimensions. The
// result is not capped at 1, so small images are scaled up to fill the
// view. Unknown or degenerate sizes yield 1.
func Fit(container, natural Size, padding float64) float64 {
	if !container.Valid() || !natural.Valid() {
		return 1
	}
	if !finite(padding) || padding < 0 {
		padding = 0
	}
	availW := container.Width - padding
	availH := container.Height - padding
	if availW <= 0 || availH <= 0 {
		return 1
	}
	return math.Min(availW/natural.Width, availH/natural.Height)
}
