package starfield

import "image/color"

// Surface is a 2D drawing target. Coordinates are in viewport pixels.
type Surface interface {
	Clear()
	FillCircle(x, y, r float64, c color.Color)
	StrokeLine(x0, y0, x1, y1, width float64, c color.Color)
}
