// Package render draws resolved layers onto a 2D surface.
package render

import (
	"errors"
	"image/color"
)

// ErrSurfaceUnavailable is returned by a Surface that cannot be drawn on right
// now. Playback retries on the next frame.
var ErrSurfaceUnavailable = errors.New("render: surface unavailable")

// Point is a position in surface coordinates.
type Point struct {
	X, Y float64
}

// Surface is a 2D drawing target. Coordinates are in surface units with the
// origin at the top left. Degenerate shapes (zero radius, zero size) must be
// accepted and draw nothing.
type Surface interface {
	// Clear erases the previous frame.
	Clear() error
	FillCircle(cx, cy, r float64, c color.Color)
	StrokeCircle(cx, cy, r, width float64, c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
	StrokeRect(x, y, w, h, width float64, c color.Color)
	StrokeLine(x0, y0, x1, y1, width float64, c color.Color)
	FillPolygon(pts []Point, c color.Color)
	// DrawText draws text with its baseline at y, anchored at x per align.
	DrawText(text string, x, y float64, f Font, align Align, c color.Color)
}
