package render

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/matt-g-everett/vistx/anim"
	"github.com/matt-g-everett/vistx/spec"
)

// ErrBuiltinType is returned when registering a drawer for a built-in shape.
var ErrBuiltinType = errors.New("render: cannot replace a built-in layer type")

const (
	DefaultLineWidth = 2.0
	// ArrowHead is the length of each arrowhead barb.
	ArrowHead = 12.0
	// ArrowSpread is the angle of each barb away from the shaft, in radians.
	ArrowSpread = 0.4
)

// CustomFunc draws a registered layer type. It receives only the surface and
// the elapsed playback time.
type CustomFunc func(s Surface, elapsedMs float64)

// Renderer draws layers. The zero value draws the built-in shapes; custom
// layer types must be registered before playback starts.
type Renderer struct {
	custom map[spec.LayerType]CustomFunc
	logger *slog.Logger
}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	r := new(Renderer)
	r.custom = make(map[spec.LayerType]CustomFunc)
	r.logger = slog.Default().With("component", "render")
	return r
}

// Register installs fn as the drawer for layers of type t.
func (r *Renderer) Register(t spec.LayerType, fn CustomFunc) error {
	if t.Builtin() {
		return fmt.Errorf("%w: %q", ErrBuiltinType, t)
	}
	if r.custom == nil {
		r.custom = make(map[spec.LayerType]CustomFunc)
	}
	r.custom[t] = fn
	return nil
}

// RenderFrame clears s and draws every layer of sp resolved at t, in order.
// The only error is a surface that cannot be cleared.
func (r *Renderer) RenderFrame(s Surface, sp *spec.Spec, t float64) error {
	if err := s.Clear(); err != nil {
		return err
	}
	if sp == nil {
		return nil
	}
	for _, l := range sp.Layers {
		if fn, ok := r.custom[l.Type]; ok {
			r.runCustom(fn, s, l, t)
			continue
		}
		r.Render(s, l, anim.Resolve(l, t))
	}
	return nil
}

func (r *Renderer) runCustom(fn CustomFunc, s Surface, l spec.Layer, t float64) {
	defer func() {
		if rec := recover(); rec != nil {
			logger := r.logger
			if logger == nil {
				logger = slog.Default()
			}
			logger.Warn("custom layer panicked", "layer", l.ID, "type", l.Type, "panic", rec)
		}
	}()
	fn(s, t)
}

// Render draws one built-in layer with already resolved props. It does not
// clear the surface. Unknown types draw nothing.
func (r *Renderer) Render(s Surface, layer spec.Layer, p spec.Props) {
	opacity := p.Opacity.Or(1)
	fill := Paint(p.Color.Val, DefaultFill, opacity)
	width := p.LineWidth.Or(DefaultLineWidth)
	if width <= 0 || math.IsNaN(width) {
		width = DefaultLineWidth
	}
	x, y := p.X.Or(0), p.Y.Or(0)

	switch layer.Type {
	case spec.Circle:
		radius := math.Max(0, p.R.Or(0))
		s.FillCircle(x, y, radius, fill)
		if outlined(p) {
			s.StrokeCircle(x, y, radius, width, Paint(p.Stroke.Val, DefaultStroke, opacity))
		}

	case spec.Rect:
		w, h := p.W.Or(0), p.H.Or(0)
		if w < 0 {
			x, w = x+w, -w
		}
		if h < 0 {
			y, h = y+h, -h
		}
		s.FillRect(x, y, w, h, fill)
		if outlined(p) {
			s.StrokeRect(x, y, w, h, width, Paint(p.Stroke.Val, DefaultStroke, opacity))
		}

	case spec.Arrow:
		dx, dy := p.DX.Or(0), p.DY.Or(0)
		tip := Point{X: x + dx, Y: y + dy}
		s.StrokeLine(x, y, tip.X, tip.Y, width, Paint(p.Stroke.Val, DefaultStroke, opacity))
		s.FillPolygon(ArrowHeadPoints(x, y, dx, dy), fill)

	case spec.Text:
		if !p.Text.Ok || p.Text.Val == "" {
			return
		}
		font := ParseFont(p.Font.Or(DefaultFont))
		s.DrawText(p.Text.Val, x, y, font, ParseAlign(p.Align.Val), Paint(p.Color.Val, DefaultText, opacity))
	}
}

// outlined reports whether a circle or rect gets an outline. Empty, zero and
// false strokes count as no stroke.
func outlined(p spec.Props) bool {
	if !p.Stroke.Ok {
		return false
	}
	switch p.Stroke.Val {
	case "", "0", "false":
		return false
	}
	return true
}

// ArrowHeadPoints returns the tip and the two barb ends of an arrow from
// (x, y) along (dx, dy).
func ArrowHeadPoints(x, y, dx, dy float64) []Point {
	angle := math.Atan2(dy, dx)
	tip := Point{X: x + dx, Y: y + dy}
	return []Point{
		tip,
		{X: tip.X - ArrowHead*math.Cos(angle-ArrowSpread), Y: tip.Y - ArrowHead*math.Sin(angle-ArrowSpread)},
		{X: tip.X - ArrowHead*math.Cos(angle+ArrowSpread), Y: tip.Y - ArrowHead*math.Sin(angle+ArrowSpread)},
	}
}
