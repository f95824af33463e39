package render

import (
	"fmt"
	"image/color"
)

// Op is one call recorded by a Recorder.
type Op struct {
	Name  string
	Args  []float64
	Text  string
	Font  Font
	Align Align
	Color color.Color
}

func (o Op) String() string {
	if o.Text != "" {
		return fmt.Sprintf("%s(%q %v)", o.Name, o.Text, o.Args)
	}
	return fmt.Sprintf("%s%v", o.Name, o.Args)
}

// Recorder is a Surface that records draw calls instead of drawing. Clear
// returns Err when it is set, and otherwise starts a new frame.
type Recorder struct {
	Ops    []Op
	Clears int
	Err    error
}

func (r *Recorder) add(name string, c color.Color, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args, Color: c})
}

func (r *Recorder) Clear() error {
	if r.Err != nil {
		return r.Err
	}
	r.Clears++
	r.Ops = r.Ops[:0]
	return nil
}

func (r *Recorder) FillCircle(cx, cy, radius float64, c color.Color) {
	r.add("FillCircle", c, cx, cy, radius)
}

func (r *Recorder) StrokeCircle(cx, cy, radius, width float64, c color.Color) {
	r.add("StrokeCircle", c, cx, cy, radius, width)
}

func (r *Recorder) FillRect(x, y, w, h float64, c color.Color) {
	r.add("FillRect", c, x, y, w, h)
}

func (r *Recorder) StrokeRect(x, y, w, h, width float64, c color.Color) {
	r.add("StrokeRect", c, x, y, w, h, width)
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	r.add("StrokeLine", c, x0, y0, x1, y1, width)
}

func (r *Recorder) FillPolygon(pts []Point, c color.Color) {
	args := make([]float64, 0, len(pts)*2)
	for _, p := range pts {
		args = append(args, p.X, p.Y)
	}
	r.add("FillPolygon", c, args...)
}

func (r *Recorder) DrawText(text string, x, y float64, f Font, align Align, c color.Color) {
	r.Ops = append(r.Ops, Op{Name: "DrawText", Args: []float64{x, y}, Text: text, Font: f, Align: align, Color: c})
}

// Names lists the recorded call names in order.
func (r *Recorder) Names() []string {
	out := make([]string, len(r.Ops))
	for i, o := range r.Ops {
		out[i] = o.Name
	}
	return out
}
