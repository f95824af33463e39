package render

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/vistx/spec"
)

var (
	defaultFill   = color.NRGBA{R: 0x3a, G: 0x7a, B: 0xfe, A: 255}
	defaultStroke = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func TestRenderCircle(t *testing.T) {
	tests := []struct {
		name  string
		props spec.Props
		want  []string
	}{
		{"fill only", spec.Props{X: spec.Some(1.0), Y: spec.Some(2.0), R: spec.Some(3.0)}, []string{"FillCircle"}},
		{"with stroke", spec.Props{R: spec.Some(3.0), Stroke: spec.Some("#000")}, []string{"FillCircle", "StrokeCircle"}},
		{"missing radius", spec.Props{}, []string{"FillCircle"}},
		{"empty stroke", spec.Props{R: spec.Some(3.0), Stroke: spec.Some("")}, []string{"FillCircle"}},
		{"zero stroke", spec.Props{R: spec.Some(3.0), Stroke: spec.Some("0")}, []string{"FillCircle"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := new(Recorder)
			NewRenderer().Render(rec, spec.Layer{Type: spec.Circle}, tt.props)
			assert.Equal(t, tt.want, rec.Names())
		})
	}
}

func TestRenderFalsyStrokeSkipsOutline(t *testing.T) {
	for _, stroke := range []string{`""`, `0`, `false`} {
		t.Run(stroke, func(t *testing.T) {
			sp, err := spec.Parse([]byte(`{"id":"s","duration":100,"layers":[
				{"id":"c","type":"circle","props":{"x":10,"y":10,"r":5,"stroke":` + stroke + `}},
				{"id":"b","type":"rect","props":{"x":0,"y":0,"w":4,"h":4,"stroke":` + stroke + `}}]}`))
			require.NoError(t, err)

			rec := new(Recorder)
			require.NoError(t, NewRenderer().RenderFrame(rec, sp, 0))
			assert.Equal(t, []string{"FillCircle", "FillRect"}, rec.Names())
		})
	}
}

func TestRenderCircleDefaults(t *testing.T) {
	rec := new(Recorder)
	NewRenderer().Render(rec, spec.Layer{Type: spec.Circle}, spec.Props{X: spec.Some(10.0), Y: spec.Some(20.0), R: spec.Some(-4.0)})

	require.Len(t, rec.Ops, 1)
	assert.Equal(t, []float64{10, 20, 0}, rec.Ops[0].Args, "negative radius draws as an inert zero radius")
	assert.Equal(t, defaultFill, rec.Ops[0].Color)
}

func TestRenderRect(t *testing.T) {
	rec := new(Recorder)
	p := spec.Props{
		X: spec.Some(10.0), Y: spec.Some(10.0), W: spec.Some(-4.0), H: spec.Some(6.0),
		Stroke: spec.Some("red"), LineWidth: spec.Some(0.0), Opacity: spec.Some(0.5),
	}
	NewRenderer().Render(rec, spec.Layer{Type: spec.Rect}, p)

	require.Equal(t, []string{"FillRect", "StrokeRect"}, rec.Names())
	assert.Equal(t, []float64{6, 10, 4, 6}, rec.Ops[0].Args)
	assert.Equal(t, []float64{6, 10, 4, 6, DefaultLineWidth}, rec.Ops[1].Args)
	assert.Equal(t, color.NRGBA{R: 255, A: 128}, rec.Ops[1].Color)
	assert.Equal(t, uint8(128), rec.Ops[0].Color.(color.NRGBA).A)
}

func TestRenderArrow(t *testing.T) {
	rec := new(Recorder)
	p := spec.Props{X: spec.Some(0.0), Y: spec.Some(0.0), DX: spec.Some(100.0), DY: spec.Some(0.0)}
	NewRenderer().Render(rec, spec.Layer{Type: spec.Arrow}, p)

	require.Equal(t, []string{"StrokeLine", "FillPolygon"}, rec.Names())
	assert.Equal(t, []float64{0, 0, 100, 0, DefaultLineWidth}, rec.Ops[0].Args)
	assert.Equal(t, defaultStroke, rec.Ops[0].Color, "shaft falls back to the default stroke")

	head := rec.Ops[1].Args
	require.Len(t, head, 6)
	assert.Equal(t, []float64{100, 0}, head[:2])
	assert.InDelta(t, 100-ArrowHead*math.Cos(0.4), head[2], 1e-9)
	assert.InDelta(t, ArrowHead*math.Sin(0.4), head[3], 1e-9)
	assert.InDelta(t, 100-ArrowHead*math.Cos(0.4), head[4], 1e-9)
	assert.InDelta(t, -ArrowHead*math.Sin(0.4), head[5], 1e-9)
	assert.Equal(t, defaultFill, rec.Ops[1].Color)
}

func TestRenderText(t *testing.T) {
	rec := new(Recorder)
	p := spec.Props{X: spec.Some(5.0), Y: spec.Some(6.0), Text: spec.Some("F = ma"), Align: spec.Some("center")}
	NewRenderer().Render(rec, spec.Layer{Type: spec.Text}, p)

	require.Len(t, rec.Ops, 1)
	op := rec.Ops[0]
	assert.Equal(t, "F = ma", op.Text)
	assert.Equal(t, AlignCenter, op.Align)
	assert.Equal(t, 20.0, op.Font.Size)
	assert.Equal(t, defaultStroke, op.Color, "text defaults to white")
}

func TestRenderTextWithoutText(t *testing.T) {
	rec := new(Recorder)
	NewRenderer().Render(rec, spec.Layer{Type: spec.Text}, spec.Props{X: spec.Some(5.0)})
	assert.Empty(t, rec.Ops)
}

func TestRenderUnknownType(t *testing.T) {
	rec := new(Recorder)
	assert.NotPanics(t, func() {
		NewRenderer().Render(rec, spec.Layer{Type: "hexagon"}, spec.Props{X: spec.Some(1.0)})
	})
	assert.Empty(t, rec.Ops)
}

func TestRenderFrame(t *testing.T) {
	s, err := spec.Parse([]byte(`{"duration":1000,"layers":[
		{"id":"bg","type":"rect","props":{"x":0,"y":0,"width":480,"height":360,"color":"#000"}},
		{"id":"ghost","type":"polygon","props":{}},
		{"id":"ball","type":"circle","props":{"x":0,"y":0,"r":10},
		 "animations":[{"property":"r","from":10,"to":20,"start":0,"end":1000}]}]}`))
	require.NoError(t, err)

	rec := new(Recorder)
	r := NewRenderer()
	require.NoError(t, r.RenderFrame(rec, s, 500))

	assert.Equal(t, 1, rec.Clears)
	assert.Equal(t, []string{"FillRect", "FillCircle"}, rec.Names(), "painter's order, unknown skipped")
	assert.Equal(t, 15.0, rec.Ops[1].Args[2])
}

func TestRenderFrameSurfaceUnavailable(t *testing.T) {
	rec := &Recorder{Err: ErrSurfaceUnavailable}
	err := NewRenderer().RenderFrame(rec, &spec.Spec{Layers: []spec.Layer{{Type: spec.Circle}}}, 0)
	assert.ErrorIs(t, err, ErrSurfaceUnavailable)
	assert.Empty(t, rec.Ops)
}

func TestRenderFrameNilSpec(t *testing.T) {
	rec := new(Recorder)
	require.NoError(t, NewRenderer().RenderFrame(rec, nil, 0))
	assert.Equal(t, 1, rec.Clears)
}

func TestRegisterCustom(t *testing.T) {
	r := NewRenderer()
	assert.ErrorIs(t, r.Register(spec.Circle, nil), ErrBuiltinType)

	var got float64
	require.NoError(t, r.Register("sun", func(s Surface, elapsedMs float64) {
		got = elapsedMs
		s.FillCircle(0, 0, elapsedMs/100, color.White)
	}))
	require.NoError(t, r.Register("broken", func(Surface, float64) {
		panic(errors.New("boom"))
	}))

	sp := &spec.Spec{Layers: []spec.Layer{{Type: "broken"}, {Type: "sun"}}}
	rec := new(Recorder)
	require.NoError(t, r.RenderFrame(rec, sp, 250))

	assert.Equal(t, 250.0, got)
	assert.Equal(t, []string{"FillCircle"}, rec.Names())
}

func TestArrowHeadZeroLength(t *testing.T) {
	pts := ArrowHeadPoints(5, 5, 0, 0)
	for _, p := range pts {
		assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y))
	}
}
