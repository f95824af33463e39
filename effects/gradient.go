// Package effects provides ready-made custom layer types for the renderer.
package effects

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/vistx/render"
)

// GradientTable stores a look-up table of colours interpolated by hue.
type GradientTable []struct {
	Hue float64
	Pos float64
}

// Rainbow runs pink through violet and wraps back to pink.
var Rainbow = GradientTable{
	{0.0, 0.0},
	{6.0, 0.04},
	{87.0, 0.14},
	{88.0, 0.28},
	{98.0, 0.42},
	{180.0, 0.56},
	{190.0, 0.70},
	{320.0, 0.84},
	{328.0, 0.91},
	{360.0, 1.0},
}

// Color gets a colour at position t on the table.
func (g GradientTable) Color(t, chroma, luminance float64) colorful.Color {
	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			h := (((t - c1.Pos) / (c2.Pos - c1.Pos)) * (c2.Hue - c1.Hue)) + c1.Hue
			return colorful.Hcl(h, chroma, luminance)
		}
	}
	// At or past the last keypoint.
	return colorful.Hcl(g[len(g)-1].Hue, chroma, luminance)
}

// GradientTrail cycles a gradient across the canvas as vertical bands.
type GradientTrail struct {
	Table     GradientTable
	Width     float64
	Height    float64
	Bands     int
	PeriodMs  float64
	Chroma    float64
	Luminance float64
}

// NewGradientTrail creates a rainbow trail covering a width x height canvas.
func NewGradientTrail(width, height float64) *GradientTrail {
	return &GradientTrail{
		Table:     Rainbow,
		Width:     width,
		Height:    height,
		Bands:     48,
		PeriodMs:  4000,
		Chroma:    0.6,
		Luminance: 0.35,
	}
}

// Draw is a render.CustomFunc.
func (g *GradientTrail) Draw(s render.Surface, elapsedMs float64) {
	if g.Bands <= 0 || len(g.Table) == 0 || g.Width <= 0 || g.Height <= 0 {
		return
	}
	shift := 0.0
	if g.PeriodMs > 0 {
		shift = math.Mod(elapsedMs, g.PeriodMs) / g.PeriodMs
	}
	w := g.Width / float64(g.Bands)
	for i := 0; i < g.Bands; i++ {
		t := math.Mod(float64(i)/float64(g.Bands)-shift+1, 1)
		c := g.Table.Color(t, g.Chroma, g.Luminance).Clamped()
		// Overlap by a pixel so antialiased edges do not show seams.
		s.FillRect(float64(i)*w, 0, w+1, g.Height, c)
	}
}
