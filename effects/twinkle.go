package effects

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/vistx/render"
)

type particle struct {
	x, y  float64
	phase float64
	rate  float64
}

// Twinkle scatters particles that fade in and out. Placement is fixed by Seed
// and brightness depends only on the elapsed time, so any instant can be drawn
// directly.
type Twinkle struct {
	Colour    colorful.Color
	Radius    float64
	particles []particle
}

// NewTwinkle places count particles on a width x height canvas.
func NewTwinkle(width, height float64, count int, seed int64) *Twinkle {
	t := new(Twinkle)
	t.Colour, _ = colorful.Hex("#fff6d5")
	t.Radius = 2
	rng := rand.New(rand.NewSource(seed))
	t.particles = make([]particle, count)
	for i := range t.particles {
		t.particles[i] = particle{
			x:     rng.Float64() * width,
			y:     rng.Float64() * height,
			phase: rng.Float64() * 2 * math.Pi,
			// One scintillation every 0.75 to 3 seconds.
			rate: 2 * math.Pi / (750 + rng.Float64()*2250),
		}
	}
	return t
}

// Brightness returns particle i's opacity at elapsedMs, in [0,1].
func (t *Twinkle) Brightness(i int, elapsedMs float64) float64 {
	p := t.particles[i]
	v := math.Sin(p.phase + elapsedMs*p.rate)
	return v * v
}

// Draw is a render.CustomFunc.
func (t *Twinkle) Draw(s render.Surface, elapsedMs float64) {
	r, g, b := t.Colour.Clamped().RGB255()
	for i, p := range t.particles {
		a := t.Brightness(i, elapsedMs)
		if a <= 0.01 {
			continue
		}
		s.FillCircle(p.x, p.y, t.Radius, color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(a * 255))})
	}
}
