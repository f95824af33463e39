package effects

import (
	"github.com/matt-g-everett/vistx/render"
	"github.com/matt-g-everett/vistx/spec"
)

const (
	GradientLayer spec.LayerType = "gradient"
	TwinkleLayer  spec.LayerType = "twinkle"
)

// Register installs the effects as custom layer types sized for a width x
// height canvas.
func Register(r *render.Renderer, width, height float64) error {
	if err := r.Register(GradientLayer, NewGradientTrail(width, height).Draw); err != nil {
		return err
	}
	return r.Register(TwinkleLayer, NewTwinkle(width, height, 60, 1).Draw)
}
