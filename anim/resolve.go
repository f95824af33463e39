// Package anim evaluates layer directives at an instant.
package anim

import (
	"math"

	"github.com/matt-g-everett/vistx/spec"
	"github.com/matt-g-everett/vistx/util"
)

// Resolve returns the properties a layer should be drawn with t milliseconds
// into playback. Directives apply in order to one working copy of the base
// props, so a later directive wins over an earlier one for the same property.
// Resolve has no hidden state: equal arguments give bit-identical results.
func Resolve(layer spec.Layer, t float64) spec.Props {
	p := layer.Props.Clone()
	for _, d := range layer.Animations {
		switch d := d.(type) {
		case spec.Interpolate:
			interpolate(&p, d, t)
		case spec.Orbit:
			if d.Duration <= 0 {
				continue
			}
			angle := math.Mod(t, d.Duration) / d.Duration * 2 * math.Pi
			p.X = spec.Some(d.CenterX + d.Radius*math.Cos(angle))
			p.Y = spec.Some(d.CenterY + d.Radius*math.Sin(angle))
		case spec.Pulse:
			if d.Duration <= 0 {
				continue
			}
			phase := math.Sin(t/d.Duration*2*math.Pi)*0.5 + 0.5
			p.R = spec.Some(Lerp(d.Min, d.Max, phase))
		}
	}
	return p
}

// ResolveAll resolves every layer of s at t, in layer order.
func ResolveAll(s *spec.Spec, t float64) []spec.Props {
	if s == nil {
		return nil
	}
	out := make([]spec.Props, len(s.Layers))
	for i, l := range s.Layers {
		out[i] = Resolve(l, t)
	}
	return out
}

func interpolate(p *spec.Props, d spec.Interpolate, t float64) {
	current, _ := p.Number(d.Property)
	from := d.From.Or(current)
	to := d.To.Or(from)
	eased := util.Easing(d.Easing)(Progress(t, d.Start, d.End))
	p.SetNumber(d.Property, Lerp(from, to, eased))
}

// Progress is how far t is through [start, end], clamped to [0, 1]. An empty
// window counts as fully advanced.
func Progress(t, start, end float64) float64 {
	if end == start {
		return 1
	}
	return Clamp((t-start)/(end-start), 0, 1)
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
