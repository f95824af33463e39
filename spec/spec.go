// Package spec holds the visualization data model and turns the JSON produced
// upstream into it.
package spec

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotObject   = errors.New("spec: not a JSON object")
	ErrInvalidJSON = errors.New("spec: invalid JSON")
)

// LayerType names the shape a layer draws.
type LayerType string

const (
	Circle LayerType = "circle"
	Rect   LayerType = "rect"
	Arrow  LayerType = "arrow"
	Text   LayerType = "text"
)

// Builtin reports whether t is one of the shapes drawn by the renderer itself.
func (t LayerType) Builtin() bool {
	switch t {
	case Circle, Rect, Arrow, Text:
		return true
	}
	return false
}

// Spec is a complete visualization. Layers are kept in painter's order.
type Spec struct {
	ID       string
	Duration float64
	FPS      float64
	Layers   []Layer
}

// Layer is one drawable shape with its base pose and directives.
type Layer struct {
	ID         string
	Type       LayerType
	Props      Props
	Animations []Directive
}

// Parse decodes, normalizes and converts a raw upstream payload.
func Parse(data []byte) (*Spec, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return Decode(Normalize(raw))
}

// Decode converts a normalized JSON value into a Spec. Shape problems below the
// root are tolerated: missing or malformed layers decode as an empty list,
// malformed layers and directives are skipped.
func Decode(raw any) (*Spec, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}

	s := new(Spec)
	s.ID, _ = toText(m["id"])
	s.Duration, _ = toNumber(m["duration"])
	if s.Duration < 0 {
		s.Duration = 0
	}
	s.FPS, _ = toNumber(m["fps"])

	layers, _ := m["layers"].([]any)
	s.Layers = make([]Layer, 0, len(layers))
	for _, l := range layers {
		lm, ok := l.(map[string]any)
		if !ok {
			continue
		}
		s.Layers = append(s.Layers, decodeLayer(lm))
	}
	return s, nil
}

func decodeLayer(m map[string]any) Layer {
	var l Layer
	l.ID, _ = toText(m["id"])
	t, _ := m["type"].(string)
	l.Type = LayerType(t)
	props, _ := m["props"].(map[string]any)
	l.Props = PropsFromMap(props)

	anims, _ := m["animations"].([]any)
	for _, a := range anims {
		am, ok := a.(map[string]any)
		if !ok {
			continue
		}
		l.Animations = append(l.Animations, DirectiveFromMap(am))
	}
	return l
}

// Map encodes s back into its canonical JSON object form.
func (s *Spec) Map() map[string]any {
	layers := make([]any, len(s.Layers))
	for i, l := range s.Layers {
		anims := make([]any, len(l.Animations))
		for j, d := range l.Animations {
			anims[j] = DirectiveMap(d)
		}
		layers[i] = map[string]any{
			"id":         l.ID,
			"type":       string(l.Type),
			"props":      l.Props.Map(),
			"animations": anims,
		}
	}
	return map[string]any{
		"id":       s.ID,
		"duration": s.Duration,
		"fps":      s.FPS,
		"layers":   layers,
	}
}

// MarshalJSON implements json.Marshaler.
func (s *Spec) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}
