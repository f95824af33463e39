package spec

import (
	"encoding/json"
	"maps"
	"math"
	"strconv"
)

// Opt is a value that may be absent.
type Opt[T any] struct {
	Val T
	Ok  bool
}

// Some wraps a present value.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Val: v, Ok: true}
}

// Or returns the value, or def when absent.
func (o Opt[T]) Or(def T) T {
	if o.Ok {
		return o.Val
	}
	return def
}

// Property names understood by the renderer.
const (
	PropX         = "x"
	PropY         = "y"
	PropR         = "r"
	PropW         = "w"
	PropH         = "h"
	PropDX        = "dx"
	PropDY        = "dy"
	PropColor     = "color"
	PropStroke    = "stroke"
	PropLineWidth = "lineWidth"
	PropOpacity   = "opacity"
	PropFont      = "font"
	PropAlign     = "align"
	PropText      = "text"
)

// Props is the pose of a layer, keyed by canonical property name. Keys the
// renderer does not know about are kept in Extra.
type Props struct {
	X, Y, R, W, H, DX, DY Opt[float64]
	LineWidth, Opacity    Opt[float64]

	Color, Stroke, Font, Align, Text Opt[string]

	Extra map[string]any
}

// Clone returns a copy that shares nothing mutable with p.
func (p Props) Clone() Props {
	c := p
	if p.Extra != nil {
		c.Extra = maps.Clone(p.Extra)
	}
	return c
}

func (p *Props) number(name string) *Opt[float64] {
	switch name {
	case PropX:
		return &p.X
	case PropY:
		return &p.Y
	case PropR:
		return &p.R
	case PropW:
		return &p.W
	case PropH:
		return &p.H
	case PropDX:
		return &p.DX
	case PropDY:
		return &p.DY
	case PropLineWidth:
		return &p.LineWidth
	case PropOpacity:
		return &p.Opacity
	}
	return nil
}

func (p *Props) text(name string) *Opt[string] {
	switch name {
	case PropColor:
		return &p.Color
	case PropStroke:
		return &p.Stroke
	case PropFont:
		return &p.Font
	case PropAlign:
		return &p.Align
	case PropText:
		return &p.Text
	}
	return nil
}

// Number returns a numeric property by canonical name.
func (p Props) Number(name string) (float64, bool) {
	if f := p.number(name); f != nil && f.Ok {
		return f.Val, true
	}
	return 0, false
}

// SetNumber writes a numeric property by canonical name. It reports false
// when name is not a numeric property.
func (p *Props) SetNumber(name string, v float64) bool {
	f := p.number(name)
	if f == nil {
		return false
	}
	*f = Some(v)
	return true
}

// PropsFromMap builds Props from a decoded JSON object. Values of the wrong
// kind for a known property are kept in Extra instead of being dropped.
func PropsFromMap(m map[string]any) Props {
	var p Props
	for k, v := range m {
		if f := p.number(k); f != nil {
			if n, ok := toNumber(v); ok {
				*f = Some(n)
				continue
			}
		} else if s := p.text(k); s != nil {
			if str, ok := toText(v); ok {
				*s = Some(str)
				continue
			}
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[k] = v
	}
	return p
}

// Map flattens p back into a JSON object.
func (p Props) Map() map[string]any {
	m := make(map[string]any, len(p.Extra)+8)
	for k, v := range p.Extra {
		m[k] = v
	}
	for _, name := range []string{PropX, PropY, PropR, PropW, PropH, PropDX, PropDY, PropLineWidth, PropOpacity} {
		if v, ok := p.Number(name); ok {
			m[name] = v
		}
	}
	for _, name := range []string{PropColor, PropStroke, PropFont, PropAlign, PropText} {
		if s := p.text(name); s.Ok {
			m[name] = s.Val
		}
	}
	return m
}

// MarshalJSON implements json.Marshaler.
func (p Props) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Map())
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Props) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*p = PropsFromMap(m)
	return nil
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toText(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	}
	return "", false
}
