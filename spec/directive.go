package spec

// Directive tags.
const (
	DirectiveOrbit = "orbit"
	DirectivePulse = "pulse"
)

// A Directive is a time-driven transform attached to a layer. The set of
// implementations is closed: Interpolate, Orbit, Pulse and Unknown.
type Directive interface {
	// Tag returns the property tag the directive was declared with.
	Tag() string
	directive()
}

// Interpolate moves one numeric property linearly (or eased) from From to To
// between Start and End milliseconds.
type Interpolate struct {
	Property   string
	From, To   Opt[float64]
	Start, End float64
	Easing     string
}

// Orbit moves x/y around a circle, one revolution per Duration milliseconds.
type Orbit struct {
	CenterX, CenterY float64
	Radius           float64
	Duration         float64
}

// Pulse oscillates r between Min and Max with a period of Duration milliseconds.
type Pulse struct {
	Min, Max float64
	Duration float64
}

// Unknown keeps a directive whose tag is not recognised. It is never evaluated.
type Unknown struct {
	Property string
	Fields   map[string]any
}

func (d Interpolate) Tag() string { return d.Property }
func (Orbit) Tag() string         { return DirectiveOrbit }
func (Pulse) Tag() string         { return DirectivePulse }
func (d Unknown) Tag() string     { return d.Property }

func (Interpolate) directive() {}
func (Orbit) directive()       {}
func (Pulse) directive()       {}
func (Unknown) directive()     {}

// Interpolable reports whether property can be driven by an Interpolate directive.
func Interpolable(property string) bool {
	switch property {
	case PropX, PropY, PropR, PropDX, PropDY:
		return true
	}
	return false
}

// DirectiveFromMap decodes one directive object.
func DirectiveFromMap(m map[string]any) Directive {
	tag, _ := m["property"].(string)
	num := func(key string) float64 {
		n, _ := toNumber(m[key])
		return n
	}
	opt := func(key string) Opt[float64] {
		if n, ok := toNumber(m[key]); ok {
			return Some(n)
		}
		return Opt[float64]{}
	}

	switch {
	case tag == DirectiveOrbit:
		return Orbit{
			CenterX:  num("centerX"),
			CenterY:  num("centerY"),
			Radius:   num("radius"),
			Duration: num("duration"),
		}
	case tag == DirectivePulse:
		return Pulse{
			Min:      num("min"),
			Max:      num("max"),
			Duration: num("duration"),
		}
	case Interpolable(tag):
		easing, _ := m["easing"].(string)
		return Interpolate{
			Property: tag,
			From:     opt("from"),
			To:       opt("to"),
			Start:    num("start"),
			End:      num("end"),
			Easing:   easing,
		}
	}
	return Unknown{Property: tag, Fields: m}
}

// DirectiveMap encodes d back into a directive object.
func DirectiveMap(d Directive) map[string]any {
	switch d := d.(type) {
	case Interpolate:
		m := map[string]any{"property": d.Property, "start": d.Start, "end": d.End}
		if d.From.Ok {
			m["from"] = d.From.Val
		}
		if d.To.Ok {
			m["to"] = d.To.Val
		}
		if d.Easing != "" {
			m["easing"] = d.Easing
		}
		return m
	case Orbit:
		return map[string]any{
			"property": DirectiveOrbit,
			"centerX":  d.CenterX,
			"centerY":  d.CenterY,
			"radius":   d.Radius,
			"duration": d.Duration,
		}
	case Pulse:
		return map[string]any{
			"property": DirectivePulse,
			"min":      d.Min,
			"max":      d.Max,
			"duration": d.Duration,
		}
	case Unknown:
		return d.Fields
	}
	return nil
}
