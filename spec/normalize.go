package spec

// Normalize rewrites upstream property aliases into canonical names. raw is a
// decoded JSON value; anything that is not an object with a layers array is
// returned as is. The result never shares maps or slices that Normalize
// rewrote with raw, and raw is left untouched.
func Normalize(raw any) any {
	m, ok := raw.(map[string]any)
	if !ok {
		return raw
	}
	layers, ok := m["layers"].([]any)
	if !ok {
		return raw
	}

	out := copyMap(m)
	nl := make([]any, len(layers))
	for i, l := range layers {
		lm, ok := l.(map[string]any)
		if !ok {
			nl[i] = l
			continue
		}
		nl[i] = normalizeLayer(lm)
	}
	out["layers"] = nl
	return out
}

func normalizeLayer(l map[string]any) map[string]any {
	out := copyMap(l)

	switch props := l["props"].(type) {
	case map[string]any:
		t, _ := l["type"].(string)
		out["props"] = normalizeProps(LayerType(t), props)
	case nil:
		out["props"] = map[string]any{}
	}

	switch anims := l["animations"].(type) {
	case []any:
		na := make([]any, len(anims))
		for i, a := range anims {
			if am, ok := a.(map[string]any); ok {
				na[i] = normalizeDirective(am)
			} else {
				na[i] = a
			}
		}
		out["animations"] = na
	case nil:
		out["animations"] = []any{}
	}
	return out
}

func normalizeProps(t LayerType, props map[string]any) map[string]any {
	p := copyMap(props)
	switch t {
	case Circle:
		rename(p, "radius", PropR, true)
	case Rect:
		rename(p, "width", PropW, true)
		rename(p, "height", PropH, true)
	case Arrow:
		segment(p, "start_x", "end_x", PropX, PropDX)
		segment(p, "start_y", "end_y", PropY, PropDY)
	}
	return p
}

// normalizeDirective fills the canonical orbit fields from the cx/cy/r and
// start/end form some generators emit.
func normalizeDirective(d map[string]any) map[string]any {
	out := copyMap(d)
	if tag, _ := d["property"].(string); tag != DirectiveOrbit {
		return out
	}
	rename(out, "cx", "centerX", false)
	rename(out, "cy", "centerY", false)
	rename(out, "r", "radius", false)
	if _, ok := out["duration"]; !ok {
		start, _ := toNumber(out["start"])
		end, ok := toNumber(out["end"])
		if ok && end > start {
			out["duration"] = end - start
		}
	}
	return out
}

// rename moves m[from] to m[to]. An existing m[to] is replaced only when
// overwrite is set; the alias is removed either way.
func rename(m map[string]any, from, to string, overwrite bool) {
	v, ok := m[from]
	if !ok {
		return
	}
	if _, exists := m[to]; overwrite || !exists {
		m[to] = v
	}
	delete(m, from)
}

// segment turns a start/end pair into an origin and a delta. Both ends must be
// numeric, otherwise the pair is left alone.
func segment(m map[string]any, startKey, endKey, originKey, deltaKey string) {
	start, ok1 := toNumber(m[startKey])
	end, ok2 := toNumber(m[endKey])
	if !ok1 || !ok2 {
		return
	}
	m[originKey] = start
	m[deltaKey] = end - start
	delete(m, startKey)
	delete(m, endKey)
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
