package render

import (
	"strconv"
	"strings"
)

// DefaultFont is used for text layers without a font property.
const DefaultFont = "20px Inter, Arial"

// Align anchors text horizontally at its x coordinate.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// ParseAlign reads a canvas textAlign value. Unknown values align left.
func ParseAlign(s string) Align {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center":
		return AlignCenter
	case "right", "end":
		return AlignRight
	}
	return AlignLeft
}

// Font is a parsed CSS font shorthand.
type Font struct {
	Size   float64
	Family string
	Bold   bool
	Italic bool
}

// ParseFont reads the subset of the CSS font shorthand generators produce:
// optional style/weight words, a size in px or pt, then a family list.
func ParseFont(s string) Font {
	f := Font{Size: 20}
	fields := strings.Fields(s)
	for i, w := range fields {
		lw := strings.ToLower(w)
		switch lw {
		case "bold", "bolder", "600", "700", "800", "900":
			f.Bold = true
			continue
		case "italic", "oblique":
			f.Italic = true
			continue
		}
		if size, ok := parseSize(lw); ok {
			f.Size = size
			f.Family = strings.Join(fields[i+1:], " ")
			break
		}
	}
	return f
}

func parseSize(w string) (float64, bool) {
	if j := strings.IndexByte(w, '/'); j >= 0 {
		w = w[:j]
	}
	points := false
	switch {
	case strings.HasSuffix(w, "px"):
		w = strings.TrimSuffix(w, "px")
	case strings.HasSuffix(w, "pt"):
		w = strings.TrimSuffix(w, "pt")
		points = true
	default:
		return 0, false
	}
	v, err := strconv.ParseFloat(w, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	if points {
		v = v * 4 / 3
	}
	return v, true
}
