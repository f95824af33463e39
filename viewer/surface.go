// Package viewer plays visualizations in a desktop window.
package viewer

import (
	"bytes"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matt-g-everett/vistx/render"
)

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

// whiteTexture is the solid source image for DrawTriangles.
func whiteTexture() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

// Surface draws onto an offscreen ebiten image.
type Surface struct {
	img        *ebiten.Image
	background color.Color
	regular    *text.GoTextFaceSource
	bold       *text.GoTextFaceSource
}

// NewSurface creates a width x height surface cleared to background.
func NewSurface(width, height int, background color.Color) (*Surface, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, err
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, err
	}
	s := &Surface{
		img:        ebiten.NewImage(width, height),
		background: background,
		regular:    regular,
		bold:       bold,
	}
	return s, nil
}

// Image returns the backing image.
func (s *Surface) Image() *ebiten.Image { return s.img }

func (s *Surface) Clear() error {
	if s.img == nil {
		return render.ErrSurfaceUnavailable
	}
	s.img.Fill(s.background)
	return nil
}

func (s *Surface) FillCircle(cx, cy, r float64, c color.Color) {
	if r <= 0 {
		return
	}
	vector.DrawFilledCircle(s.img, float32(cx), float32(cy), float32(r), c, true)
}

func (s *Surface) StrokeCircle(cx, cy, r, width float64, c color.Color) {
	if r <= 0 || width <= 0 {
		return
	}
	vector.StrokeCircle(s.img, float32(cx), float32(cy), float32(r), float32(width), c, true)
}

func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	vector.DrawFilledRect(s.img, float32(x), float32(y), float32(w), float32(h), c, true)
}

func (s *Surface) StrokeRect(x, y, w, h, width float64, c color.Color) {
	if w <= 0 || h <= 0 || width <= 0 {
		return
	}
	vector.StrokeRect(s.img, float32(x), float32(y), float32(w), float32(h), float32(width), c, true)
}

func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	if width <= 0 || (x0 == x1 && y0 == y1) {
		return
	}
	vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), c, true)
}

func (s *Surface) FillPolygon(pts []render.Point, c color.Color) {
	vs, is := fanVertices(pts, c)
	if len(is) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	s.img.DrawTriangles(vs, is, whiteTexture(), op)
}

func (s *Surface) face(f render.Font) *text.GoTextFace {
	src := s.regular
	if f.Bold {
		src = s.bold
	}
	return &text.GoTextFace{Source: src, Size: f.Size}
}

func (s *Surface) DrawText(str string, x, y float64, f render.Font, align render.Align, c color.Color) {
	if str == "" || f.Size <= 0 {
		return
	}
	face := s.face(f)
	op := &text.DrawOptions{}
	op.PrimaryAlign = primaryAlign(align)
	// text/v2 positions the top of the line; y is the baseline.
	op.GeoM.Translate(x, y-face.Metrics().HAscent)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(s.img, str, face, op)
}

func primaryAlign(a render.Align) text.Align {
	switch a {
	case render.AlignCenter:
		return text.AlignCenter
	case render.AlignRight:
		return text.AlignEnd
	}
	return text.AlignStart
}

// fanVertices triangulates a convex polygon as a fan around its first point.
func fanVertices(pts []render.Point, c color.Color) ([]ebiten.Vertex, []uint16) {
	if len(pts) < 3 {
		return nil, nil
	}
	r, g, b, a := c.RGBA()
	var cr, cg, cb, ca float32
	if a > 0 {
		// Vertex colours are straight alpha.
		cr = float32(r) / float32(a)
		cg = float32(g) / float32(a)
		cb = float32(b) / float32(a)
		ca = float32(a) / 0xffff
	}

	vs := make([]ebiten.Vertex, len(pts))
	for i, p := range pts {
		vs[i] = ebiten.Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		}
	}
	is := make([]uint16, 0, (len(pts)-2)*3)
	for i := 1; i < len(pts)-1; i++ {
		is = append(is, 0, uint16(i), uint16(i+1))
	}
	return vs, is
}

// Snapshot copies the current pixels. Like all drawing it must be called from
// the update goroutine once the game is running.
func (s *Surface) Snapshot() *image.RGBA {
	b := s.img.Bounds()
	out := image.NewRGBA(b)
	s.img.ReadPixels(out.Pix)
	return out
}
