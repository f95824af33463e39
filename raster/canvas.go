// Package raster implements a headless render.Surface on an in-memory RGBA
// image, by wrapping rasterx.
package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matt-g-everett/vistx/render"
)

var _ render.Surface = (*Canvas)(nil)

const miterLimit = 4

type faceKey struct {
	size float64
	bold bool
}

// Canvas draws into an image.RGBA.
type Canvas struct {
	img        *image.RGBA
	background *image.Uniform

	filler *rasterx.Filler
	dasher *rasterx.Dasher

	regular, bold *opentype.Font
	faces         map[faceKey]font.Face
}

// NewCanvas returns a canvas of the given size, cleared to background.
func NewCanvas(width, height int, background color.Color) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster: invalid canvas size %dx%d", width, height)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("raster: parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("raster: parse bold font: %w", err)
	}

	c := new(Canvas)
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	if background == nil {
		background = color.Transparent
	}
	c.background = image.NewUniform(background)
	scanner := rasterx.NewScannerGV(width, height, c.img, c.img.Bounds())
	c.filler = rasterx.NewFiller(width, height, scanner)
	c.dasher = rasterx.NewDasher(width, height, rasterx.NewScannerGV(width, height, c.img, c.img.Bounds()))
	c.regular, c.bold = regular, bold
	c.faces = make(map[faceKey]font.Face)
	c.fillBackground()
	return c, nil
}

// Image returns the live backing image. It changes on every frame.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Snapshot returns a copy of the current frame.
func (c *Canvas) Snapshot() *image.RGBA {
	out := image.NewRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}

func (c *Canvas) fillBackground() {
	draw.Draw(c.img, c.img.Bounds(), c.background, image.Point{}, draw.Src)
}

func (c *Canvas) Clear() error {
	if c == nil || c.img == nil {
		return render.ErrSurfaceUnavailable
	}
	c.fillBackground()
	return nil
}

func (c *Canvas) fill(col color.Color, path func(p rasterx.Adder)) {
	c.filler.Clear()
	c.filler.SetColor(col)
	path(c.filler)
	c.filler.Draw()
}

func (c *Canvas) stroke(col color.Color, width float64, path func(p rasterx.Adder)) {
	if width <= 0 {
		return
	}
	c.dasher.Clear()
	c.dasher.SetStroke(
		fixed.Int26_6(width*64), fixed.Int26_6(miterLimit*64),
		rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter,
		nil, 0,
	)
	c.dasher.SetColor(col)
	path(c.dasher)
	c.dasher.Draw()
}

func (c *Canvas) FillCircle(cx, cy, r float64, col color.Color) {
	if r <= 0 {
		return
	}
	c.fill(col, func(p rasterx.Adder) { rasterx.AddCircle(cx, cy, r, p) })
}

func (c *Canvas) StrokeCircle(cx, cy, r, width float64, col color.Color) {
	if r <= 0 {
		return
	}
	c.stroke(col, width, func(p rasterx.Adder) { rasterx.AddCircle(cx, cy, r, p) })
}

func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	c.fill(col, func(p rasterx.Adder) { rasterx.AddRect(x, y, x+w, y+h, 0, p) })
}

func (c *Canvas) StrokeRect(x, y, w, h, width float64, col color.Color) {
	if w <= 0 || h <= 0 || width <= 0 {
		return
	}
	c.stroke(col, width, func(p rasterx.Adder) { rasterx.AddRect(x, y, x+w, y+h, 0, p) })
}

func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, col color.Color) {
	if x0 == x1 && y0 == y1 {
		return
	}
	c.stroke(col, width, func(p rasterx.Adder) {
		p.Start(rasterx.ToFixedP(x0, y0))
		p.Line(rasterx.ToFixedP(x1, y1))
		p.Stop(false)
	})
}

func (c *Canvas) FillPolygon(pts []render.Point, col color.Color) {
	if len(pts) < 3 {
		return
	}
	c.fill(col, func(p rasterx.Adder) {
		p.Start(rasterx.ToFixedP(pts[0].X, pts[0].Y))
		for _, pt := range pts[1:] {
			p.Line(rasterx.ToFixedP(pt.X, pt.Y))
		}
		p.Stop(true)
	})
}

func (c *Canvas) face(f render.Font) font.Face {
	key := faceKey{size: f.Size, bold: f.Bold}
	if face, ok := c.faces[key]; ok {
		return face
	}
	src := c.regular
	if f.Bold {
		src = c.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    f.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}
	c.faces[key] = face
	return face
}

func (c *Canvas) DrawText(text string, x, y float64, f render.Font, align render.Align, col color.Color) {
	face := c.face(f)
	if face == nil || text == "" {
		return
	}
	d := &font.Drawer{Dst: c.img, Src: image.NewUniform(col), Face: face}
	advance := float64(d.MeasureString(text)) / 64
	switch align {
	case render.AlignCenter:
		x -= advance / 2
	case render.AlignRight:
		x -= advance
	}
	d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
	d.DrawString(text)
}
