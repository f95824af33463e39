package viewer

import (
	"bytes"
	"context"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matt-g-everett/vistx/stream"
)

const (
	barHeight = 28
	barText   = 14
)

var (
	barColor  = color.NRGBA{0x1b, 0x1d, 0x23, 0xff}
	textColor = color.NRGBA{0xdd, 0xdd, 0xdd, 0xff}
)

type command int

const (
	cmdToggle command = iota + 1
	cmdReset
)

// Game runs a Controller inside ebiten's update loop. The visualization is
// drawn offscreen during Update and blitted in Draw, above a status bar
// showing the playback readout.
type Game struct {
	queue   stream.FrameQueue
	actions chan func()
	surface *Surface
	ctrl    *stream.Controller
	width   int
	height  int
	barFace *text.GoTextFace
	now     func() time.Time
	ctx     context.Context
}

// NewGame creates a game playing on a width x height canvas. The window
// closes once ctx is done.
func NewGame(ctx context.Context, width, height int, background color.Color, opts ...stream.Option) (*Game, error) {
	surface, err := NewSurface(width, height, background)
	if err != nil {
		return nil, err
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, err
	}

	g := &Game{
		actions: make(chan func(), 64),
		surface: surface,
		width:   width,
		height:  height,
		barFace: &text.GoTextFace{Source: src, Size: barText},
		now:     time.Now,
		ctx:     ctx,
	}
	g.ctrl = stream.NewController(&g.queue, surface, opts...)
	return g, nil
}

// Controller returns the controller driven by the game. Only touch it from
// functions passed to Do.
func (g *Game) Controller() *stream.Controller { return g.ctrl }

// Do queues fn to run on the update goroutine.
func (g *Game) Do(fn func()) {
	g.actions <- fn
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.ctx != nil && g.ctx.Err() != nil {
		return ebiten.Termination
	}
	g.runActions()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.apply(cmdToggle)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.apply(cmdReset)
	}

	g.queue.RunFrames(g.now())
	return nil
}

func (g *Game) runActions() {
	for {
		select {
		case fn := <-g.actions:
			fn()
		default:
			return
		}
	}
}

func (g *Game) apply(cmd command) {
	switch cmd {
	case cmdToggle:
		st := g.ctrl.Status()
		if st.CanPause {
			g.ctrl.Pause()
		} else if st.CanPlay {
			g.ctrl.Play()
		}
	case cmdReset:
		if g.ctrl.Status().CanReset {
			g.ctrl.Reset()
		}
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.surface.Image(), nil)

	vector.DrawFilledRect(screen, 0, float32(g.height), float32(g.width), barHeight, barColor, false)
	st := g.ctrl.Status()
	label := st.String()
	if label == "" {
		label = "waiting for a visualization"
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(10, float64(g.height)+(barHeight-barText)/2)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, label, g.barFace, op)

	hint := "space: play/pause  r: reset  " + st.State.String()
	op = &text.DrawOptions{}
	op.PrimaryAlign = text.AlignEnd
	op.GeoM.Translate(float64(g.width-10), float64(g.height)+(barHeight-barText)/2)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, hint, g.barFace, op)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height + barHeight
}

// Run opens the window and blocks until it is closed.
func Run(g *Game, title string) error {
	ebiten.SetWindowSize(g.width, g.height+barHeight)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

// Surface returns the offscreen surface the controller draws on.
func (g *Game) Surface() *Surface { return g.surface }
