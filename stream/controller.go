package stream

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/matt-g-everett/vistx/render"
	"github.com/matt-g-everett/vistx/spec"
)

// State is the playback phase of a Controller.
type State int

const (
	Idle State = iota
	Playing
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for st := Idle; st <= Finished; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// FrameInfo describes a frame that has just been drawn.
type FrameInfo struct {
	Session    uuid.UUID
	SpecID     string
	ElapsedMs  float64
	DurationMs float64
	State      State
}

// Status is a snapshot of the controller for display.
type Status struct {
	State      State   `json:"state"`
	ElapsedMs  float64 `json:"elapsedMs"`
	DurationMs float64 `json:"durationMs"`
	SpecID     string  `json:"specId,omitempty"`
	Session    string  `json:"session,omitempty"`
	Loaded     bool    `json:"loaded"`
	CanPlay    bool    `json:"canPlay"`
	CanPause   bool    `json:"canPause"`
	CanReset   bool    `json:"canReset"`
}

// String renders the elapsed/duration readout, or "" when nothing is loaded.
func (s Status) String() string {
	if !s.Loaded {
		return ""
	}
	return fmt.Sprintf("%d ms / %s ms", int64(math.Round(s.ElapsedMs)), strconv.FormatFloat(s.DurationMs, 'f', -1, 64))
}

// Controller owns playback of one visualization on one surface. It must only
// be used from the goroutine that runs its Scheduler's callbacks.
type Controller struct {
	scheduler Scheduler
	surface   render.Surface
	renderer  *render.Renderer
	now       func() time.Time
	logger    *slog.Logger
	metrics   *metrics

	spec     *spec.Spec
	session  uuid.UUID
	state    State
	elapsed  float64
	start    time.Time
	pending  FrameID
	onFrames []func(FrameInfo)
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithRenderer replaces the default renderer, e.g. one with custom layer types.
func WithRenderer(r *render.Renderer) Option {
	return func(c *Controller) { c.renderer = r }
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController creates an idle Controller drawing onto surface.
func NewController(scheduler Scheduler, surface render.Surface, opts ...Option) *Controller {
	c := new(Controller)
	c.scheduler = scheduler
	c.surface = surface
	c.renderer = render.NewRenderer()
	c.now = time.Now
	c.logger = slog.Default().With("component", "playback")
	c.metrics = newMetrics()
	c.state = Idle
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnFrame registers fn to be called after every successful draw.
func (c *Controller) OnFrame(fn func(FrameInfo)) {
	c.onFrames = append(c.onFrames, fn)
}

// Load presents a spec. A different pointer restarts playback from zero; the
// same pointer is a no-op. nil unloads.
func (c *Controller) Load(s *spec.Spec) {
	if s == c.spec {
		return
	}
	c.cancel()
	c.spec = s
	c.elapsed = 0
	if s == nil {
		c.state = Idle
		return
	}
	c.session = uuid.New()
	c.metrics.add(c.metrics.loaded, s.ID)
	c.logger.Info("spec loaded", "spec", s.ID, "session", c.session, "layers", len(s.Layers), "duration", s.Duration)
	c.enterPlaying()
}

// Play resumes from Paused or Finished, keeping the elapsed time.
func (c *Controller) Play() {
	if c.spec == nil || c.state == Playing {
		return
	}
	c.enterPlaying()
}

// Pause freezes playback at the last drawn instant.
func (c *Controller) Pause() {
	if c.state != Playing {
		return
	}
	c.cancel()
	c.state = Paused
}

// Reset rewinds to zero, pauses, and draws the first frame immediately.
func (c *Controller) Reset() {
	if c.spec == nil {
		return
	}
	c.cancel()
	c.state = Paused
	c.elapsed = 0
	c.drawStill()
}

// Seek moves playback to t milliseconds, clamped to the duration. A
// playing controller keeps playing from there; otherwise a still frame is drawn.
func (c *Controller) Seek(t float64) {
	if c.spec == nil {
		return
	}
	c.elapsed = clampElapsed(t, c.spec.Duration)
	switch c.state {
	case Playing:
		c.start = c.now().Add(-msToDuration(c.elapsed))
		return
	case Paused, Finished:
		c.state = Paused
		if c.elapsed >= c.spec.Duration {
			c.state = Finished
		}
	}
	c.drawStill()
}

// Close unmounts the visualization: the pending frame is cancelled and the
// controller returns to Idle.
func (c *Controller) Close() {
	c.cancel()
	c.spec = nil
	c.elapsed = 0
	c.state = Idle
}

// State returns the playback phase.
func (c *Controller) State() State { return c.state }

// Elapsed returns the elapsed playback time in milliseconds.
func (c *Controller) Elapsed() float64 { return c.elapsed }

// Spec returns the loaded spec, or nil.
func (c *Controller) Spec() *spec.Spec { return c.spec }

// Status returns a snapshot for display.
func (c *Controller) Status() Status {
	st := Status{State: c.state, ElapsedMs: c.elapsed}
	if c.spec != nil {
		st.Loaded = true
		st.DurationMs = c.spec.Duration
		st.SpecID = c.spec.ID
		st.Session = c.session.String()
		st.CanPlay = c.state != Playing
		st.CanPause = c.state == Playing
		st.CanReset = true
	}
	return st
}

func (c *Controller) enterPlaying() {
	c.state = Playing
	c.start = c.now().Add(-msToDuration(c.elapsed))
	c.schedule()
}

func (c *Controller) schedule() {
	c.cancel()
	c.pending = c.scheduler.RequestFrame(c.frame)
}

func (c *Controller) cancel() {
	if c.pending != 0 {
		c.scheduler.CancelFrame(c.pending)
		c.pending = 0
	}
}

func (c *Controller) frame(now time.Time) {
	c.pending = 0
	if c.spec == nil || c.state != Playing {
		return
	}

	t := clampElapsed(durationToMs(now.Sub(c.start)), c.spec.Duration)
	c.elapsed = t
	if err := c.draw(t); err != nil {
		c.schedule()
		return
	}
	if t >= c.spec.Duration {
		c.state = Finished
		c.logger.Debug("playback finished", "spec", c.spec.ID, "session", c.session)
	} else {
		c.schedule()
	}
	c.notify()
}

func (c *Controller) drawStill() {
	if err := c.draw(c.elapsed); err == nil {
		c.notify()
	}
}

func (c *Controller) draw(t float64) error {
	if err := c.renderer.RenderFrame(c.surface, c.spec, t); err != nil {
		c.metrics.add(c.metrics.failed, c.spec.ID)
		c.logger.Warn("frame render failed", "spec", c.spec.ID, "elapsed", t, "error", err)
		return err
	}
	c.metrics.add(c.metrics.rendered, c.spec.ID)
	return nil
}

func (c *Controller) notify() {
	if len(c.onFrames) == 0 {
		return
	}
	info := FrameInfo{
		Session:    c.session,
		SpecID:     c.spec.ID,
		ElapsedMs:  c.elapsed,
		DurationMs: c.spec.Duration,
		State:      c.state,
	}
	for _, fn := range c.onFrames {
		fn(info)
	}
}

func clampElapsed(t, duration float64) float64 {
	if t < 0 || math.IsNaN(t) {
		return 0
	}
	return math.Min(t, duration)
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func durationToMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
