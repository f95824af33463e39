package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/vistx/render"
	"github.com/matt-g-everett/vistx/spec"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(ms float64) time.Time {
	c.t = c.t.Add(msToDuration(ms))
	return c.t
}

type harness struct {
	clock *fakeClock
	queue *FrameQueue
	rec   *render.Recorder
	ctrl  *Controller
	infos []FrameInfo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock: &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		queue: new(FrameQueue),
		rec:   new(render.Recorder),
	}
	h.ctrl = NewController(h.queue, h.rec, WithClock(h.clock.Now))
	h.ctrl.OnFrame(func(fi FrameInfo) { h.infos = append(h.infos, fi) })
	return h
}

// tick advances the clock and delivers one display refresh.
func (h *harness) tick(ms float64) int {
	return h.queue.RunFrames(h.clock.Advance(ms))
}

func growSpec(t *testing.T) *spec.Spec {
	t.Helper()
	s, err := spec.Parse([]byte(`{"id":"grow","duration":1000,"layers":[
		{"id":"c","type":"circle","props":{"x":0,"y":0,"r":10},
		 "animations":[{"property":"r","from":10,"to":20,"start":0,"end":1000}]}]}`))
	require.NoError(t, err)
	return s
}

func lastRadius(t *testing.T, rec *render.Recorder) float64 {
	t.Helper()
	require.NotEmpty(t, rec.Ops)
	return rec.Ops[0].Args[2]
}

func TestControllerIdle(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Play()
	h.ctrl.Pause()
	h.ctrl.Reset()

	assert.Equal(t, Idle, h.ctrl.State())
	assert.Equal(t, 0, h.queue.Pending())
	assert.Equal(t, "", h.ctrl.Status().String())
	assert.False(t, h.ctrl.Status().CanPlay)
}

func TestControllerPlaysToFinished(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Load(growSpec(t))

	assert.Equal(t, Playing, h.ctrl.State())
	require.Equal(t, 1, h.queue.Pending())

	h.tick(0)
	assert.Equal(t, 0.0, h.ctrl.Elapsed())
	assert.Equal(t, 10.0, lastRadius(t, h.rec))

	h.tick(500)
	assert.Equal(t, 500.0, h.ctrl.Elapsed())
	assert.Equal(t, 15.0, lastRadius(t, h.rec))
	assert.Equal(t, Playing, h.ctrl.State())

	h.tick(499)
	assert.Equal(t, Playing, h.ctrl.State())

	h.tick(1)
	assert.Equal(t, 1000.0, h.ctrl.Elapsed())
	assert.Equal(t, 20.0, lastRadius(t, h.rec))
	assert.Equal(t, Finished, h.ctrl.State())
	assert.Equal(t, 0, h.queue.Pending(), "no frame scheduled after finishing")

	last := h.infos[len(h.infos)-1]
	assert.Equal(t, Finished, last.State)
	assert.Equal(t, "grow", last.SpecID)
	assert.Equal(t, "1000 ms / 1000 ms", h.ctrl.Status().String())
}

func TestControllerClampsOvershoot(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Load(growSpec(t))
	h.tick(5000)

	assert.Equal(t, 1000.0, h.ctrl.Elapsed())
	assert.Equal(t, Finished, h.ctrl.State())
}

func TestControllerPauseResume(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Load(growSpec(t))
	h.tick(400)
	require.Equal(t, 400.0, h.ctrl.Elapsed())

	h.ctrl.Pause()
	assert.Equal(t, Paused, h.ctrl.State())
	assert.Equal(t, 0, h.queue.Pending())

	h.clock.Advance(10000)
	h.ctrl.Play()
	assert.Equal(t, Playing, h.ctrl.State())
	assert.Equal(t, 400.0, h.ctrl.Elapsed(), "resume keeps elapsed")

	h.tick(100)
	assert.Equal(t, 500.0, h.ctrl.Elapsed())
}

func TestControllerPlayIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Load(growSpec(t))
	h.ctrl.Play()
	h.ctrl.Play()
	assert.Equal(t, 1, h.queue.Pending(), "at most one pending frame")
}

func TestControllerReset(t *testing.T) {
	for _, prior := range []string{"playing", "paused", "finished"} {
		t.Run(prior, func(t *testing.T) {
			h := newHarness(t)
			h.ctrl.Load(growSpec(t))
			h.tick(300)
			switch prior {
			case "paused":
				h.ctrl.Pause()
			case "finished":
				h.tick(2000)
				require.Equal(t, Finished, h.ctrl.State())
			}
			clears := h.rec.Clears

			h.ctrl.Reset()

			assert.Equal(t, Paused, h.ctrl.State())
			assert.Equal(t, 0.0, h.ctrl.Elapsed())
			assert.Equal(t, 0, h.queue.Pending(), "reset draws synchronously, nothing scheduled")
			assert.Equal(t, clears+1, h.rec.Clears)
			assert.Equal(t, 10.0, lastRadius(t, h.rec))
		})
	}
}

func TestControllerPlayAfterFinish(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Load(growSpec(t))
	h.tick(1000)
	require.Equal(t, Finished, h.ctrl.State())

	h.ctrl.Play()
	assert.Equal(t, Playing, h.ctrl.State())
	h.tick(16)
	assert.Equal(t, Finished, h.ctrl.State())
	assert.Equal(t, 1000.0, h.ctrl.Elapsed())
}

func TestControllerLoadIdentity(t *testing.T) {
	h := newHarness(t)
	s := growSpec(t)
	h.ctrl.Load(s)
	h.tick(250)
	session := h.ctrl.Status().Session

	h.ctrl.Load(s)
	assert.Equal(t, 250.0, h.ctrl.Elapsed(), "same pointer does not restart")
	assert.Equal(t, session, h.ctrl.Status().Session)

	same := *s
	h.ctrl.Load(&same)
	assert.Equal(t, 0.0, h.ctrl.Elapsed(), "a new pointer restarts even when equal")
	assert.Equal(t, Playing, h.ctrl.State())
	assert.Equal(t, 1, h.queue.Pending(), "the old loop was cancelled")
	assert.NotEqual(t, session, h.ctrl.Status().Session)
}

func TestControllerSpecSwapCancelsStaleFrame(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Load(growSpec(t))
	h.ctrl.Pause()
	h.ctrl.Load(growSpec(t))

	assert.Equal(t, 1, h.tick(100), "only the new loop runs")
}

func TestControllerClose(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Load(growSpec(t))
	h.ctrl.Close()

	assert.Equal(t, Idle, h.ctrl.State())
	assert.Nil(t, h.ctrl.Spec())
	assert.Equal(t, 0, h.tick(16))
}

func TestControllerSurfaceFailureRetries(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Load(growSpec(t))
	h.rec.Err = render.ErrSurfaceUnavailable

	h.tick(1500)
	assert.Equal(t, Playing, h.ctrl.State(), "a failed final frame does not finish")
	assert.Equal(t, 1, h.queue.Pending())
	assert.Empty(t, h.infos)

	h.rec.Err = nil
	h.tick(16)
	assert.Equal(t, Finished, h.ctrl.State())
	assert.Len(t, h.infos, 1)
}

func TestControllerSeek(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Load(growSpec(t))
	h.tick(100)

	h.ctrl.Seek(600)
	assert.Equal(t, 600.0, h.ctrl.Elapsed())
	h.tick(100)
	assert.Equal(t, 700.0, h.ctrl.Elapsed())

	h.ctrl.Pause()
	h.ctrl.Seek(5000)
	assert.Equal(t, 1000.0, h.ctrl.Elapsed())
	assert.Equal(t, 20.0, lastRadius(t, h.rec), "paused seek draws a still frame")
	assert.Equal(t, Finished, h.ctrl.State(), "seeking to the end finishes")

	h.ctrl.Seek(400)
	assert.Equal(t, Paused, h.ctrl.State())
	assert.Equal(t, 400.0, h.ctrl.Elapsed())

	h.ctrl.Seek(1000)
	assert.Equal(t, Finished, h.ctrl.State())
	h.tick(100)
	assert.Equal(t, 1000.0, h.ctrl.Elapsed(), "finished stays put")
}

func TestControllerSeekMatchesPlayback(t *testing.T) {
	played := newHarness(t)
	played.ctrl.Load(growSpec(t))
	played.tick(0)
	played.tick(730)

	scrubbed := newHarness(t)
	scrubbed.ctrl.Load(growSpec(t))
	scrubbed.ctrl.Pause()
	scrubbed.ctrl.Seek(730)

	assert.Equal(t, played.rec.Ops, scrubbed.rec.Ops)
}

func TestControllerZeroDuration(t *testing.T) {
	h := newHarness(t)
	s := growSpec(t)
	s.Duration = 0
	h.ctrl.Load(s)
	h.tick(16)
	assert.Equal(t, Finished, h.ctrl.State())
	assert.Equal(t, 0.0, h.ctrl.Elapsed())
}

func TestStatus(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Load(growSpec(t))
	h.tick(123.6)

	st := h.ctrl.Status()
	assert.Equal(t, "124 ms / 1000 ms", st.String())
	assert.True(t, st.CanPause)
	assert.False(t, st.CanPlay)
	assert.True(t, st.CanReset)

	h.ctrl.Pause()
	st = h.ctrl.Status()
	assert.True(t, st.CanPlay)
	assert.False(t, st.CanPause)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "finished", Finished.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestStateText(t *testing.T) {
	b, err := Paused.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "paused", string(b))

	var s State
	require.NoError(t, s.UnmarshalText([]byte("finished")))
	assert.Equal(t, Finished, s)
	assert.Error(t, s.UnmarshalText([]byte("rewinding")))
}
