package stream

import (
	"context"

	"github.com/matt-g-everett/vistx/spec"
)

// Remote drives a Controller from other goroutines by running every call on
// the goroutine that owns it.
type Remote struct {
	do   func(func())
	ctrl *Controller
}

// NewRemote wraps ctrl; do must run its argument on the controller's goroutine,
// e.g. Loop.Do.
func NewRemote(do func(func()), ctrl *Controller) *Remote {
	return &Remote{do: do, ctrl: ctrl}
}

func (r *Remote) call(ctx context.Context, fn func()) (Status, error) {
	var st Status
	done := make(chan struct{})
	r.do(func() {
		if fn != nil {
			fn()
		}
		st = r.ctrl.Status()
		close(done)
	})
	select {
	case <-done:
		return st, nil
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}

// Status returns the controller status.
func (r *Remote) Status(ctx context.Context) (Status, error) {
	return r.call(ctx, nil)
}

// Play resumes playback and returns the new status.
func (r *Remote) Play(ctx context.Context) (Status, error) {
	return r.call(ctx, r.ctrl.Play)
}

// Pause pauses playback and returns the new status.
func (r *Remote) Pause(ctx context.Context) (Status, error) {
	return r.call(ctx, r.ctrl.Pause)
}

// Reset rewinds playback and returns the new status.
func (r *Remote) Reset(ctx context.Context) (Status, error) {
	return r.call(ctx, r.ctrl.Reset)
}

// Seek scrubs to ms and returns the new status.
func (r *Remote) Seek(ctx context.Context, ms float64) (Status, error) {
	return r.call(ctx, func() { r.ctrl.Seek(ms) })
}

// Load presents s without waiting for the controller.
func (r *Remote) Load(s *spec.Spec) {
	r.do(func() { r.ctrl.Load(s) })
}
