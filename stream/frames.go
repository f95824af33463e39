package stream

import (
	"context"
	"sync"
	"time"
)

// FrameID identifies a requested frame callback. Zero is never issued.
type FrameID uint64

// Scheduler delivers frame callbacks on display refresh.
type Scheduler interface {
	RequestFrame(fn func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

type frameRequest struct {
	id FrameID
	fn func(now time.Time)
}

// FrameQueue collects frame callbacks and runs them in batches, one batch per
// refresh. Callbacks requested while a batch runs wait for the next batch, and
// a callback cancelled before it runs never runs.
type FrameQueue struct {
	mu      sync.Mutex
	next    FrameID
	pending []frameRequest
	running []frameRequest
}

// RequestFrame queues fn for the next refresh.
func (q *FrameQueue) RequestFrame(fn func(now time.Time)) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.pending = append(q.pending, frameRequest{id: q.next, fn: fn})
	return q.next
}

// CancelFrame drops a queued callback. Unknown ids are ignored.
func (q *FrameQueue) CancelFrame(id FrameID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, r := range q.pending {
		if r.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
	for i, r := range q.running {
		if r.id == id {
			q.running[i].fn = nil
			return
		}
	}
}

// Pending returns the number of callbacks waiting for the next refresh.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// RunFrames runs the current batch with the refresh time and returns how many
// callbacks ran.
func (q *FrameQueue) RunFrames(now time.Time) int {
	q.mu.Lock()
	q.running, q.pending = q.pending, nil
	q.mu.Unlock()

	n := 0
	for i := 0; ; i++ {
		q.mu.Lock()
		if i >= len(q.running) {
			q.running = nil
			q.mu.Unlock()
			return n
		}
		fn := q.running[i].fn
		q.mu.Unlock()

		if fn != nil {
			fn(now)
			n++
		}
	}
}

// Loop drives a FrameQueue from a ticker and runs control actions on the same
// goroutine, so frame callbacks and actions never overlap.
type Loop struct {
	FrameQueue
	interval time.Duration
	actions  chan func()
}

// NewLoop creates a Loop refreshing fps times per second.
func NewLoop(fps float64) *Loop {
	if fps <= 0 {
		fps = 60
	}
	l := new(Loop)
	l.interval = time.Duration(float64(time.Second) / fps)
	l.actions = make(chan func(), 64)
	return l
}

// Do queues fn to run on the loop goroutine.
func (l *Loop) Do(fn func()) {
	l.actions <- fn
}

// Run processes refreshes and actions until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.actions:
			fn()
		case now := <-ticker.C:
			l.RunFrames(now)
		}
	}
}
