package stream

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/time/rate"
)

// Publisher sends a payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// MQTTPublisher publishes through a connected paho client.
type MQTTPublisher struct {
	Client mqtt.Client
	QoS    byte
}

func (p MQTTPublisher) Publish(topic string, payload []byte) error {
	token := p.Client.Publish(topic, p.QoS, false, payload)
	token.Wait()
	return token.Error()
}

// Streamer publishes rendered frames. Frames are offered from the playback
// goroutine and sent from Run, newest first; a frame still waiting when a
// newer one arrives is dropped.
type Streamer struct {
	pub     Publisher
	topic   string
	limiter *rate.Limiter
	frames  chan *Frame
	latest  atomic.Pointer[Frame]
	logger  *slog.Logger
}

// NewStreamer creates a Streamer sending at most fps frames per second to
// topic. A non-positive fps disables the limit.
func NewStreamer(pub Publisher, topic string, fps float64) *Streamer {
	s := new(Streamer)
	s.pub = pub
	s.topic = topic
	limit := rate.Inf
	if fps > 0 {
		limit = rate.Limit(fps)
	}
	s.limiter = rate.NewLimiter(limit, 1)
	s.frames = make(chan *Frame, 1)
	s.logger = slog.Default().With("component", "streamer")
	return s
}

// Offer hands a drawn frame to the streamer. snapshot is only called when the
// frame will be kept. Frames that end playback bypass the rate limit so the
// final picture is always sent. Reports whether the frame was kept.
func (s *Streamer) Offer(info FrameInfo, snapshot func() *image.RGBA) bool {
	if info.State == Playing && !s.limiter.Allow() {
		return false
	}
	f := NewFrame(info, snapshot())
	s.latest.Store(f)
	for {
		select {
		case s.frames <- f:
			return true
		default:
		}
		select {
		case <-s.frames:
		default:
		}
	}
}

// Latest returns the most recently kept frame, or nil.
func (s *Streamer) Latest() *Frame {
	return s.latest.Load()
}

// SendFrame encodes and publishes one frame.
func (s *Streamer) SendFrame(f *Frame) error {
	if s.pub == nil || s.topic == "" {
		return nil
	}
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	if err := s.pub.Publish(s.topic, b); err != nil {
		return fmt.Errorf("publish to %s failed: %w", s.topic, err)
	}
	return nil
}

// Run sends offered frames until ctx is done.
func (s *Streamer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-s.frames:
			if err := s.SendFrame(f); err != nil {
				s.logger.Warn("frame not sent", "spec", f.Info.SpecID, "error", err)
			}
		}
	}
}
