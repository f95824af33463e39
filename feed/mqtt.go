package feed

import (
	"context"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTSource delivers feed events published on an MQTT topic.
type MQTTSource struct {
	client mqtt.Client
	topic  string
	qos    byte
	logger *slog.Logger
}

// NewMQTTSource creates a source on a connected client.
func NewMQTTSource(client mqtt.Client, topic string) *MQTTSource {
	s := new(MQTTSource)
	s.client = client
	s.topic = topic
	s.qos = 1
	s.logger = slog.Default().With("component", "feed", "source", "mqtt", "topic", topic)
	return s
}

func (s *MQTTSource) handleMessage(handler Handler) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		s.logger.Debug("received message", "id", msg.MessageID(), "bytes", len(msg.Payload()))
		dispatch(s.logger, handler, msg.Payload())
	}
}

// Subscribe starts delivering events to handler. Paho calls handler from its
// own goroutine.
func (s *MQTTSource) Subscribe(handler Handler) error {
	token := s.client.Subscribe(s.topic, s.qos, s.handleMessage(handler))
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s failed: %w", s.topic, token.Error())
	}
	return nil
}

// Run subscribes and blocks until ctx is done, then unsubscribes.
func (s *MQTTSource) Run(ctx context.Context, handler Handler) error {
	if err := s.Subscribe(handler); err != nil {
		return err
	}
	<-ctx.Done()
	token := s.client.Unsubscribe(s.topic)
	token.Wait()
	return ctx.Err()
}

func dispatch(logger *slog.Logger, handler Handler, payload []byte) {
	ev, err := DecodeEvent(payload)
	if err != nil {
		logger.Warn("dropping feed message", "error", err)
		return
	}
	handler(ev)
}
