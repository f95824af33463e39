package stream

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/matt-g-everett/vistx/stream"

type metrics struct {
	rendered metric.Int64Counter
	failed   metric.Int64Counter
	loaded   metric.Int64Counter
}

func newMetrics() *metrics {
	meter := otel.Meter(meterName)
	m := new(metrics)
	m.rendered = counter(meter, "vistx.frames.rendered", "Frames drawn by the playback controller")
	m.failed = counter(meter, "vistx.frames.failed", "Frames whose draw failed and was retried")
	m.loaded = counter(meter, "vistx.specs.loaded", "Visualization specs presented for playback")
	return m
}

func counter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}

func (m *metrics) add(c metric.Int64Counter, specID string) {
	c.Add(context.Background(), 1, metric.WithAttributes(attribute.String("spec.id", specID)))
}
