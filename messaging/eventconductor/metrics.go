package eventconductor

import (
	"context"

	"factionengine/engine/library"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metrics go to whatever MeterProvider is registered globally, a no-op one by default.
type metrics struct {
	handshakes metric.Int64Counter
	actions    metric.Int64Counter
}

func newMetrics() *metrics {
	meter := otel.Meter("factionengine/eventconductor")
	m := &metrics{}
	var err error
	m.handshakes, err = meter.Int64Counter("factionengine.handshakes.total",
		metric.WithDescription("Wallet handshakes by outcome"),
		metric.WithUnit("{handshake}"),
	)
	if err != nil {
		library.LogCLI(err, 2)
	}
	m.actions, err = meter.Int64Counter("factionengine.session.actions.total",
		metric.WithDescription("Session actions by kind and result"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		library.LogCLI(err, 2)
	}
	return m
}

func (m *metrics) handshake(outcome string) {
	if m.handshakes != nil {
		m.handshakes.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func (m *metrics) action(kind string, err error) {
	if m.actions == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	m.actions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("result", result),
	))
}
