package overlay

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/mapbridge/mapbridge/internal/overlay"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Counted is any controller that can report its live overlay count.
type Counted interface {
	Kind() string
	Len() int
}

// ObserveLive reports the live overlay count of each controller on the
// overlay.live gauge. Unregister the returned registration on teardown.
func ObserveLive(viewID string, controllers ...Counted) (metric.Registration, error) {
	m := meter()
	gauge, err := m.Int64ObservableGauge("overlay.live",
		metric.WithDescription("Live overlays per kind"),
	)
	if err != nil {
		return nil, err
	}
	return m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for _, c := range controllers {
			o.ObserveInt64(gauge, int64(c.Len()), metric.WithAttributes(
				attribute.String("kind", c.Kind()),
				attribute.String("view", viewID),
			))
		}
		return nil
	}, gauge)
}
