package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/maplelabs/chaos-actions/pkg/log"
	"github.com/maplelabs/chaos-actions/pkg/restart"
)

// ExperimentMetrics counts cycles and confirmed disruptions for scraping.
type ExperimentMetrics struct {
	cycles    otelmetric.Int64Counter
	confirmed otelmetric.Int64Counter
	failed    otelmetric.Int64Counter
}

// NewExperimentMetrics registers the experiment counters on the global meter
// provider.
func NewExperimentMetrics() (*ExperimentMetrics, error) {
	meter := otel.Meter(TracerName)

	cycles, err := meter.Int64Counter("chaos_cycles_total",
		otelmetric.WithDescription("Number of chaos cycles run"))
	if err != nil {
		return nil, err
	}
	confirmed, err := meter.Int64Counter("chaos_restarts_confirmed_total",
		otelmetric.WithDescription("Number of restarts confirmed by the verifier"))
	if err != nil {
		return nil, err
	}
	failed, err := meter.Int64Counter("chaos_targets_failed_total",
		otelmetric.WithDescription("Number of targets with no observed restart"))
	if err != nil {
		return nil, err
	}
	return &ExperimentMetrics{cycles: cycles, confirmed: confirmed, failed: failed}, nil
}

// RecordCycle folds one cycle report into the counters.
func (m *ExperimentMetrics) RecordCycle(ctx context.Context, experiment string, cycle restart.CycleReport) {
	if m == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("experiment", experiment))
	m.cycles.Add(ctx, 1, attrs)
	m.confirmed.Add(ctx, int64(cycle.Confirmed()), attrs)
	m.failed.Add(ctx, int64(len(cycle.Outcomes)-cycle.Confirmed()), attrs)
}

// ServeMetrics exposes the prometheus scrape endpoint in the background.
func ServeMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Errorf("metrics listener stopped: %v", err)
		}
	}()
}
