package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder counts operations by outcome and records their latency.
type PrometheusRecorder struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheusRecorder registers materialsmc_operations_total and
// materialsmc_operation_duration_seconds with reg (the default registerer when
// nil). Registering twice against one registry fails.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &PrometheusRecorder{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "materialsmc",
			Name:      "operations_total",
			Help:      "Nuclide resolve, download and parse operations by status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "materialsmc",
			Name:      "operation_duration_seconds",
			Help:      "Latency of nuclide operations.",
			Buckets:   []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1, 5, 30, 120},
		}, []string{"operation"}),
	}
	for _, c := range []prometheus.Collector{r.total, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return r, nil
}

func (r *PrometheusRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	r.total.WithLabelValues(operation, status(success)).Inc()
	r.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// MultiRecorder fans observations out to several recorders.
type MultiRecorder []MetricsRecorder

func (m MultiRecorder) Observe(ctx context.Context, operation string, success bool, duration time.Duration) {
	for _, r := range m {
		r.Observe(ctx, operation, success, duration)
	}
}
