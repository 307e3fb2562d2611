package compile

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for route compilation.
//
// Metrics collected:
//   - filerouter_compilations_total: Counter of compilations by status
//   - filerouter_compile_duration_seconds: Histogram of compile duration
//   - filerouter_routes: Gauge of route nodes in the last successful compile
//
// A nil *Metrics records nothing.
type Metrics struct {
	compilations *prometheus.CounterVec
	duration     prometheus.Histogram
	routes       prometheus.Gauge
}

// NewMetrics registers the compile collectors with registry.
// A nil registry means prometheus.DefaultRegisterer.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		compilations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "filerouter",
			Name:      "compilations_total",
			Help:      "Total number of route compilations",
		}, []string{"status"}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "filerouter",
			Name:      "compile_duration_seconds",
			Help:      "Route compilation duration in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}),

		routes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "filerouter",
			Name:      "routes",
			Help:      "Number of route nodes produced by the last successful compilation",
		}),
	}
}

func (m *Metrics) observe(d time.Duration, routes int, err error) {
	if m == nil {
		return
	}
	m.duration.Observe(d.Seconds())
	if err != nil {
		m.compilations.WithLabelValues("error").Inc()
		return
	}
	m.compilations.WithLabelValues("success").Inc()
	m.routes.Set(float64(routes))
}
