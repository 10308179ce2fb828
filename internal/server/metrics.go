package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Prometheus metrics of the resolve service.
type metrics struct {
	resolutionsTotal *prometheus.CounterVec
	missesTotal      prometheus.Counter
	errorsTotal      *prometheus.CounterVec
	resolveDuration  prometheus.Histogram
}

func newMetrics(namespace string, registry prometheus.Registerer) *metrics {
	factory := promauto.With(registry)

	return &metrics{
		resolutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Total number of inputs resolved, by route",
		}, []string{"route"}),

		missesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "misses_total",
			Help:      "Total number of inputs no route matched",
		}),

		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of rejected resolve requests, by reason",
		}, []string{"reason"}),

		resolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Route lookup duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10),
		}),
	}
}
