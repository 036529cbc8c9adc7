package httpx

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments outbound requests with Prometheus collectors.
type Metrics struct {
	InFlight prometheus.Gauge
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics registers the client collectors on reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "easemob",
			Subsystem: "client",
			Name:      "in_flight_requests",
			Help:      "Outbound EaseMob API requests currently in flight.",
		}),
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "easemob",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Outbound EaseMob API requests by status code and method.",
		}, []string{"code", "method"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "easemob",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Latency of outbound EaseMob API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method"}),
	}
}

// Middleware returns the instrumentation as a transport middleware.
func (m *Metrics) Middleware() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return promhttp.InstrumentRoundTripperInFlight(m.InFlight,
			promhttp.InstrumentRoundTripperCounter(m.Requests,
				promhttp.InstrumentRoundTripperDuration(m.Duration, next),
			),
		)
	}
}
