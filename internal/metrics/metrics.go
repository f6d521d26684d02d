package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	modelCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decido_model_calls_total",
			Help: "Calls to hosted models, by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	modelLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "decido_model_call_seconds",
			Help:    "Latency of hosted model calls.",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"operation"},
	)
	verdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decido_evaluations_total",
			Help: "Completed evaluations, by final verdict.",
		},
		[]string{"verdict"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decido_http_requests_total",
			Help: "HTTP requests, by method and status code.",
		},
		[]string{"method", "status"},
	)
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decido_explain_cache_lookups_total",
			Help: "Explain cache lookups, by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(modelCalls, modelLatency, verdicts, httpRequests, cacheLookups)
}

// ObserveModelCall records one model call. err decides the outcome label.
func ObserveModelCall(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	modelCalls.WithLabelValues(operation, outcome).Inc()
	modelLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func ObserveVerdict(verdict string) {
	verdicts.WithLabelValues(verdict).Inc()
}

func ObserveHTTPRequest(method string, status int) {
	httpRequests.WithLabelValues(method, statusLabel(status)).Inc()
}

func ObserveCacheLookup(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
