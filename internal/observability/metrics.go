package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "asterctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"app", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "asterctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"app", "method", "path", "status"},
	)
	gateVerdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "asterctl",
			Subsystem: "gate",
			Name:      "verdicts_total",
			Help:      "Gate verdicts by gate name and status.",
		},
		[]string{"gate", "status"},
	)
	evaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "asterctl",
			Subsystem: "gate",
			Name:      "evaluation_duration_seconds",
			Help:      "Governance evaluation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"overall"},
	)
	launchAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "asterctl",
			Subsystem: "launch",
			Name:      "attempts_total",
			Help:      "Launch attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, gateVerdicts, evaluationDuration, launchAttempts)
	})
}

func RecordHTTPRequest(app, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(app, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(app, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordVerdict counts one gate verdict.
func RecordVerdict(gate, status string) {
	RegisterMetrics()
	gateVerdicts.WithLabelValues(gate, status).Inc()
}

// RecordEvaluation times one complete governance evaluation.
func RecordEvaluation(overall string, duration time.Duration) {
	RegisterMetrics()
	evaluationDuration.WithLabelValues(overall).Observe(duration.Seconds())
}

// RecordLaunchAttempt counts one launch attempt outcome: "handed-off" or
// the planner error kind that stopped it.
func RecordLaunchAttempt(outcome string) {
	RegisterMetrics()
	launchAttempts.WithLabelValues(outcome).Inc()
}
