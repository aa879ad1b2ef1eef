package form

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

// Submission results.
const (
	resultCreated = "created"
	resultInvalid = "invalid"
	resultFailed  = "failed"
)

var (
	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crontab",
			Subsystem: "form",
			Name:      "submissions_total",
			Help:      "Total number of CronTab form submissions by mode and result",
		},
		[]string{"mode", "result"},
	)

	createDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crontab",
			Subsystem: "form",
			Name:      "create_duration_seconds",
			Help:      "Duration of CronTab create requests in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
		},
		[]string{"mode"},
	)
)

func init() {
	metrics.Registry.MustRegister(submissionsTotal, createDuration)
}

func recordSubmission(mode Mode, result string) {
	submissionsTotal.WithLabelValues(string(mode), result).Inc()
}

func recordCreateDuration(mode Mode, d time.Duration) {
	createDuration.WithLabelValues(string(mode)).Observe(d.Seconds())
}
