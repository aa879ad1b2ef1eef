package handlers

import (
	"context"

	"github.com/prometheus/client_golang/prometheus/push"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

// metricsJob is the Pushgateway job the create command pushes under.
const metricsJob = "crontab_create"

// pushMetrics sends the metrics registry, which holds the form submission
// counters, to a Pushgateway. Failures are logged only.
func pushMetrics(ctx context.Context, url string) {
	if url == "" {
		return
	}
	logger := log.FromContext(ctx).WithValues("pushgateway", url, "job", metricsJob)

	if err := push.New(url, metricsJob).Gatherer(metrics.Registry).PushContext(ctx); err != nil {
		logger.Error(err, "failed to push metrics")
		return
	}
	logger.V(1).Info("pushed metrics")
}
