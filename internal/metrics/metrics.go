// Package metrics exposes the engine's Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

const namespace = "engine"

var (
	// Long-running deployment metrics
	deploymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deployment",
			Name:      "runs_total",
			Help:      "Total number of long-running deployments by result",
		},
		[]string{"result"},
	)

	deploymentDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "deployment",
			Name:      "duration_seconds",
			Help:      "Duration of the reported run phase in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34min
		},
		[]string{"result"},
	)

	progressReportsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deployment",
			Name:      "progress_reports_total",
			Help:      "Total number of in-progress reports emitted",
		},
	)

	// Transaction metrics
	transactionStepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transaction",
			Name:      "steps_total",
			Help:      "Total number of executed transaction steps by step and result",
		},
		[]string{"step", "result"},
	)

	rollbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transaction",
			Name:      "rollbacks_total",
			Help:      "Total number of rollbacks by result",
		},
		[]string{"result"},
	)

	// Hetzner Cloud API metrics
	hcloudAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hcloud",
			Name:      "api_calls_total",
			Help:      "Total number of Hetzner Cloud API calls by operation and result",
		},
		[]string{"operation", "result"},
	)

	hcloudAPILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "hcloud",
			Name:      "api_latency_seconds",
			Help:      "Latency of Hetzner Cloud API calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 8), // 100ms to ~25s
		},
		[]string{"operation"},
	)

	// Object storage metrics
	archiveUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "object_storage",
			Name:      "archive_uploads_total",
			Help:      "Total number of workspace archive uploads by result",
		},
		[]string{"result"},
	)
)

func init() {
	// Register metrics with controller-runtime's registry
	metrics.Registry.MustRegister(
		deploymentsTotal,
		deploymentDuration,
		progressReportsTotal,
		transactionStepsTotal,
		rollbacksTotal,
		hcloudAPICallsTotal,
		hcloudAPILatency,
		archiveUploadsTotal,
	)
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// RecordDeployment records the outcome of a deployment run phase.
func RecordDeployment(ok bool, duration time.Duration) {
	deploymentsTotal.WithLabelValues(result(ok)).Inc()
	deploymentDuration.WithLabelValues(result(ok)).Observe(duration.Seconds())
}

// RecordProgressReport records one in-progress report.
func RecordProgressReport() {
	progressReportsTotal.Inc()
}

// RecordTransactionStep records an executed transaction step.
func RecordTransactionStep(step string, ok bool) {
	transactionStepsTotal.WithLabelValues(step, result(ok)).Inc()
}

// RecordRollback records a rollback outcome.
func RecordRollback(ok bool) {
	rollbacksTotal.WithLabelValues(result(ok)).Inc()
}

// RecordHCloudAPICall records a Hetzner Cloud API call.
func RecordHCloudAPICall(operation string, ok bool, latency time.Duration) {
	hcloudAPICallsTotal.WithLabelValues(operation, result(ok)).Inc()
	hcloudAPILatency.WithLabelValues(operation).Observe(latency.Seconds())
}

// RecordArchiveUpload records a workspace archive upload.
func RecordArchiveUpload(ok bool) {
	archiveUploadsTotal.WithLabelValues(result(ok)).Inc()
}

// Handler serves the registered metrics in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})
}
