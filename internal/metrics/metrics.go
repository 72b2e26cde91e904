// Package metrics collects per-run counters and timings and can export them
// in the Prometheus text format for a node_exporter textfile collector.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every imgkit collector. It is separate from the default
// registry so that an export contains only imgkit series.
var Registry = prometheus.NewRegistry()

var (
	filesProcessedTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "imgkit_files_processed_total",
			Help: "Total number of files processed",
		},
		[]string{"operation", "status"}, // status: success, error
	)

	processingDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "imgkit_processing_duration_seconds",
			Help:    "Per-file processing duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	qrGeneratedTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "imgkit_qrcodes_generated_total",
			Help: "Total number of QR codes generated",
		},
		[]string{"with_icon"},
	)

	coverageWarningsTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "imgkit_coverage_ratio_warnings_total",
			Help: "Number of generations with an icon ratio outside the recommended range",
		},
	)

	verifyFailuresTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "imgkit_qrcode_verify_failures_total",
			Help: "Number of generated QR codes that did not decode back to their payload",
		},
	)
)

// ObserveFile records the outcome and duration of one processed file.
func ObserveFile(operation string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	filesProcessedTotal.WithLabelValues(operation, status).Inc()
	processingDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveQRCode records one generated QR code.
func ObserveQRCode(withIcon bool) {
	qrGeneratedTotal.WithLabelValues(strconv.FormatBool(withIcon)).Inc()
}

// ObserveCoverageWarning records an out-of-range icon ratio.
func ObserveCoverageWarning() { coverageWarningsTotal.Inc() }

// ObserveVerifyFailure records a QR code that failed read-back.
func ObserveVerifyFailure() { verifyFailuresTotal.Inc() }

// WriteTextfile writes the current state of Registry to path, atomically.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
