package observability

import (
	"net/http"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// File parse results used as the "result" label.
const (
	ResultParsed     = "parsed"
	ResultParseError = "parse_error"
	ResultReadError  = "read_error"
)

var (
	// FilesParsedTotal counts parsed input files by kind and result.
	FilesParsedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slncfg_files_parsed_total",
			Help: "Total number of input files parsed by kind and result",
		},
		[]string{"kind", "result"},
	)

	// DiagnosticsTotal counts emitted diagnostics by severity.
	DiagnosticsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slncfg_diagnostics_total",
			Help: "Total number of package management diagnostics by severity",
		},
		[]string{"severity"},
	)

	// FrameworkResolutionsTotal counts target framework resolutions by winning source.
	FrameworkResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slncfg_framework_resolutions_total",
			Help: "Total number of target framework resolutions by source",
		},
		[]string{"source"},
	)

	// OperationDuration tracks analysis operation duration in seconds.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slncfg_operation_duration_seconds",
			Help:    "Analysis operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to 8s
		},
		[]string{"operation"},
	)
)

// RecordFileParse counts one parsed file.
func RecordFileParse(kind, result string) {
	FilesParsedTotal.WithLabelValues(kind, result).Inc()
}

// RecordDiagnostic counts one emitted diagnostic.
func RecordDiagnostic(severity string) {
	DiagnosticsTotal.WithLabelValues(severity).Inc()
}

// RecordFrameworkResolution counts one target framework resolution.
func RecordFrameworkResolution(source string) {
	FrameworkResolutionsTotal.WithLabelValues(source).Inc()
}

// ObserveOperation records how long an operation took since start.
func ObserveOperation(operation string, start time.Time) {
	OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// MetricsHandler returns an HTTP handler for Prometheus metrics
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer serves /metrics on addr until the server fails.
func StartMetricsServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler())
	return http.ListenAndServe(addr, mux)
}

// GetCounterValue reads the current value of a counter with the given labels.
// Intended for tests.
func GetCounterValue(counter *prometheus.CounterVec, labels ...string) (float64, error) {
	metric, err := counter.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}

	if pb.Counter != nil {
		return pb.Counter.GetValue(), nil
	}
	return 0, nil
}
