// Package observability wires logging and Prometheus metrics for the
// report pipeline.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the application's own prometheus registry, kept separate
// from the default one so /metrics exposes only our series.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// SnapshotFetchDuration tracks time spent retrieving one raw snapshot,
// labelled by source backend.
var SnapshotFetchDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "leakwatch",
	Name:      "snapshot_fetch_duration_seconds",
	Help:      "Time taken to retrieve a full raw table snapshot",
	Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
}, []string{"source"})

// ReportsGenerated counts completed report generations by report kind.
var ReportsGenerated = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "leakwatch",
	Name:      "reports_generated_total",
	Help:      "Completed report generations by kind",
}, []string{"kind"})

// ReportErrors counts failed report generations by error type.
var ReportErrors = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "leakwatch",
	Name:      "report_errors_total",
	Help:      "Failed report generations by error type",
}, []string{"kind", "error_type"})

// NormalizationDefaults counts substituted defaults during normalization,
// labelled by table and column. A rising series means the source data
// quality is degrading even though reports still render.
var NormalizationDefaults = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "leakwatch",
	Name:      "normalization_defaults_total",
	Help:      "Cells that fell back to a documented default during normalization",
}, []string{"table", "column"})
