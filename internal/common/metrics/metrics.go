package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_generations_total",
			Help: "Total number of report pipeline runs by renderer and outcome",
		},
		[]string{"renderer", "status"},
	)

	ReportFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_failures_total",
			Help: "Total number of failed report pipeline runs by stage and error code",
		},
		[]string{"stage", "error_code"},
	)

	ReportStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_stage_duration_seconds",
			Help:    "Duration of each report pipeline stage in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	ReportsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "report_generations_active",
			Help: "Number of report pipeline runs in flight",
		},
	)

	StoreUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_updates_total",
			Help: "Total number of validated store writes by collection and outcome",
		},
		[]string{"collection", "result"},
	)
)
