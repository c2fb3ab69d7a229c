// internal/metrics/metrics.go
// Collector Prometheus untuk pipeline ingest dan HTTP API

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReadingsIngested dihitung per meter setelah reading tersimpan.
	ReadingsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grammeter_readings_ingested_total",
		Help: "Total meter readings persisted by the ingest pipeline.",
	}, []string{"meter_id"})

	// ReadingsRejected naik saat payload gagal diparse atau ditolak validasi.
	ReadingsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grammeter_readings_rejected_total",
		Help: "Total readings dropped before persistence.",
	}, []string{"reason"})

	// AnomaliesDetected per tipe dan severity.
	AnomaliesDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grammeter_anomalies_detected_total",
		Help: "Total anomalies classified by the rule engine.",
	}, []string{"type", "severity"})

	// IngestLag mengukur selisih wall clock vs timestamp reading.
	IngestLag = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "grammeter_ingest_lag_seconds",
		Help:    "Delay between reading timestamp and ingestion.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// HTTPDuration per route dan status untuk API utama.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grammeter_http_request_duration_seconds",
		Help:    "HTTP handler latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})

	// NotificationsSent per severity.
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grammeter_notifications_sent_total",
		Help: "Total alert notifications dispatched.",
	}, []string{"severity"})
)
