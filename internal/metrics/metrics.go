package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	EmailsIngested          prometheus.Counter
	ClassificationSuccesses prometheus.Counter
	ClassificationFailures  prometheus.Counter
	FallbackReplies         prometheus.Counter
	SyncPulls               prometheus.Counter
	SyncErrors              prometheus.Counter
	QueueDepth              prometheus.Gauge
	ClassificationTime      prometheus.Histogram
}

// NewMetrics creates new Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		EmailsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "email_triage_emails_ingested_total",
			Help: "Total number of emails inserted and enqueued for classification",
		}),
		ClassificationSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "email_triage_classification_successes_total",
			Help: "Total number of emails classified with a service result",
		}),
		ClassificationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "email_triage_classification_failures_total",
			Help: "Total number of classification service failures absorbed by the worker",
		}),
		FallbackReplies: promauto.NewCounter(prometheus.CounterOpts{
			Name: "email_triage_fallback_replies_total",
			Help: "Total number of emails stored with the fixed fallback reply",
		}),
		SyncPulls: promauto.NewCounter(prometheus.CounterOpts{
			Name: "email_triage_sync_pulls_total",
			Help: "Total number of external data store sync cycles",
		}),
		SyncErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "email_triage_sync_errors_total",
			Help: "Total number of failed external data store sync cycles",
		}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "email_triage_queue_depth",
			Help: "Number of entries currently waiting in the classification queue",
		}),
		ClassificationTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "email_triage_classification_duration_seconds",
			Help:    "Time spent classifying a single email",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
