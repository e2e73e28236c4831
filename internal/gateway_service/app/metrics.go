package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	webhookEventsNormalizedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "webhook_events_normalized_total",
			Help:      "Total number of inbound events produced by webhook normalization.",
		},
		[]string{"kind"},
	)

	eventsProcessedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "events_processed_total",
			Help:      "Total number of inbound events processed.",
		},
		[]string{"kind", "status"}, // status: "success", "error"
	)

	eventProcessingDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gateway",
			Name:      "event_processing_duration_seconds",
			Help:      "Duration of inbound event processing.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	deliveriesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "deliveries_total",
			Help:      "Total number of outbound reply deliveries attempted.",
		},
		[]string{"channel", "status"}, // status: "accepted", "failed"
	)

	queueDroppedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "queue_dropped_total",
			Help:      "Total number of webhook payloads dropped because the work queue was full.",
		},
	)

	queueDepthGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gateway",
			Name:      "queue_depth",
			Help:      "Current number of webhook payloads waiting in the work queue.",
		},
	)
)
