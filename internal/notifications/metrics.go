package notifications

import (
	"time"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notificationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: "notifications",
			Name:      "queue_depth",
			Help:      "Number of notifications waiting for a worker",
		},
	)

	notificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "notifications",
			Name:      "sent_total",
			Help:      "Total notification delivery attempts by outcome",
		},
		[]string{"kind", "status"},
	)

	notificationSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: "notifications",
			Name:      "send_duration_seconds",
			Help:      "Time to hand a notification to the sender",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"kind"},
	)
)

func recordNotificationSent(kind Kind, status deliveryStatus) {
	notificationsSent.WithLabelValues(string(kind), string(status)).Inc()
}

func recordNotificationDuration(kind Kind, duration time.Duration) {
	notificationSendDuration.WithLabelValues(string(kind)).Observe(duration.Seconds())
}

func recordQueueDepth(depth int) {
	notificationQueueDepth.Set(float64(depth))
}
