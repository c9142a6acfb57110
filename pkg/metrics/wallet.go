package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Purchases recorded through /api/tsu/purchase, labelled by payment method
	// and terminal outcome (credited, duplicate, rejected, error).
	PurchaseTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tsu_purchase_total",
		Help: "TSU purchase requests by payment method and outcome",
	}, []string{"method", "outcome"})

	PurchaseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tsu_purchase_duration_seconds",
		Help:    "Latency of the TSU purchase flow",
		Buckets: prometheus.DefBuckets,
	})

	TransferTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tsu_transfer_total",
		Help: "Completed peer-to-peer TSU transfers",
	})

	TransferDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tsu_transfer_duration_seconds",
		Help:    "Latency of peer-to-peer transfers",
		Buckets: prometheus.DefBuckets,
	})

	WebhookEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "paypal_webhook_events_total",
		Help: "PayPal webhook events by event type",
	}, []string{"event_type"})

	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Login attempts by result",
	}, []string{"result"})
)

func Init() {
	prometheus.MustRegister(
		PurchaseTotal,
		PurchaseDuration,
		TransferTotal,
		TransferDuration,
		WebhookEvents,
		LoginAttempts,
	)
}
