package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "servicehub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "servicehub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	QuotationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "servicehub_quotations_total",
			Help: "Total number of quotation state changes",
		},
		[]string{"state"},
	)

	SettlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "servicehub_settlements_total",
			Help: "Total number of quotation acceptance attempts by result",
		},
		[]string{"result"},
	)

	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "servicehub_booking_transitions_total",
			Help: "Total number of booking request state transitions",
		},
		[]string{"action"},
	)

	DisputesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "servicehub_disputes_total",
			Help: "Total number of disputes filed",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "servicehub_notifications_total",
			Help: "Total number of notifications dispatched",
		},
		[]string{"kind", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "servicehub_notification_queue_length",
			Help: "Current length of the push notification queue",
		},
	)

	WalletTopUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "servicehub_wallet_topups_total",
			Help: "Total number of wallet top-ups",
		},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "servicehub_subscriptions_created_total",
			Help: "Total number of provider subscriptions created",
		},
		[]string{"plan"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordQuotation(state string) {
	QuotationsTotal.WithLabelValues(state).Inc()
}

// RecordSettlement counts an accept attempt; result is "ok" or the error kind.
func RecordSettlement(result string) {
	SettlementsTotal.WithLabelValues(result).Inc()
}

func RecordBookingTransition(action string) {
	BookingTransitionsTotal.WithLabelValues(action).Inc()
}

func RecordDispute() {
	DisputesTotal.Inc()
}

func RecordNotification(kind, status string) {
	NotificationsTotal.WithLabelValues(kind, status).Inc()
}

func RecordWalletTopUp() {
	WalletTopUpsTotal.Inc()
}

func RecordSubscription(plan string) {
	SubscriptionsCreatedTotal.WithLabelValues(plan).Inc()
}
