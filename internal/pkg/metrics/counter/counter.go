package counter

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	PlatformBilling  = "billing"
	PlatformDocument = "document"

	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	// WebhookRequestsTotal counts inbound webhook requests by route and HTTP status.
	WebhookRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "invoicerelay",
		Subsystem: "webhook",
		Name:      "requests_total",
		Help:      "Total inbound webhook requests by route and HTTP status.",
	}, []string{"route", "status"})

	// WebhookDuration tracks end-to-end handler latency including remote calls.
	WebhookDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "invoicerelay",
		Subsystem: "webhook",
		Name:      "duration_seconds",
		Help:      "Inbound webhook handling duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	// RemoteCallsTotal counts outbound platform calls by operation and outcome.
	RemoteCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "invoicerelay",
		Subsystem: "remote",
		Name:      "calls_total",
		Help:      "Outbound platform calls by platform, operation and outcome.",
	}, []string{"platform", "operation", "outcome"})

	// MissingCorrelationTotal counts payment events without a record id in metadata.
	MissingCorrelationTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "invoicerelay",
		Subsystem: "webhook",
		Name:      "missing_correlation_total",
		Help:      "Payment events acknowledged without a record id in metadata.",
	})
)

// AddWebhookRequest records one finished webhook request.
func AddWebhookRequest(route string, status int, elapsed time.Duration) {
	WebhookRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	WebhookDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// AddRemoteCall records the outcome of one outbound platform call.
func AddRemoteCall(platform, operation string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	RemoteCallsTotal.WithLabelValues(platform, operation, outcome).Inc()
}

func AddMissingCorrelation() {
	MissingCorrelationTotal.Inc()
}
