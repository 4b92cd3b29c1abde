package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	HTTPInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "loyalty",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loyalty",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loyalty",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	pointsApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loyalty",
			Subsystem: "ledger",
			Name:      "points_total",
			Help:      "Absolute points moved through the ledger by transaction type.",
		},
		[]string{"type"},
	)

	tierUpgrades = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loyalty",
			Subsystem: "tiers",
			Name:      "upgrades_total",
			Help:      "Tier transitions by target tier.",
		},
		[]string{"tier"},
	)

	redemptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loyalty",
			Subsystem: "rewards",
			Name:      "redemptions_total",
			Help:      "Redemption lifecycle events by status.",
		},
		[]string{"status"},
	)

	whatsappMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loyalty",
			Subsystem: "whatsapp",
			Name:      "messages_total",
			Help:      "Outbound WhatsApp messages by resulting status.",
		},
		[]string{"status"},
	)

	erpSyncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loyalty",
			Subsystem: "erp",
			Name:      "sync_runs_total",
			Help:      "ERP sync runs by kind and status.",
		},
		[]string{"kind", "status"},
	)

	erpSyncDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loyalty",
			Subsystem: "erp",
			Name:      "sync_duration_seconds",
			Help:      "Duration of ERP sync runs.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"kind"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPInFlight,
		httpRequests,
		httpDuration,
		pointsApplied,
		tierUpgrades,
		redemptions,
		whatsappMessages,
		erpSyncRuns,
		erpSyncDuration,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordPoints(transactionType string, points int) {
	if points < 0 {
		points = -points
	}
	pointsApplied.WithLabelValues(transactionType).Add(float64(points))
}

func RecordTierUpgrade(tier string) {
	tierUpgrades.WithLabelValues(tier).Inc()
}

func RecordRedemption(status string) {
	redemptions.WithLabelValues(status).Inc()
}

func RecordWhatsAppMessage(status string) {
	whatsappMessages.WithLabelValues(status).Inc()
}

func RecordERPSync(kind, status string, duration time.Duration) {
	erpSyncRuns.WithLabelValues(kind, status).Inc()
	erpSyncDuration.WithLabelValues(kind).Observe(duration.Seconds())
}
