// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_http_requests_total",
			Help: "Total number of inbound HTTP requests",
		},
		[]string{"endpoint", "status"},
	)

	OrdersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_orders_created_total",
			Help: "Total number of draft orders created",
		},
	)

	OrdersRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_orders_rejected_total",
			Help: "Total number of order requests rejected",
		},
		[]string{"reason"},
	)

	InventoryChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_inventory_checks_total",
			Help: "Total number of inventory availability checks",
		},
		[]string{"result"},
	)

	CommerceAPIDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gateway_commerce_api_duration_seconds",
			Help: "Duration of commerce API calls in seconds",
		},
		[]string{"operation"},
	)

	WebhookNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_webhook_notifications_total",
			Help: "Total number of webhook relay attempts",
		},
		[]string{"event", "status"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gateway_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)
)
