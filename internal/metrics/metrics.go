// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ideahub-backend/internal/domain"
)

// Collector holds the Prometheus collectors for the credential lifecycle and
// the notification gateway
type Collector struct {
	registry *prometheus.Registry

	exchanges            *prometheus.CounterVec
	refreshes            *prometheus.CounterVec
	notificationsSent    prometheus.Counter
	notificationsDropped prometheus.Counter
	activeConnections    prometheus.Gauge
}

// NewCollector creates a Collector with its own registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		exchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideahub_oauth_exchanges_total",
			Help: "Authorization code exchanges by provider and result",
		}, []string{"provider", "result"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideahub_token_refreshes_total",
			Help: "Token refresh attempts by provider and result",
		}, []string{"provider", "result"}),
		notificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ideahub_notifications_delivered_total",
			Help: "Reminder events handed to a live connection",
		}),
		notificationsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ideahub_notifications_dropped_total",
			Help: "Reminder events dropped because a connection was too slow",
		}),
		activeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ideahub_active_connections",
			Help: "Live authenticated real-time connections",
		}),
	}

	c.registry.MustRegister(
		c.exchanges,
		c.refreshes,
		c.notificationsSent,
		c.notificationsDropped,
		c.activeConnections,
	)

	return c
}

// Handler returns the HTTP handler serving the metrics endpoint
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordExchange records a code exchange outcome
func (c *Collector) RecordExchange(provider domain.Provider, result string) {
	c.exchanges.WithLabelValues(string(provider), result).Inc()
}

// RecordRefresh records a token refresh outcome
func (c *Collector) RecordRefresh(provider domain.Provider, result string) {
	c.refreshes.WithLabelValues(string(provider), result).Inc()
}

// RecordNotificationDelivered records a reminder handed to a connection
func (c *Collector) RecordNotificationDelivered() {
	c.notificationsSent.Inc()
}

// RecordNotificationDropped records a reminder dropped on a slow connection
func (c *Collector) RecordNotificationDropped() {
	c.notificationsDropped.Inc()
}

// ConnectionOpened increments the live connection gauge
func (c *Collector) ConnectionOpened() {
	c.activeConnections.Inc()
}

// ConnectionClosed decrements the live connection gauge
func (c *Collector) ConnectionClosed() {
	c.activeConnections.Dec()
}
