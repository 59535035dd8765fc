// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "flota_active_sessions",
			Help: "Number of tenant-resolution sessions currently held in memory.",
		})

	SessionEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flota_session_evict_total",
			Help: "Cumulative number of sessions evicted from the cache.",
		})

	TenantResolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flota_tenant_resolve_total",
			Help: "Tenant resolutions by winning strategy (subdomain, user, preference, first, none).",
		}, []string{"strategy"})

	TenantResolveErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flota_tenant_resolve_errors_total",
			Help: "Cumulative number of resolutions that failed while loading or matching.",
		})

	TenantResolveStaleTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flota_tenant_resolve_stale_total",
			Help: "Resolutions discarded because a newer one was started.",
		})

	TenantSwitchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flota_tenant_switch_total",
			Help: "Tenant switch attempts by outcome (applied, denied, unknown).",
		}, []string{"outcome"})

	GatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flota_gateway_requests_total",
			Help: "Backend requests issued through the gateway by verb and outcome.",
		}, []string{"verb", "outcome"})

	GatewayRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flota_gateway_request_duration_seconds",
			Help:    "Latency of backend requests issued through the gateway.",
			Buckets: prometheus.DefBuckets,
		}, []string{"verb"})
)

func init() {
	prometheus.MustRegister(
		ActiveSessions,
		SessionEvictTotal,
		TenantResolveTotal,
		TenantResolveErrorsTotal,
		TenantResolveStaleTotal,
		TenantSwitchTotal,
		GatewayRequestsTotal,
		GatewayRequestDuration,
	)
}
