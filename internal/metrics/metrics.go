// Package metrics defines the Prometheus instrumentation shared by the
// auth platform services. All collectors register on the default registry
// and are served via promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthRequests counts authentication endpoint outcomes by endpoint
	// (register, login, verify, refresh) and result (success, invalid_input,
	// unauthenticated, conflict, error).
	AuthRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openbricks_auth_requests_total",
		Help: "Authentication endpoint outcomes.",
	}, []string{"endpoint", "result"})

	// TokenVerifications counts identity resolutions by source (header,
	// remote, local) and result (ok, unauthenticated, unavailable).
	TokenVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openbricks_token_verifications_total",
		Help: "Identity resolutions by source and result.",
	}, []string{"source", "result"})

	// RateLimitRejections counts requests throttled per limiter scope.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openbricks_rate_limit_rejections_total",
		Help: "Requests rejected by the rate limiter.",
	}, []string{"scope"})
)
