package observability

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type httpMetrics struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	throttles *prometheus.CounterVec
}

var (
	httpMetricsOnce sync.Once
	httpRegistry    *httpMetrics

	airdropMetricsOnce sync.Once
	airdropRegistry    *AirdropMetrics
)

// HTTP returns the lazily-initialised registry for API handler activity.
func HTTP() *httpMetrics {
	httpMetricsOnce.Do(func() {
		httpRegistry = &httpMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "nftdrop",
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total API requests segmented by route and status code.",
			}, []string{"route", "status"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "nftdrop",
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "Latency distribution for API handlers.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"route"}),
			throttles: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "nftdrop",
				Subsystem: "api",
				Name:      "throttles_total",
				Help:      "Count of API requests rejected by the rate limiter.",
			}, []string{"route"}),
		}
		prometheus.MustRegister(httpRegistry.requests, httpRegistry.latency, httpRegistry.throttles)
	})
	return httpRegistry
}

// Observe records the outcome of an API request.
func (m *httpMetrics) Observe(route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.requests.WithLabelValues(route, fmt.Sprintf("%d", status)).Inc()
	m.latency.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordThrottle counts a rate limited request.
func (m *httpMetrics) RecordThrottle(route string) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.throttles.WithLabelValues(route).Inc()
}

// AirdropMetrics tracks settlement and query activity of the engine host.
type AirdropMetrics struct {
	distributions *prometheus.CounterVec
	settled       prometheus.Counter
	assets        prometheus.Counter
	queries       *prometheus.CounterVec
	lastPayout    prometheus.Gauge
}

// Airdrop returns the singleton airdrop metrics registry.
func Airdrop() *AirdropMetrics {
	airdropMetricsOnce.Do(func() {
		airdropRegistry = &AirdropMetrics{
			distributions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "nftdrop",
				Subsystem: "airdrop",
				Name:      "distributions_total",
				Help:      "Distribution attempts segmented by outcome.",
			}, []string{"outcome"}),
			settled: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "nftdrop",
				Subsystem: "airdrop",
				Name:      "settled_amount_total",
				Help:      "Reward token base units paid out to holders.",
			}),
			assets: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "nftdrop",
				Subsystem: "airdrop",
				Name:      "assets_settled_total",
				Help:      "Asset settlements included in successful distributions.",
			}),
			queries: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "nftdrop",
				Subsystem: "airdrop",
				Name:      "queries_total",
				Help:      "Read-only queries segmented by kind and outcome.",
			}, []string{"kind", "outcome"}),
			lastPayout: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "nftdrop",
				Subsystem: "airdrop",
				Name:      "last_distribution_timestamp_seconds",
				Help:      "Host time of the most recent successful distribution.",
			}),
		}
		prometheus.MustRegister(
			airdropRegistry.distributions,
			airdropRegistry.settled,
			airdropRegistry.assets,
			airdropRegistry.queries,
			airdropRegistry.lastPayout,
		)
	})
	return airdropRegistry
}

// RecordDistribution records a successful settlement.
func (m *AirdropMetrics) RecordDistribution(amount *big.Int, assets int, at time.Time) {
	if m == nil {
		return
	}
	m.distributions.WithLabelValues("success").Inc()
	if amount != nil && amount.Sign() > 0 {
		value, _ := new(big.Float).SetInt(amount).Float64()
		m.settled.Add(value)
	}
	if assets > 0 {
		m.assets.Add(float64(assets))
	}
	m.lastPayout.Set(float64(at.Unix()))
}

// RecordRejection records a distribution that ended without a payout. The
// reason should be a stable string such as "no_assets" or "no_pending".
func (m *AirdropMetrics) RecordRejection(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "error"
	}
	m.distributions.WithLabelValues(reason).Inc()
}

// RecordQuery records a query of the supplied kind.
func (m *AirdropMetrics) RecordQuery(kind string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.queries.WithLabelValues(kind, outcome).Inc()
}
