package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	UpstreamRequests     *prometheus.CounterVec
	UpstreamLatency      *prometheus.HistogramVec
	CacheLookups         *prometheus.CounterVec
	DirectoryResolutions *prometheus.CounterVec
}

// New registers the gateway collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UpstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payout_gateway",
			Name:      "upstream_requests_total",
			Help:      "Requests sent to upstream APIs by endpoint and status.",
		}, []string{"upstream", "endpoint", "status"}),
		UpstreamLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "payout_gateway",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of upstream API calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"upstream", "endpoint"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payout_gateway",
			Name:      "cache_lookups_total",
			Help:      "Directory cache lookups by cache and result.",
		}, []string{"cache", "result"}),
		DirectoryResolutions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payout_gateway",
			Name:      "directory_resolutions_total",
			Help:      "Bank directory resolutions by winning source.",
		}, []string{"source"}),
	}
}

// NewNop returns collectors registered nowhere, for tests and tools.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) ObserveCache(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(cache, result).Inc()
}

func (m *Metrics) ObserveResolution(source string) {
	if m == nil {
		return
	}
	m.DirectoryResolutions.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveUpstream(upstream, endpoint, status string, seconds float64) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(upstream, endpoint, status).Inc()
	m.UpstreamLatency.WithLabelValues(upstream, endpoint).Observe(seconds)
}
