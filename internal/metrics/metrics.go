package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup outcomes
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

type Metrics struct {
	UpstreamSeconds *prometheus.HistogramVec
	UpstreamErrors  *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		UpstreamSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "googlemaps_request_duration_seconds",
			Help:    "Duration of requests to the Google Maps Platform API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		UpstreamErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "googlemaps_request_errors_total",
			Help: "Total number of failed requests to the Google Maps Platform API.",
		}, []string{"operation"}),
		CacheLookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "autocomplete_cache_lookups_total",
			Help: "Autocomplete cache lookups by result.",
		}, []string{"result"}),
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of handled HTTP requests.",
		}, []string{"method", "route", "status"}),
	}
}

// NewNop returns metrics bound to a throwaway registry.
func NewNop() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
