// Package metrics provides Prometheus collectors for the catalog service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CacheHits      *prometheus.CounterVec
	CacheMisses    *prometheus.CounterVec
	CacheEvictions *prometheus.CounterVec
	CacheErrors    *prometheus.CounterVec

	GrpcRequestsTotal   *prometheus.CounterVec
	GrpcRequestDuration *prometheus.HistogramVec

	HierarchyAnomalies prometheus.Counter
}

// New registers all collectors on reg. Pass prometheus.NewRegistry() in tests
// to keep registrations isolated.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		CacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Read cache hits by region",
		}, []string{"region"}),
		CacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Read cache misses by region",
		}, []string{"region"}),
		CacheEvictions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cache_region_evictions_total",
			Help: "Whole-region flushes by region",
		}, []string{"region"}),
		CacheErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cache_errors_total",
			Help: "Cache backend failures by region and operation",
		}, []string{"region", "op"}),
		GrpcRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_grpc_requests_total",
			Help: "Total number of gRPC requests",
		}, []string{"method", "code"}),
		GrpcRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_grpc_request_duration_seconds",
			Help:    "Duration of gRPC requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		HierarchyAnomalies: f.NewCounter(prometheus.CounterOpts{
			Name: "catalog_hierarchy_cycle_anomalies_total",
			Help: "Cyclic parent chains detected while computing category level/path",
		}),
	}
}
