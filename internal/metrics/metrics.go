package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var LatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Metrics groups the RPC and load metrics of the service.
type Metrics struct {
	RPCRequestsTotal *prometheus.CounterVec
	RPCLatency       *prometheus.HistogramVec
	LoadsTotal       *prometheus.CounterVec
	PoolsLoaded      prometheus.Gauge

	registry *prometheus.Registry
}

// New creates the metrics and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		RPCRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pooldetails_rpc_requests_total",
				Help: "Total number of contract view calls by outcome",
			},
			[]string{"method", "status"},
		),
		RPCLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pooldetails_rpc_latency_seconds",
				Help:    "Contract view call latency in seconds",
				Buckets: LatencyBuckets,
			},
			[]string{"method"},
		),
		LoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pooldetails_load_total",
				Help: "Total number of pool details loads by outcome",
			},
			[]string{"outcome"},
		),
		PoolsLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pooldetails_pools_loaded",
				Help: "Number of pools held in the details cache",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RPCRequestsTotal,
		m.RPCLatency,
		m.LoadsTotal,
		m.PoolsLoaded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry holding all metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// ObserveRPC records one contract call. Safe on a nil receiver.
func (m *Metrics) ObserveRPC(method, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RPCRequestsTotal.WithLabelValues(method, status).Inc()
	m.RPCLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveLoad records a load outcome and the resulting cache size.
func (m *Metrics) ObserveLoad(outcome string, pools int) {
	if m == nil {
		return
	}
	m.LoadsTotal.WithLabelValues(outcome).Inc()
	m.PoolsLoaded.Set(float64(pools))
}
