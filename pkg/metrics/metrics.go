// Package metrics exposes the pipeline's counters as Prometheus metrics on a
// private registry. The pipeline's completion report stays the source of
// truth; these mirror it for scraping during long runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every pipeline metric.
type Metrics struct {
	registry *prometheus.Registry

	RecordsLoaded    *prometheus.CounterVec
	RecordsMalformed *prometheus.CounterVec
	EntriesUnmatched prometheus.Counter
	EntriesAligned   prometheus.Counter
	Definitions      *prometheus.CounterVec
	WritesOK         prometheus.Counter
	WritesFailed     prometheus.Counter
	ShardRecords     *prometheus.GaugeVec
}

// New builds the metric set on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,

		RecordsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiokun",
			Name:      "records_loaded_total",
			Help:      "Source records successfully loaded",
		}, []string{"source"}),

		RecordsMalformed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiokun",
			Name:      "records_malformed_total",
			Help:      "Source records skipped as malformed",
		}, []string{"source"}),

		EntriesUnmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kiokun",
			Name:      "entries_unmatched_total",
			Help:      "Japanese entries dropped for having no usable join key",
		}),

		EntriesAligned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kiokun",
			Name:      "entries_aligned_total",
			Help:      "Combined entries whose Japanese candidates were re-ranked",
		}),

		Definitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiokun",
			Name:      "definitions_total",
			Help:      "Unified definitions emitted, by origin",
		}, []string{"origin"}),

		WritesOK: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kiokun",
			Name:      "writes_total",
			Help:      "Record files written",
		}),

		WritesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kiokun",
			Name:      "writes_failed_total",
			Help:      "Record files that failed after retries",
		}),

		ShardRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "kiokun",
			Name:      "shard_records",
			Help:      "Records assigned per shard",
		}, []string{"shard"}),
	}

	reg.MustRegister(
		m.RecordsLoaded, m.RecordsMalformed,
		m.EntriesUnmatched, m.EntriesAligned,
		m.Definitions,
		m.WritesOK, m.WritesFailed,
		m.ShardRecords,
	)
	return m
}

// Serve exposes /metrics on addr. Caller shuts the server down.
func (m *Metrics) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}
