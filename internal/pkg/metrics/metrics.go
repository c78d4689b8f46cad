// Package metrics exposes Prometheus instruments for the roster service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roster"

// Lookup sources
const (
	SourceCache    = "cache"
	SourceUpstream = "upstream"
)

// Snapshot outcomes as seen by the reconciler
const (
	SnapshotKept     = "kept"
	SnapshotReplaced = "replaced"
	SnapshotVanished = "vanished"
	SnapshotNoSelect = "no_selection"
	SnapshotDropped  = "dropped"
)

// Recorder holds the service instruments. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	lookups        *prometheus.CounterVec
	lookupLatency  prometheus.Histogram
	slotOps        *prometheus.CounterVec
	snapshots      *prometheus.CounterVec
	activeSessions prometheus.Gauge
	storeLatency   *prometheus.HistogramVec
}

// New registers every instrument on a fresh registry along with the Go and
// process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(reg)

	return &Recorder{
		registry: reg,
		lookups: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "species_lookups_total",
			Help:      "Species lookups by source and result.",
		}, []string{"source", "result"}),
		lookupLatency: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "species_lookup_seconds",
			Help:      "Latency of upstream species lookups.",
			Buckets:   prometheus.DefBuckets,
		}),
		slotOps: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_operations_total",
			Help:      "Move slot operations by kind and result.",
		}, []string{"op", "result"}),
		snapshots: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_total",
			Help:      "Roster snapshots applied to sessions by outcome.",
		}, []string{"outcome"}),
		activeSessions: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions with a live roster subscription.",
		}),
		storeLatency: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_seconds",
			Help:      "Roster store call latency by operation.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"op"}),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Lookup counts one species lookup
func (r *Recorder) Lookup(source string, err error) {
	if r == nil {
		return
	}
	r.lookups.WithLabelValues(source, result(err)).Inc()
}

// LookupLatency records the duration of an upstream lookup
func (r *Recorder) LookupLatency(d time.Duration) {
	if r == nil {
		return
	}
	r.lookupLatency.Observe(d.Seconds())
}

// SlotOp counts an assign, remove or delete attempt. reason is the error
// reason, empty on success.
func (r *Recorder) SlotOp(op string, reason string) {
	if r == nil {
		return
	}
	if reason == "" {
		reason = "ok"
	}
	r.slotOps.WithLabelValues(op, reason).Inc()
}

// Snapshot counts one applied snapshot
func (r *Recorder) Snapshot(outcome string) {
	if r == nil {
		return
	}
	r.snapshots.WithLabelValues(outcome).Inc()
}

// SessionStarted increments the live session gauge
func (r *Recorder) SessionStarted() {
	if r == nil {
		return
	}
	r.activeSessions.Inc()
}

// SessionEnded decrements the live session gauge
func (r *Recorder) SessionEnded() {
	if r == nil {
		return
	}
	r.activeSessions.Dec()
}

// StoreOp records how long a store call took
func (r *Recorder) StoreOp(op string, started time.Time) {
	if r == nil {
		return
	}
	r.storeLatency.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
