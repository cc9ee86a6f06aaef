// Package metrics exposes Prometheus counters and histograms for the
// extraction pipeline: node- and edge-recording observer calls by kind,
// file claims won and lost, and the number of deferred anchors pending
// at each file-stack pop.
//
// Grounded on the pack's struct-of-Vecs-plus-promauto shape (e.g.
// observability.StreamingMetrics), adapted to the node/edge/claim
// vocabulary this repository emits instead of streaming-chat telemetry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "xref"

// Metrics holds every counter and histogram package observer's calls are
// instrumented against. Construct one with New and pass it to Wrap.
type Metrics struct {
	NodesEmitted      *prometheus.CounterVec
	EdgesEmitted      *prometheus.CounterVec
	FilesClaimed      prometheus.Counter
	FilesUnclaimed    prometheus.Counter
	DeferredFlushSize prometheus.Histogram
}

// New builds a Metrics registered against reg. A nil reg builds metrics
// that are never registered anywhere, useful for tests that only want
// to read counter values back directly.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		NodesEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "nodes_emitted_total",
				Help:      "Total node-recording observer calls, by node kind",
			},
			[]string{"kind"},
		),
		EdgesEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "edges_emitted_total",
				Help:      "Total edge-recording observer calls, by edge kind",
			},
			[]string{"kind"},
		),
		FilesClaimed: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_claimed_total",
				Help:      "Total pushed files this run won the claim for",
			},
		),
		FilesUnclaimed: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_unclaimed_total",
				Help:      "Total pushed files another run already claimed",
			},
		),
		DeferredFlushSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "deferred_anchor_flush_size",
				Help:      "Number of anchors pending just before a file-stack pop",
				Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500},
			},
		),
	}
}
