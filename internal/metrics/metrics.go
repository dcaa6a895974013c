// Package metrics implements the simulator's Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EpochsTotal counts epochs closed by the coordinator.
	EpochsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "disketch_epochs_total",
			Help: "Total number of epochs closed by the coordinator",
		},
	)

	// PacketsProcessedTotal counts packets dispatched to at least one
	// fragment, labeled by sketch kind.
	PacketsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "disketch_packets_processed_total",
			Help: "Total number of packets dispatched to fragments",
		},
		[]string{"sketch_kind"},
	)

	// FragmentRhoAverage tracks each fragment's average rho as of its
	// last closed epoch.
	FragmentRhoAverage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "disketch_fragment_rho_average",
			Help: "Average rho (relative error) of a fragment at its last epoch close",
		},
		[]string{"fragment"},
	)

	// FragmentSubepochCount tracks each fragment's current adaptive
	// sub-epoch count.
	FragmentSubepochCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "disketch_fragment_subepoch_count",
			Help: "Current sub-epoch count of a fragment",
		},
		[]string{"fragment"},
	)

	// HeavyHitterF1 tracks the running F1 score of each detector across
	// the run so far.
	HeavyHitterF1 = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "disketch_heavy_hitter_f1",
			Help: "Cumulative heavy-hitter F1 score per detector",
		},
		[]string{"detector"},
	)

	// EpochDurationSeconds measures wall-clock time spent processing one
	// epoch, independent of the simulated epoch duration.
	EpochDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "disketch_epoch_duration_seconds",
			Help:    "Wall-clock time spent processing one epoch",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		},
	)
)
