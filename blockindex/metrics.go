package blockindex

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	blocksTotal            prometheus.Counter
	midpointFallbacksTotal prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		blocksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "blockindex_blocks_total",
			Help: "Total number of blocks closed by index builders",
		}),
		midpointFallbacksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "blockindex_midpoint_fallbacks_total",
			Help: "Total number of block index keys that fell back to the first key of the block",
		}),
	}
}
