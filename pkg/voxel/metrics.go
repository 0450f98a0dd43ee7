package voxel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	voxelsVisited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meshvox_voxels_visited_total",
		Help: "The number of inside voxels yielded by mesh cursors.",
	})

	scanlines = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meshvox_scanlines_total",
		Help: "The number of rows ray cast by mesh cursors.",
	})
)

func instrumentVoxel() {
	voxelsVisited.Inc()
}

func instrumentScanline() {
	scanlines.Inc()
}
