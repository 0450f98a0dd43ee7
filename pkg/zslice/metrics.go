package zslice

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reasonLabel = "reason"

	reasonOpen      = "open"
	reasonUndersize = "undersized"
)

var (
	slicesComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meshvox_slices_total",
		Help: "The number of Z planes sliced.",
	})

	contoursDiscarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meshvox_contours_discarded_total",
		Help: "Segment chains dropped during contour assembly.",
	}, []string{
		reasonLabel,
	})
)

func instrumentSlice() {
	slicesComputed.Inc()
}

func instrumentDiscard(reason string) {
	contoursDiscarded.With(prometheus.Labels{
		reasonLabel: reason,
	}).Inc()
}
