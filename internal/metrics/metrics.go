// Package metrics provides Prometheus metrics for drawing parses.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Parse metrics
	ParsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iolist_parses_total",
			Help: "Total number of drawing parses by outcome",
		},
		[]string{"status"},
	)

	ParseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "iolist_parse_duration_seconds",
			Help:    "Time taken to read a drawing and build its IO list",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// Entity metrics
	EntitiesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iolist_entities_total",
			Help: "Drawing entities and attributes seen by the aggregator",
		},
		[]string{"kind"},
	)

	SkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iolist_skipped_attributes_total",
			Help: "Matched attributes that produced no device",
		},
		[]string{"reason"},
	)

	DevicesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "iolist_devices_total",
			Help: "Devices added to IO lists",
		},
	)

	PortsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iolist_ports_total",
			Help: "Wiring rows produced by direction",
		},
		[]string{"direction"},
	)

	// Catalog metrics
	CatalogEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "iolist_catalog_entries",
			Help: "Number of prefixes in the most recently loaded catalog",
		},
	)

	CatalogLoadErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "iolist_catalog_load_errors_total",
			Help: "Catalog loads that failed",
		},
	)
)

// Handler exposes the default registry for gin.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
