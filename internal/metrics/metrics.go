// Package metrics holds the prometheus collectors of mediacheck. They are
// registered on a private registry so embedding applications keep control of
// their default registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mediacheck"

var (
	registry = prometheus.NewRegistry()

	// MediaRequests counts stream requests by kind (video, audio, screen)
	// and result (ok, or the error kind).
	MediaRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_requests_total",
			Help:      "Number of media stream requests by kind and result",
		},
		[]string{"kind", "result"},
	)

	// VolumeBlocks counts analysed audio blocks.
	VolumeBlocks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "volume",
			Name:      "blocks_total",
			Help:      "Number of audio blocks analysed by volume meters",
		},
	)

	// VolumeLevelsDropped counts levels not delivered because the
	// subscriber channel was full.
	VolumeLevelsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "volume",
			Name:      "levels_dropped_total",
			Help:      "Number of volume levels dropped because the level channel was full",
		},
	)

	// VolumeProcessors is the number of running volume meter processors.
	VolumeProcessors = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "volume",
			Name:      "processors",
			Help:      "Number of attached volume meter processors",
		},
	)
)

func init() {
	registry.MustRegister(
		MediaRequests,
		VolumeBlocks,
		VolumeLevelsDropped,
		VolumeProcessors,
	)
}

// Registry returns the registry the collectors are registered on.
func Registry() *prometheus.Registry {
	return registry
}

// Handler serves the collectors in the prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
