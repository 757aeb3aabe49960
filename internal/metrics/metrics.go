// Package metrics holds the prometheus collectors for the scene engine.
// They are registered with the default registry and served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PoolAcquireTotal counts acquisitions by object kind and outcome (hit, miss)
	PoolAcquireTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ast3d_pool_acquire_total",
			Help: "Render objects acquired from the pool",
		},
		[]string{"kind", "outcome"},
	)

	// PoolEvictionsTotal counts pooled objects dropped by the capacity policy
	PoolEvictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ast3d_pool_evictions_total",
			Help: "Pooled objects disposed because a free list was full",
		},
		[]string{"kind"},
	)

	// PoolFree tracks the number of idle pooled objects
	PoolFree = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ast3d_pool_free",
			Help: "Idle objects held by the pool",
		},
		[]string{"kind"},
	)

	// SceneObjects tracks live objects attached to the scene
	SceneObjects = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ast3d_scene_objects",
			Help: "Objects attached to the scene graph",
		},
		[]string{"kind"},
	)

	// DroppedEdgesTotal counts edges skipped for a dangling endpoint
	DroppedEdgesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ast3d_dropped_edges_total",
			Help: "Edges skipped during rebuild because an endpoint was missing",
		},
	)

	// RebuildSeconds observes full scene rebuild latency
	RebuildSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ast3d_rebuild_seconds",
			Help:    "Scene rebuild duration",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)

	// HighlightRefreshTotal counts highlight recomputations
	HighlightRefreshTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ast3d_highlight_refresh_total",
			Help: "Highlight state recomputations",
		},
	)

	// CameraAnimationsTotal counts camera tweens by kind (focus, restore) and
	// outcome (started, rejected, completed, cancelled)
	CameraAnimationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ast3d_camera_animations_total",
			Help: "Camera framing animations",
		},
		[]string{"kind", "outcome"},
	)

	// FramesTotal counts presented frames
	FramesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ast3d_frames_total",
			Help: "Frames presented to the renderer",
		},
	)
)

func init() {
	prometheus.MustRegister(PoolAcquireTotal)
	prometheus.MustRegister(PoolEvictionsTotal)
	prometheus.MustRegister(PoolFree)
	prometheus.MustRegister(SceneObjects)
	prometheus.MustRegister(DroppedEdgesTotal)
	prometheus.MustRegister(RebuildSeconds)
	prometheus.MustRegister(HighlightRefreshTotal)
	prometheus.MustRegister(CameraAnimationsTotal)
	prometheus.MustRegister(FramesTotal)
}
