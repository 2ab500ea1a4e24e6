// Package metrics exports render context counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counters shared by every stream, labeled by stream name.
var (
	// CacheHits counts texture cache lookups that reused an entry.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidrender_cache_hits_total",
		Help: "Total number of texture cache hits",
	}, []string{"name"})
	// CacheMisses counts texture cache lookups that allocated.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidrender_cache_misses_total",
		Help: "Total number of texture cache misses",
	}, []string{"name"})
	// PlanesUploaded counts source planes written to the device.
	PlanesUploaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidrender_planes_uploaded_total",
		Help: "Total number of source planes uploaded to the device",
	}, []string{"name"})
	// OffsetPasses counts float chroma offset passes.
	OffsetPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidrender_chroma_offset_passes_total",
		Help: "Total number of float chroma offset passes",
	}, []string{"name"})
	// FramesRendered counts output frames produced.
	FramesRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidrender_frames_rendered_total",
		Help: "Total number of output frames rendered",
	}, []string{"name"})
	// FramesFailed counts failed frames by pipeline stage.
	FramesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidrender_frames_failed_total",
		Help: "Total number of output frames that failed, by stage",
	}, []string{"name", "stage"})
	// NeighborFallbacks counts frames deinterlaced without both neighbors.
	NeighborFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidrender_deinterlace_neighbor_fallbacks_total",
		Help: "Total number of frames deinterlaced without neighbor frames",
	}, []string{"name"})
)

// Stream holds the counters of one render context, bound to its name
// label.
type Stream struct {
	name string

	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	PlanesUploaded    prometheus.Counter
	OffsetPasses      prometheus.Counter
	FramesRendered    prometheus.Counter
	NeighborFallbacks prometheus.Counter
}

// NewStream binds the shared counters to name and publishes them at zero so
// the series exist before the first frame.
func NewStream(name string) *Stream {
	s := &Stream{
		name:              name,
		CacheHits:         CacheHits.WithLabelValues(name),
		CacheMisses:       CacheMisses.WithLabelValues(name),
		PlanesUploaded:    PlanesUploaded.WithLabelValues(name),
		OffsetPasses:      OffsetPasses.WithLabelValues(name),
		FramesRendered:    FramesRendered.WithLabelValues(name),
		NeighborFallbacks: NeighborFallbacks.WithLabelValues(name),
	}
	s.CacheHits.Add(0)
	s.CacheMisses.Add(0)
	s.PlanesUploaded.Add(0)
	s.OffsetPasses.Add(0)
	s.FramesRendered.Add(0)
	s.NeighborFallbacks.Add(0)
	return s
}

// CacheHit records a texture cache hit.
func (s *Stream) CacheHit() { s.CacheHits.Inc() }

// CacheMiss records a texture cache miss.
func (s *Stream) CacheMiss() { s.CacheMisses.Inc() }

// PlaneUploaded records one uploaded source plane.
func (s *Stream) PlaneUploaded() { s.PlanesUploaded.Inc() }

// OffsetPass records one chroma offset pass.
func (s *Stream) OffsetPass() { s.OffsetPasses.Inc() }

// FrameRendered records a completed output frame.
func (s *Stream) FrameRendered() { s.FramesRendered.Inc() }

// NeighborFallback records a deinterlace without neighbor frames.
func (s *Stream) NeighborFallback() { s.NeighborFallbacks.Inc() }

// FrameFailed records a frame that failed at stage.
func (s *Stream) FrameFailed(stage string) {
	FramesFailed.WithLabelValues(s.name, stage).Inc()
}

// Handler serves the default Prometheus registry. Mount it at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
