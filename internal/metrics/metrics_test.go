package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewStreamInitializesSeries(t *testing.T) {
	NewStream("init-test")

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("init-test")); got != 0 {
		t.Errorf("cache hits = %v, want 0", got)
	}
	if got := testutil.ToFloat64(FramesRendered.WithLabelValues("init-test")); got != 0 {
		t.Errorf("frames rendered = %v, want 0", got)
	}
}

func TestStreamCounters(t *testing.T) {
	s := NewStream("counter-test")
	s.CacheHit()
	s.CacheHit()
	s.CacheMiss()
	s.PlaneUploaded()
	s.PlaneUploaded()
	s.PlaneUploaded()
	s.OffsetPass()
	s.FrameRendered()
	s.NeighborFallback()
	s.FrameFailed("upload")
	s.FrameFailed("upload")

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"hits", testutil.ToFloat64(s.CacheHits), 2},
		{"misses", testutil.ToFloat64(s.CacheMisses), 1},
		{"uploads", testutil.ToFloat64(s.PlanesUploaded), 3},
		{"offset", testutil.ToFloat64(s.OffsetPasses), 1},
		{"rendered", testutil.ToFloat64(s.FramesRendered), 1},
		{"fallback", testutil.ToFloat64(s.NeighborFallbacks), 1},
		{"failed", testutil.ToFloat64(FramesFailed.WithLabelValues("counter-test", "upload")), 2},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	NewStream("handler-test").FrameRendered()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `vidrender_frames_rendered_total{name="handler-test"} 1`) {
		t.Errorf("metrics output missing rendered counter:\n%s", body)
	}
}
