package vidrender

// Observer receives counters from a render context. Implementations must be
// safe for concurrent use when shared between contexts.
type Observer interface {
	CacheHit()
	CacheMiss()
	PlaneUploaded()
	OffsetPass()
	FrameRendered()
	FrameFailed(stage string)
	NeighborFallback()
}

type nopObserver struct{}

func (nopObserver) CacheHit()          {}
func (nopObserver) CacheMiss()         {}
func (nopObserver) PlaneUploaded()     {}
func (nopObserver) OffsetPass()        {}
func (nopObserver) FrameRendered()     {}
func (nopObserver) FrameFailed(string) {}
func (nopObserver) NeighborFallback()  {}
