package vidrender

import (
	"fmt"

	"github.com/gogpu/vidrender/gpucore"
)

// chromaOffset converts between the host convention for float chroma,
// centered on zero, and the texture convention, centered on 0.5.
const chromaOffset = 0.5

// cacheSlot holds the plane textures of one source frame.
type cacheSlot struct {
	source   int // -1 when empty
	lastUsed uint64
	textures []gpucore.TextureID
}

// SlotInfo is a snapshot of one cache slot.
type SlotInfo struct {
	SourceIndex int
	LastUsed    uint64
}

// CacheStats counts cache activity.
type CacheStats struct {
	Hits    int
	Misses  int
	Uploads int
}

// textureCache is an LRU of uploaded source frames keyed by source frame
// index. Uploads go into a staging set that is swapped into the victim slot
// only once every plane has been uploaded, so a failed upload leaves all
// slots untouched.
//
// The cache is not safe for concurrent use; the Context mutex guards it.
type textureCache struct {
	dev    gpucore.Device
	slots  [CacheSize]cacheSlot
	active int
	tick   uint64

	staging []gpucore.TextureID
	fixIn   gpucore.TextureID

	obs      Observer
	onUpload func(slot, plane int)
	stats    CacheStats
}

func newTextureCache(dev gpucore.Device, active int, obs Observer) *textureCache {
	c := &textureCache{dev: dev, active: active, obs: obs}
	for i := range c.slots {
		c.slots[i].source = -1
	}
	return c
}

// fetch returns the plane textures of source frame n, uploading the frame
// returned by load on a miss.
func (c *textureCache) fetch(n int, load func(int) (*HostFrame, error)) ([]gpucore.TextureID, error) {
	c.tick++

	for i := range c.slots {
		if s := &c.slots[i]; s.source == n {
			s.lastUsed = c.tick
			c.stats.Hits++
			c.obs.CacheHit()
			Logger().Debug("texture cache hit", "frame", n, "slot", i)
			return s.textures, nil
		}
	}
	c.stats.Misses++
	c.obs.CacheMiss()

	frame, err := load(n)
	if err != nil {
		return nil, err
	}
	if err := frame.Validate(); err != nil {
		return nil, err
	}

	victim := c.victim()
	if err := c.upload(victim, frame); err != nil {
		return nil, fmt.Errorf("upload frame %d: %w", n, err)
	}

	s := &c.slots[victim]
	if s.source >= 0 {
		Logger().Debug("texture cache evict", "frame", s.source, "slot", victim)
	}
	s.textures, c.staging = c.staging, s.textures
	s.source = n
	s.lastUsed = c.tick
	Logger().Debug("texture cache miss", "frame", n, "slot", victim)
	return s.textures, nil
}

// victim picks the first empty active slot, else the least recently used
// one. Ties go to the lowest index.
func (c *textureCache) victim() int {
	v := 0
	for i := range c.active {
		if c.slots[i].source == -1 {
			return i
		}
		if c.slots[i].lastUsed < c.slots[v].lastUsed {
			v = i
		}
	}
	return v
}

// upload writes every plane of f into the staging set.
func (c *textureCache) upload(slot int, f *HostFrame) error {
	n := f.Format.NumPlanes()
	if len(c.staging) != n {
		for _, id := range c.staging {
			c.dev.DestroyTexture(id)
		}
		c.staging = make([]gpucore.TextureID, n)
	}

	tf, err := f.Format.TextureFormat()
	if err != nil {
		return err
	}
	for i := range n {
		fixChroma := f.Format.IsFloat() && f.Format.IsChroma(i)
		desc := &gpucore.TextureDesc{
			Label:      fmt.Sprintf("source plane %d", i),
			Width:      f.Planes[i].Width,
			Height:     f.Planes[i].Height,
			Format:     tf,
			Renderable: fixChroma,
		}
		if err := gpucore.Recreate(c.dev, &c.staging[i], desc); err != nil {
			return err
		}
		if err := c.dev.UploadPlane(c.staging[i], f.planeData(i, tf)); err != nil {
			return err
		}
		c.stats.Uploads++
		c.obs.PlaneUploaded()
		if c.onUpload != nil {
			c.onUpload(slot, i)
		}

		if fixChroma {
			if err := gpucore.Recreate(c.dev, &c.fixIn, desc); err != nil {
				return err
			}
			if err := c.dev.OffsetPass(c.staging[i], c.fixIn, chromaOffset); err != nil {
				return fmt.Errorf("chroma offset: %w", err)
			}
			c.obs.OffsetPass()
			c.staging[i], c.fixIn = c.fixIn, c.staging[i]
		}
	}
	return nil
}

func (c *textureCache) snapshot() []SlotInfo {
	out := make([]SlotInfo, len(c.slots))
	for i, s := range c.slots {
		out[i] = SlotInfo{SourceIndex: s.source, LastUsed: s.lastUsed}
	}
	return out
}
