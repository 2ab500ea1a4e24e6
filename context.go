package vidrender

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/vidrender/colorspace"
	"github.com/gogpu/vidrender/field"
	"github.com/gogpu/vidrender/gpucore"
)

// Context renders output frames from a source stream.
//
// One mutex is held for the whole production of a frame, from metadata
// resolution through download. Frame may be called from several goroutines;
// calls are serialized. Independent contexts share nothing.
type Context struct {
	mu     sync.Mutex
	closed bool

	cfg      Config
	src      FrameProvider
	srcInfo  VideoInfo
	info     VideoInfo
	renderer Renderer
	obs      Observer

	scope    *gpucore.Scope
	cache    *textureCache
	fields   *field.State // nil unless deinterlacing
	resolver *colorspace.Resolver

	outputs []gpucore.TextureID
	fixOut  gpucore.TextureID
}

// New creates a render context.
//
// The context acquires a scope on dev: every texture it creates is
// destroyed by Close, before dev itself is closed when WithDeviceOwnership
// is given.
func New(cfg *Config, dev gpucore.Device, src FrameProvider, r Renderer, opts ...Option) (*Context, error) {
	if cfg == nil || dev == nil || src == nil || r == nil {
		return nil, errors.New("vidrender: config, device, frame provider and renderer are required")
	}
	srcInfo := src.Info()
	if err := cfg.Validate(srcInfo); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var release func() error
	if o.ownDevice {
		release = dev.Close
	}
	scope := gpucore.Acquire(dev, release)

	c := &Context{
		cfg:      *cfg,
		src:      src,
		srcInfo:  srcInfo,
		renderer: r,
		obs:      o.observer,
		scope:    scope,
		cache:    newTextureCache(scope, cfg.CacheSlots(), o.observer),
		resolver: colorspace.NewResolver(cfg.Src, cfg.Dst, cfg.SrcPinned, cfg.Dovi),
	}
	c.cache.onUpload = o.uploadHook

	c.info = VideoInfo{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Format:    cfg.Format,
		NumFrames: srcInfo.NumFrames,
		FPSNum:    srcInfo.FPSNum,
		FPSDen:    srcInfo.FPSDen,
	}
	if cfg.Deinterlacing() {
		c.fields = field.NewState(cfg.Field)
		c.info.NumFrames, c.info.FPSNum = c.fields.ScaleStream(srcInfo.NumFrames, srcInfo.FPSNum)
	}

	Logger().Info("render context created",
		"name", cfg.Name,
		"device", dev.Name(),
		"src", srcInfo.Format,
		"dst", cfg.Format,
		"cache_slots", cfg.CacheSlots(),
		"deinterlace", cfg.Deinterlacing(),
		"dovi", cfg.Dovi)
	return c, nil
}

// VideoInfo describes the produced stream. In double-rate modes the frame
// count and frame rate numerator are twice those of the source.
func (c *Context) VideoInfo() VideoInfo {
	return c.info
}

// Parity reports whether output frame n is top field first.
func (c *Context) Parity(n int) bool {
	if c.fields == nil {
		return c.src.Parity(n)
	}
	return c.fields.Parity(n, c.src.Parity)
}

// CacheStats returns the texture cache counters.
func (c *Context) CacheStats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.stats
}

// CacheSlots returns a snapshot of the texture cache slots.
func (c *Context) CacheSlots() []SlotInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.snapshot()
}

// Frame renders output frame n into dst. dst must match the configured
// output size and format; its properties are replaced with the source
// frame's properties updated to the destination color description.
//
// A failure returns a *FrameError and leaves the context usable.
func (c *Context) Frame(n int, dst *HostFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if n < 0 || n >= c.info.NumFrames {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrFrameRange, n, c.info.NumFrames)
	}

	if err := c.render(n, dst); err != nil {
		var fe *FrameError
		if errors.As(err, &fe) {
			c.obs.FrameFailed(string(fe.Stage))
		}
		Logger().Warn("frame failed", "name", c.cfg.Name, "frame", n, "err", err)
		return err
	}
	c.obs.FrameRendered()
	return nil
}

func (c *Context) render(n int, dst *HostFrame) error {
	if err := c.checkOutput(dst); err != nil {
		return frameError(n, StageDownload, err)
	}

	srcN := n
	if c.fields != nil {
		srcN = c.fields.SourceIndex(n)
	}
	frame, err := c.src.Frame(srcN)
	if err != nil {
		return frameError(n, StageSource, err)
	}

	if err := c.resolver.Resolve(frame.Props); err != nil {
		return frameError(n, StageMetadata, err)
	}

	var cur, first field.Field
	if c.fields != nil {
		cur, first = c.fields.Resolve(n, frame.Props, c.src.Parity)
		Logger().Debug("field resolved", "frame", n, "source", srcN, "field", cur, "first", first)
	}

	planes, err := c.cache.fetch(srcN, func(int) (*HostFrame, error) { return frame, nil })
	if err != nil {
		return frameError(n, StageUpload, err)
	}

	srcDesc := c.resolver.Source()
	src := &RenderFrame{
		Planes:     planes,
		Width:      frame.Width,
		Height:     frame.Height,
		Format:     frame.Format,
		Color:      srcDesc.Color,
		Repr:       srcDesc.Repr,
		Chroma:     srcDesc.Chroma,
		Field:      cur,
		FirstField: first,
	}
	if c.fields != nil {
		c.attachNeighbors(src, srcN)
	}

	c.resolver.Infer(c.renderer.InferColorSpaces)

	if err := c.ensureOutputs(); err != nil {
		return frameError(n, StageRender, err)
	}
	dstDesc := c.resolver.Destination()
	out := &RenderFrame{
		Planes: c.outputs,
		Width:  c.cfg.Width,
		Height: c.cfg.Height,
		Format: c.cfg.Format,
		Color:  dstDesc.Color,
		Repr:   dstDesc.Repr,
		Chroma: dstDesc.Chroma,
	}
	if err := c.renderer.Render(src, out, &c.cfg.Params); err != nil {
		return frameError(n, StageRender, err)
	}

	if err := c.download(dst); err != nil {
		return frameError(n, StageDownload, err)
	}
	c.syncProps(dst, frame.Props)
	return nil
}

// attachNeighbors fetches the previous and next source frames for temporal
// deinterlacing. Failing to fetch either one renders without neighbors.
func (c *Context) attachNeighbors(src *RenderFrame, srcN int) {
	prevN := max(0, srcN-1)
	nextN := min(c.srcInfo.NumFrames-1, srcN+1)

	prev, perr := c.cache.fetch(prevN, c.src.Frame)
	next, nerr := c.cache.fetch(nextN, c.src.Frame)
	if err := errors.Join(perr, nerr); err != nil {
		c.obs.NeighborFallback()
		Logger().Warn("deinterlace neighbors unavailable, rendering without them",
			"name", c.cfg.Name, "source", srcN, "err", err)
		return
	}

	p, nx := *src, *src
	p.Planes, nx.Planes = prev, next
	src.Prev, src.Next = &p, &nx
}

// ensureOutputs (re)creates the render targets for the output planes.
func (c *Context) ensureOutputs() error {
	format := c.cfg.Format
	tf, err := format.TextureFormat()
	if err != nil {
		return err
	}
	if len(c.outputs) != format.NumPlanes() {
		c.outputs = make([]gpucore.TextureID, format.NumPlanes())
	}
	for i := range c.outputs {
		if err := gpucore.Recreate(c.scope, &c.outputs[i], c.outputDesc(i, tf)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) outputDesc(i int, tf gpucore.TextureFormat) *gpucore.TextureDesc {
	w, h := c.cfg.Format.PlaneSize(i, c.cfg.Width, c.cfg.Height)
	return &gpucore.TextureDesc{
		Label:        fmt.Sprintf("output plane %d", i),
		Width:        w,
		Height:       h,
		Format:       tf,
		Renderable:   true,
		HostReadable: true,
	}
}

// download copies the output planes into dst, undoing the chroma offset
// of float formats first.
func (c *Context) download(dst *HostFrame) error {
	format := c.cfg.Format
	for i := range c.outputs {
		if format.IsFloat() && format.IsChroma(i) {
			desc, ok := c.scope.Describe(c.outputs[i])
			if !ok {
				return fmt.Errorf("%w: output plane %d", gpucore.ErrInvalidTexture, i)
			}
			if err := gpucore.Recreate(c.scope, &c.fixOut, &desc); err != nil {
				return err
			}
			if err := c.scope.OffsetPass(c.outputs[i], c.fixOut, -chromaOffset); err != nil {
				return fmt.Errorf("chroma offset: %w", err)
			}
			c.obs.OffsetPass()
			c.outputs[i], c.fixOut = c.fixOut, c.outputs[i]
		}

		p := &dst.Planes[i]
		if err := c.scope.DownloadPlane(c.outputs[i], p.Pixels, p.Stride); err != nil {
			return fmt.Errorf("plane %d: %w", i, err)
		}
	}
	return nil
}

func (c *Context) checkOutput(dst *HostFrame) error {
	if dst == nil {
		return errors.New("nil output frame")
	}
	if dst.Format != c.cfg.Format || dst.Width != c.cfg.Width || dst.Height != c.cfg.Height {
		return fmt.Errorf("output frame is %v %dx%d, want %v %dx%d",
			dst.Format, dst.Width, dst.Height, c.cfg.Format, c.cfg.Width, c.cfg.Height)
	}
	return dst.Validate()
}

// Close destroys every texture the context created, then the device when
// the context owns it. Calling Close again is a no-op.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	err := c.scope.Release()
	Logger().Info("render context closed", "name", c.cfg.Name, "stats", c.cache.stats)
	return err
}
