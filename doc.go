// Package vidrender renders decoded video frames on a GPU device.
//
// # Overview
//
// A [Context] turns a stream of host frames into rendered output frames,
// one output frame per [Context.Frame] call. For every call it maps the
// output index onto a source frame and field, resolves the color and HDR
// description of the source (including Dolby Vision reshaping metadata),
// uploads the source planes through a small texture cache, hands the
// textures to a [Renderer] and downloads the result into a host frame.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/vidrender"
//	    "github.com/gogpu/vidrender/backend"
//	    "github.com/gogpu/vidrender/config"
//	    "github.com/gogpu/vidrender/render"
//	)
//
//	dev, err := backend.Default()
//	if err != nil {
//	    return err
//	}
//	cfg, err := config.Resolve(opts, src.Info())
//	if err != nil {
//	    return err
//	}
//	rc, err := vidrender.New(cfg, dev, src, render.NewPassthrough(dev),
//	    vidrender.WithDeviceOwnership())
//	if err != nil {
//	    return err
//	}
//	defer rc.Close()
//
//	out := vidrender.NewHostFrame(cfg.Format, cfg.Width, cfg.Height)
//	for n := range rc.VideoInfo().NumFrames {
//	    if err := rc.Frame(n, out); err != nil {
//	        return err
//	    }
//	}
//
// # Texture Cache
//
// Source frames are uploaded into one of [CacheSize] slots. Without
// deinterlacing a single slot is used and every new frame overwrites it.
// With deinterlacing all slots are active so that the previous and next
// source frames stay resident for temporal filters. Eviction is least
// recently used, with ties resolved to the lowest slot.
//
// # Float Chroma
//
// Host frames store float chroma centered on zero while the device works
// with chroma centered on 0.5. Float chroma planes are shifted by +0.5 after
// upload and by -0.5 before download.
//
// # Concurrency
//
// A Context serializes Frame calls with a mutex. Separate contexts may run
// in parallel on separate devices.
//
// # Logging
//
// vidrender is silent by default. Use [SetLogger] to route its log records
// to any [log/slog] handler.
package vidrender
