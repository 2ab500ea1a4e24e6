// Command vidrender renders a raw planar clip or a still image through the
// vidrender pipeline and writes raw planar frames.
//
// Usage:
//
//	vidrender -config render.yaml -input in.yuv.zst -size 1920x1080 -format YUV420P10 -output out.yuv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/vidrender"
	"github.com/gogpu/vidrender/backend"
	_ "github.com/gogpu/vidrender/backend/native" // registers the GPU backend
	"github.com/gogpu/vidrender/config"
	"github.com/gogpu/vidrender/gpucore"
	"github.com/gogpu/vidrender/internal/hostframe"
	"github.com/gogpu/vidrender/internal/metrics"
	"github.com/gogpu/vidrender/render"
)

type options struct {
	config      string
	input       string
	output      string
	format      string
	size        string
	fps         string
	tff         bool
	length      int
	frames      string
	jobs        int
	backend     string
	metricsAddr string
	verbose     bool
}

func main() {
	var o options
	flag.StringVar(&o.config, "config", "", "YAML render options")
	flag.StringVar(&o.input, "input", "", "raw planar input (.zst compressed allowed) or still image")
	flag.StringVar(&o.output, "output", "", "raw planar output (.zst to compress)")
	flag.StringVar(&o.format, "format", "YUV420P8", "pixel format of raw input")
	flag.StringVar(&o.size, "size", "", "frame size of raw input, WxH")
	flag.StringVar(&o.fps, "fps", "24000/1001", "frame rate of the input")
	flag.BoolVar(&o.tff, "tff", true, "raw input is top field first")
	flag.IntVar(&o.length, "length", 1, "number of frames generated from a still image")
	flag.StringVar(&o.frames, "frames", "", "output frame range a:b (default all)")
	flag.IntVar(&o.jobs, "jobs", 1, "number of render contexts")
	flag.StringVar(&o.backend, "backend", "", "device backend (default: highest priority available)")
	flag.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flag.BoolVar(&o.verbose, "v", false, "verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	vidrender.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, &o); err != nil {
		log.Fatalf("vidrender: %v", err)
	}
}

func run(ctx context.Context, o *options) error {
	if o.input == "" || o.output == "" {
		return errors.New("-input and -output are required")
	}
	if o.jobs < 1 {
		return fmt.Errorf("-jobs must be at least 1, got %d", o.jobs)
	}

	opts := &config.Options{}
	if o.config != "" {
		var err error
		if opts, err = config.Load(o.config); err != nil {
			return err
		}
	}

	// Every job gets its own provider, device and context.
	open := func() (vidrender.FrameProvider, error) { return openInput(o) }
	src, err := open()
	if err != nil {
		return err
	}
	cfg, err := config.Resolve(opts, src.Info())
	closeProvider(src)
	if err != nil {
		return err
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(o.output), filepath.Ext(o.output))
	}

	if o.metricsAddr != "" {
		srv := serveMetrics(o.metricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	first, err := newJob(cfg, o, open, 0)
	if err != nil {
		return err
	}
	info := first.rc.VideoInfo()
	start, end, err := parseRange(o.frames, info.NumFrames)
	if err != nil {
		first.close()
		return err
	}

	w, err := hostframe.Create(o.output)
	if err != nil {
		first.close()
		return err
	}

	began := time.Now()
	err = renderRange(ctx, cfg, o, open, first, w, start, end)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(began)
	vidrender.Logger().Info("done",
		"frames", w.Frames(),
		"output", o.output,
		"format", info.Format,
		"size", fmt.Sprintf("%dx%d", info.Width, info.Height),
		"elapsed", elapsed.Round(time.Millisecond),
		"fps", float64(w.Frames())/elapsed.Seconds())
	return nil
}

// renderRange renders frames [start, end) with o.jobs contexts. Job j
// renders every jobs-th frame starting at start+j; the writer consumes the
// jobs round robin so frames are written in order.
func renderRange(ctx context.Context, cfg *vidrender.Config, o *options,
	open func() (vidrender.FrameProvider, error), first *job,
	w *hostframe.Writer, start, end int) error {
	jobs := min(o.jobs, max(end-start, 1))
	if jobs < o.jobs {
		vidrender.Logger().Info("fewer frames than jobs", "jobs", jobs)
	}
	g, ctx := errgroup.WithContext(ctx)

	out := make([]chan *vidrender.HostFrame, jobs)
	for j := range out {
		out[j] = make(chan *vidrender.HostFrame, 1)
	}

	for j := range jobs {
		g.Go(func() error {
			defer close(out[j])
			jb := first
			if j > 0 {
				var err error
				if jb, err = newJob(cfg, o, open, j); err != nil {
					return err
				}
			}
			defer jb.close()

			rc := jb.rc
			info := rc.VideoInfo()
			for n := start + j; n < end; n += jobs {
				dst := vidrender.NewHostFrame(info.Format, info.Width, info.Height)
				if err := rc.Frame(n, dst); err != nil {
					return err
				}
				select {
				case out[j] <- dst:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		for n := start; n < end; n++ {
			var (
				f  *vidrender.HostFrame
				ok bool
			)
			select {
			case f, ok = <-out[(n-start)%jobs]:
			case <-ctx.Done():
				return ctx.Err()
			}
			if !ok {
				// The job failed; its error is reported by Wait.
				return nil
			}
			if err := w.WriteFrame(f); err != nil {
				return err
			}
		}
		return nil
	})
	return g.Wait()
}

// job is one render context together with the provider it reads from.
type job struct {
	rc  *vidrender.Context
	src vidrender.FrameProvider
}

func (j *job) close() {
	if err := j.rc.Close(); err != nil {
		vidrender.Logger().Warn("close render context", "err", err)
	}
	closeProvider(j.src)
}

// newJob opens a provider and a device and binds them into a render
// context that owns the device.
func newJob(cfg *vidrender.Config, o *options, open func() (vidrender.FrameProvider, error), n int) (*job, error) {
	src, err := open()
	if err != nil {
		return nil, err
	}
	dev, err := openDevice(o.backend)
	if err != nil {
		closeProvider(src)
		return nil, err
	}
	name := cfg.Name
	if n > 0 {
		name = fmt.Sprintf("%s#%d", cfg.Name, n)
	}
	ctxOpts := []vidrender.Option{vidrender.WithDeviceOwnership()}
	if o.metricsAddr != "" {
		ctxOpts = append(ctxOpts, vidrender.WithMetrics(name))
	}
	rc, err := vidrender.New(cfg, dev, src, render.NewPassthrough(dev), ctxOpts...)
	if err != nil {
		_ = dev.Close()
		closeProvider(src)
		return nil, err
	}
	return &job{rc: rc, src: src}, nil
}

func openDevice(name string) (gpucore.Device, error) {
	if name == "" {
		return backend.Default()
	}
	return backend.Open(name)
}

var stillExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true,
	".tif": true, ".tiff": true, ".webp": true,
}

func openInput(o *options) (vidrender.FrameProvider, error) {
	num, den, err := parseRate(o.fps)
	if err != nil {
		return nil, err
	}
	if stillExts[strings.ToLower(filepath.Ext(o.input))] {
		w, h := 0, 0
		if o.size != "" {
			if w, h, err = parseSize(o.size); err != nil {
				return nil, err
			}
		}
		return hostframe.OpenStill(o.input, hostframe.StillOptions{
			Frames: o.length,
			FPSNum: num,
			FPSDen: den,
			Width:  w,
			Height: h,
		})
	}

	format, err := vidrender.ParsePixelFormat(o.format)
	if err != nil {
		return nil, err
	}
	if o.size == "" {
		return nil, errors.New("-size is required for raw input")
	}
	w, h, err := parseSize(o.size)
	if err != nil {
		return nil, err
	}
	info := vidrender.VideoInfo{Width: w, Height: h, Format: format, FPSNum: num, FPSDen: den}
	return hostframe.OpenRaw(o.input, info, hostframe.TopFieldFirst(o.tff))
}

func closeProvider(src vidrender.FrameProvider) {
	if c, ok := src.(io.Closer); ok {
		_ = c.Close()
	}
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			vidrender.Logger().Error("metrics server", "addr", addr, "err", err)
		}
	}()
	return srv
}

// parseRange parses "a:b" into the half-open range [a, b) of total frames.
// Either bound may be omitted.
func parseRange(s string, total int) (int, int, error) {
	if s == "" {
		return 0, total, nil
	}
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("frame range %q: want a:b", s)
	}
	start, end := 0, total
	var err error
	if lo != "" {
		if start, err = strconv.Atoi(lo); err != nil {
			return 0, 0, fmt.Errorf("frame range %q: %w", s, err)
		}
	}
	if hi != "" {
		if end, err = strconv.Atoi(hi); err != nil {
			return 0, 0, fmt.Errorf("frame range %q: %w", s, err)
		}
	}
	if start < 0 || end > total || start >= end {
		return 0, 0, fmt.Errorf("frame range %q outside 0:%d", s, total)
	}
	return start, end, nil
}

func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: want WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %q must be positive", s)
	}
	return w, h, nil
}

// parseRate parses "num/den" or an integer rate.
func parseRate(s string) (int64, int64, error) {
	ns, ds, ok := strings.Cut(s, "/")
	if !ok {
		ds = "1"
	}
	num, err := strconv.ParseInt(ns, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("frame rate %q: %w", s, err)
	}
	den, err := strconv.ParseInt(ds, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("frame rate %q: %w", s, err)
	}
	if num <= 0 || den <= 0 {
		return 0, 0, fmt.Errorf("frame rate %q must be positive", s)
	}
	return num, den, nil
}
