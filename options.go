package vidrender

import "github.com/gogpu/vidrender/internal/metrics"

// Option configures a Context during creation.
// Use functional options to customize Context behavior.
//
// Example:
//
//	// Context that closes its device on Close
//	ctx, err := vidrender.New(cfg, dev, src, r, vidrender.WithDeviceOwnership())
type Option func(*contextOptions)

// contextOptions holds optional configuration for Context creation.
type contextOptions struct {
	observer   Observer
	ownDevice  bool
	uploadHook func(slot, plane int)
}

// defaultOptions returns the default context options.
func defaultOptions() contextOptions {
	return contextOptions{observer: nopObserver{}}
}

// WithObserver reports cache and frame counters to o.
func WithObserver(o Observer) Option {
	return func(opts *contextOptions) {
		if o != nil {
			opts.observer = o
		}
	}
}

// WithMetrics exports the context counters as Prometheus metrics labelled
// with name.
func WithMetrics(name string) Option {
	return func(opts *contextOptions) {
		opts.observer = metrics.NewStream(name)
	}
}

// WithDeviceOwnership makes Close close the device after the context's
// textures have been destroyed.
func WithDeviceOwnership() Option {
	return func(opts *contextOptions) {
		opts.ownDevice = true
	}
}

// WithUploadHook calls fn after every plane upload with the cache slot and
// plane index.
func WithUploadHook(fn func(slot, plane int)) Option {
	return func(opts *contextOptions) {
		opts.uploadHook = fn
	}
}
