package slp

import "log/slog"

// StreamMode selects how the HDF5 access layer fetches bytes.
type StreamMode int

// Transport modes for the loader's H5Stream option.
const (
	// StreamAuto tries ranged HTTP first and falls back to a full download
	// on any transport failure.
	StreamAuto StreamMode = iota
	// StreamRange mandates ranged transport; a transport failure is fatal.
	StreamRange
	// StreamDownload forces a single full fetch up front.
	StreamDownload
)

const defaultImageCacheCapacity = 64

// LoaderConfig controls how a Labels document is loaded. Build one with
// NewLoaderConfig and the With* options, or use DefaultLoaderConfig.
type LoaderConfig struct {
	// OpenVideos eagerly instantiates Video backends (default true).
	OpenVideos bool
	// H5Stream selects the HDF5 transport mode for streaming loads.
	H5Stream StreamMode
	// FilenameHint resolves embedded "." video references when loading
	// from an in-memory buffer rather than a named file.
	FilenameHint string
	// ImageCacheCapacity bounds the embedded-video decoded-frame FIFO cache.
	ImageCacheCapacity int
	// Logger receives the one log line the auto transport mode emits on
	// fallback. Defaults to a discarding logger when unset.
	Logger *slog.Logger
}

// LoaderOption mutates a LoaderConfig under construction.
type LoaderOption func(*LoaderConfig)

// DefaultLoaderConfig returns the loader's default configuration.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		OpenVideos:         true,
		H5Stream:           StreamAuto,
		ImageCacheCapacity: defaultImageCacheCapacity,
		Logger:             slog.New(slog.DiscardHandler),
	}
}

// NewLoaderConfig builds a LoaderConfig from DefaultLoaderConfig with the
// given options applied in order.
func NewLoaderConfig(opts ...LoaderOption) LoaderConfig {
	cfg := DefaultLoaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// WithOpenVideos controls whether Video backends are instantiated eagerly.
func WithOpenVideos(open bool) LoaderOption {
	return func(c *LoaderConfig) { c.OpenVideos = open }
}

// WithStream selects the HDF5 transport mode.
func WithStream(mode StreamMode) LoaderOption {
	return func(c *LoaderConfig) { c.H5Stream = mode }
}

// WithFilenameHint sets the logical filename used to resolve embedded "."
// video references when loading from a buffer.
func WithFilenameHint(name string) LoaderOption {
	return func(c *LoaderConfig) { c.FilenameHint = name }
}

// WithImageCacheCapacity bounds the embedded-video decoded-frame cache.
func WithImageCacheCapacity(n int) LoaderOption {
	return func(c *LoaderConfig) { c.ImageCacheCapacity = n }
}

// WithLogger overrides the logger the auto transport fallback writes to.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(c *LoaderConfig) { c.Logger = logger }
}
