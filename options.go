package rf2

import (
	"runtime"

	"go.uber.org/zap"
)

// Option configures a codec handler.
type Option func(*Options)

// Options holds all configuration for a codec handler.
type Options struct {
	// Naming
	Namespace    string
	ReleaseType  ReleaseType
	CorePrefix   string
	RefsetPrefix string

	// Import policy
	DropDanglingLinks bool
	TextDefinitions   bool

	// Batch processing
	WorkerCount int

	// Observability
	Logger  *zap.Logger
	Metrics *Metrics
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		Namespace:    "INT",
		ReleaseType:  Snapshot,
		CorePrefix:   "sct2",
		RefsetPrefix: "der2",

		// Dangling language rows abort the import unless explicitly dropped
		DropDanglingLinks: false,
		TextDefinitions:   false,

		WorkerCount: runtime.NumCPU(),

		Logger: zap.NewNop(),
	}
}

// Apply builds Options from the defaults and the given option functions.
func Apply(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// --- Naming Options ---

// WithNamespace sets the namespace written into exported file names.
func WithNamespace(ns string) Option {
	return func(o *Options) {
		if ns != "" {
			o.Namespace = ns
		}
	}
}

// WithReleaseType sets the release type written into exported file names.
func WithReleaseType(r ReleaseType) Option {
	return func(o *Options) {
		if r.IsValid() {
			o.ReleaseType = r
		}
	}
}

// WithPrefixes overrides the core ("sct2") and refset ("der2") file prefixes.
func WithPrefixes(core, refset string) Option {
	return func(o *Options) {
		if core != "" {
			o.CorePrefix = core
		}
		if refset != "" {
			o.RefsetPrefix = refset
		}
	}
}

// --- Import Options ---

// WithDropDanglingLinks drops language rows whose description is not in the
// bundle instead of failing the import.
func WithDropDanglingLinks(enable bool) Option {
	return func(o *Options) {
		o.DropDanglingLinks = enable
	}
}

// WithTextDefinitions imports TextDefinition entries as descriptions.
func WithTextDefinitions(enable bool) Option {
	return func(o *Options) {
		o.TextDefinitions = enable
	}
}

// --- Batch Options ---

// WithWorkerCount sets the number of parallel import workers.
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// --- Observability Options ---

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithMetrics enables metrics collection into m.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// --- Presets ---

// LenientOptions returns options that tolerate incomplete bundles.
func LenientOptions() []Option {
	return []Option{
		WithDropDanglingLinks(true),
		WithTextDefinitions(true),
	}
}
