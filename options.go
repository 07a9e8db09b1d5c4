package voxgo

import (
	"log/slog"

	"github.com/hupe1980/voxgo/persistence"
	"github.com/hupe1980/voxgo/resource"
)

type options struct {
	logger      *Logger
	metrics     MetricsCollector
	parallelism int
	compression uint32
	rc          *resource.Controller
}

// Option configures grid constructor/load behavior.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithParallelism bounds the number of goroutines used by fan-out queries
// such as CollectRange. Values below 1 fall back to GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// Snapshot compression codecs accepted by WithCompression.
const (
	CompressionNone = persistence.CompressionNone
	CompressionLZ4  = persistence.CompressionLZ4
	CompressionZSTD = persistence.CompressionZSTD
)

// WithCompression selects the block compression applied to snapshot
// payloads. Defaults to CompressionNone.
func WithCompression(compression uint32) Option {
	return func(o *options) {
		o.compression = compression
	}
}

// WithResourceController charges loaded snapshots against the controller's
// memory budget and throttles snapshot IO with its rate limit. Pass nil to
// disable budgeting.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:      NoopLogger(),
		metrics:     NoopMetricsCollector{},
		compression: CompressionNone,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
