package vecfilter

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/vecfilter/attrset"
	"github.com/hupe1980/vecfilter/hnsw"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	representation   attrset.Kind
	expectedAttrs    uint64
	hnswOptions      []func(*hnsw.Options)
	parallelism      int
}

// Option configures Index construction.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vecfilter.BasicMetricsCollector{}
//	idx, _ := vecfilter.New(128, 64, vecfilter.WithMetricsCollector(metrics))
//	// ... use idx ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, selectivity: %.2f\n", stats.SearchCount, stats.Selectivity())
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := vecfilter.NewJSONLogger(slog.LevelInfo)
//	idx, _ := vecfilter.New(128, 64, vecfilter.WithLogger(logger))
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

// WithRepresentation fixes the attribute set representation used by
// NewAttributeSet. The default, attrset.KindAuto, picks one from the
// universe size and the hint given by WithExpectedAttributes.
func WithRepresentation(kind attrset.Kind) Option {
	return func(o *options) {
		o.representation = kind
	}
}

// WithExpectedAttributes hints the typical number of attributes per point.
// It only matters when the representation is attrset.KindAuto.
func WithExpectedAttributes(n uint64) Option {
	return func(o *options) {
		o.expectedAttrs = n
	}
}

// WithHNSW configures the underlying graph.
//
//	idx, _ := vecfilter.New(128, 64, vecfilter.WithHNSW(func(o *hnsw.Options) {
//	    o.M = 32
//	    o.EF = 400
//	}))
func WithHNSW(optFns ...func(*hnsw.Options)) Option {
	return func(o *options) {
		o.hnswOptions = append(o.hnswOptions, optFns...)
	}
}

// WithParallelism bounds the number of queries BatchSearch runs at once.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		representation:   attrset.KindAuto,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.parallelism < 1 {
		o.parallelism = runtime.GOMAXPROCS(0)
	}
	return o
}

type searchOptions struct {
	ef int
}

// SearchOption configures a single search.
type SearchOption func(*searchOptions)

// WithEF sets the candidate list size for this search.
// Higher values improve recall but slow down search. Values below k are raised to k.
func WithEF(ef int) SearchOption {
	return func(o *searchOptions) {
		o.ef = ef
	}
}

func applySearchOptions(optFns []SearchOption) searchOptions {
	var o searchOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
