package compactstrings

type options struct {
	dataCapacity int
	metaCapacity int
	logger       *Logger
	metrics      MetricsCollector
}

// Option configures container construction.
//
// Capacity hints exist to avoid early reallocation during bulk ingestion;
// they affect reserved capacity only, never logical length.
type Option func(*options)

// WithDataCapacity reserves at least the given number of bytes in the
// arena where entry payloads are stored.
func WithDataCapacity(bytes int) Option {
	return func(o *options) {
		if bytes > 0 {
			o.dataCapacity = bytes
		}
	}
}

// WithMetaCapacity reserves at least the given number of metadata slots.
func WithMetaCapacity(entries int) Option {
	return func(o *options) {
		if entries > 0 {
			o.metaCapacity = entries
		}
	}
}

// WithLogger configures structured logging for snapshot and rebuild
// operations. Pass nil to keep the default no-op logger.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics configures a metrics collector for monitoring operations.
// Pass nil to keep the default no-op collector.
func WithMetrics(mc MetricsCollector) Option {
	return func(o *options) {
		if mc != nil {
			o.metrics = mc
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
