// Package compactstrings provides compact contiguous containers for lists
// of strings and bytestrings.
//
// This file implements the fluent builder and bulk-collection APIs.
// Builders are immutable - each method returns a new builder with the
// updated configuration.
package compactstrings

import "iter"

// =============================================================================
// Explicit Builder (Immutable)
// =============================================================================

// Explicit creates a builder for the explicit containers (CompactBytes,
// CompactStrings), which store a start offset and a length per entry.
// Pick this flavor for general-purpose workloads.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration.
//
// Example:
//
//	c := compactstrings.Explicit().
//	    DataCapacity(1 << 20).
//	    MetaCapacity(1024).
//	    BuildStrings()
func Explicit() ExplicitBuilder {
	return ExplicitBuilder{}
}

// ExplicitBuilder is an immutable fluent builder for the explicit
// container flavors.
type ExplicitBuilder struct {
	dataCapacity int
	metaCapacity int
	logger       *Logger
	metrics      MetricsCollector
}

// DataCapacity pre-sizes the byte arena.
func (b ExplicitBuilder) DataCapacity(n int) ExplicitBuilder {
	b.dataCapacity = n
	return b
}

// MetaCapacity pre-sizes the metadata table, in entries.
func (b ExplicitBuilder) MetaCapacity(n int) ExplicitBuilder {
	b.metaCapacity = n
	return b
}

// Logger sets the structured logger for operation tracing.
func (b ExplicitBuilder) Logger(l *Logger) ExplicitBuilder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b ExplicitBuilder) Metrics(mc MetricsCollector) ExplicitBuilder {
	b.metrics = mc
	return b
}

func (b ExplicitBuilder) options() []Option {
	var optFns []Option
	if b.dataCapacity > 0 {
		optFns = append(optFns, WithDataCapacity(b.dataCapacity))
	}
	if b.metaCapacity > 0 {
		optFns = append(optFns, WithMetaCapacity(b.metaCapacity))
	}
	if b.logger != nil {
		optFns = append(optFns, WithLogger(b.logger))
	}
	if b.metrics != nil {
		optFns = append(optFns, WithMetrics(b.metrics))
	}
	return optFns
}

// BuildBytes creates an empty CompactBytes.
func (b ExplicitBuilder) BuildBytes() *CompactBytes {
	return NewCompactBytes(b.options()...)
}

// BuildStrings creates an empty CompactStrings.
func (b ExplicitBuilder) BuildStrings() *CompactStrings {
	return NewCompactStrings(b.options()...)
}

// =============================================================================
// Fixed Builder (Immutable)
// =============================================================================

// Fixed creates a builder for the fixed containers (FixedCompactBytes,
// FixedCompactStrings), which derive lengths from neighboring offsets
// and store payloads of up to InlineCap bytes inline. Pick this flavor
// when entries are numerous and short.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration.
func Fixed() FixedBuilder {
	return FixedBuilder{}
}

// FixedBuilder is an immutable fluent builder for the fixed container
// flavors.
type FixedBuilder struct {
	dataCapacity int
	metaCapacity int
	logger       *Logger
	metrics      MetricsCollector
}

// DataCapacity pre-sizes the byte arena. Inline payloads never reach
// the arena, so size this for the spilled entries only.
func (b FixedBuilder) DataCapacity(n int) FixedBuilder {
	b.dataCapacity = n
	return b
}

// MetaCapacity pre-sizes the cell table, in entries.
func (b FixedBuilder) MetaCapacity(n int) FixedBuilder {
	b.metaCapacity = n
	return b
}

// Logger sets the structured logger for operation tracing.
func (b FixedBuilder) Logger(l *Logger) FixedBuilder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b FixedBuilder) Metrics(mc MetricsCollector) FixedBuilder {
	b.metrics = mc
	return b
}

func (b FixedBuilder) options() []Option {
	var optFns []Option
	if b.dataCapacity > 0 {
		optFns = append(optFns, WithDataCapacity(b.dataCapacity))
	}
	if b.metaCapacity > 0 {
		optFns = append(optFns, WithMetaCapacity(b.metaCapacity))
	}
	if b.logger != nil {
		optFns = append(optFns, WithLogger(b.logger))
	}
	if b.metrics != nil {
		optFns = append(optFns, WithMetrics(b.metrics))
	}
	return optFns
}

// BuildBytes creates an empty FixedCompactBytes.
func (b FixedBuilder) BuildBytes() *FixedCompactBytes {
	return NewFixedCompactBytes(b.options()...)
}

// BuildStrings creates an empty FixedCompactStrings.
func (b FixedBuilder) BuildStrings() *FixedCompactStrings {
	return NewFixedCompactStrings(b.options()...)
}

// =============================================================================
// Bulk collection
// =============================================================================

// CollectBytes builds a CompactBytes from a sequence of bytestrings.
// Each payload is copied into the arena.
func CollectBytes(seq iter.Seq[[]byte], optFns ...Option) *CompactBytes {
	c := NewCompactBytes(optFns...)
	for p := range seq {
		c.Push(p)
	}
	return c
}

// CollectStrings builds a CompactStrings from a sequence of strings,
// stopping at the first invalid-UTF-8 payload.
func CollectStrings(seq iter.Seq[string], optFns ...Option) (*CompactStrings, error) {
	c := NewCompactStrings(optFns...)
	for s := range seq {
		if err := c.Push(s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// CollectFixedBytes builds a FixedCompactBytes from a sequence of
// bytestrings.
func CollectFixedBytes(seq iter.Seq[[]byte], optFns ...Option) *FixedCompactBytes {
	c := NewFixedCompactBytes(optFns...)
	for p := range seq {
		c.Push(p)
	}
	return c
}

// CollectFixedStrings builds a FixedCompactStrings from a sequence of
// strings, stopping at the first invalid-UTF-8 payload.
func CollectFixedStrings(seq iter.Seq[string], optFns ...Option) (*FixedCompactStrings, error) {
	c := NewFixedCompactStrings(optFns...)
	for s := range seq {
		if err := c.Push(s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// FromSlice builds a CompactStrings from a string slice, pre-sizing both
// buffers from the slice contents.
func FromSlice(entries []string, optFns ...Option) (*CompactStrings, error) {
	total := 0
	for _, s := range entries {
		total += len(s)
	}
	opts := append([]Option{WithDataCapacity(total), WithMetaCapacity(len(entries))}, optFns...)

	c := NewCompactStrings(opts...)
	for _, s := range entries {
		if err := c.Push(s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// FromByteSlices builds a CompactBytes from a slice of bytestrings,
// pre-sizing both buffers from the slice contents.
func FromByteSlices(entries [][]byte, optFns ...Option) *CompactBytes {
	total := 0
	for _, p := range entries {
		total += len(p)
	}
	opts := append([]Option{WithDataCapacity(total), WithMetaCapacity(len(entries))}, optFns...)

	c := NewCompactBytes(opts...)
	for _, p := range entries {
		c.Push(p)
	}
	return c
}
