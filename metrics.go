package compactstrings

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordPush is called after each push. bytes is the payload size,
	// spilled reports whether the payload went to the arena (always true
	// for the explicit variants).
	RecordPush(bytes int, spilled bool)

	// RecordRemove is called after each remove or swap-remove.
	// bytesMoved is the number of arena bytes shifted to reclaim the
	// entry's span.
	RecordRemove(bytesMoved int, duration time.Duration)

	// RecordIgnore is called after each ignore or swap-ignore.
	// staleBytes is the number of arena bytes left unreachable.
	RecordIgnore(staleBytes int)

	// RecordInsert is called after each positional insert.
	RecordInsert(bytesMoved int, duration time.Duration)

	// RecordSnapshotSave is called after each snapshot write.
	// bytes is the encoded size; err is nil on success.
	RecordSnapshotSave(bytes int, duration time.Duration, err error)

	// RecordSnapshotLoad is called after each snapshot read.
	RecordSnapshotLoad(bytes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPush(int, bool)                             {}
func (NoopMetricsCollector) RecordRemove(int, time.Duration)                  {}
func (NoopMetricsCollector) RecordIgnore(int)                                 {}
func (NoopMetricsCollector) RecordInsert(int, time.Duration)                  {}
func (NoopMetricsCollector) RecordSnapshotSave(int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordSnapshotLoad(int, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	PushCount          atomic.Int64
	PushBytes          atomic.Int64
	PushInline         atomic.Int64
	RemoveCount        atomic.Int64
	RemoveBytesMoved   atomic.Int64
	RemoveTotalNanos   atomic.Int64
	IgnoreCount        atomic.Int64
	IgnoreStaleBytes   atomic.Int64
	InsertCount        atomic.Int64
	InsertBytesMoved   atomic.Int64
	InsertTotalNanos   atomic.Int64
	SnapshotSaveCount  atomic.Int64
	SnapshotSaveErrors atomic.Int64
	SnapshotSaveBytes  atomic.Int64
	SnapshotLoadCount  atomic.Int64
	SnapshotLoadErrors atomic.Int64
	SnapshotLoadBytes  atomic.Int64
}

// RecordPush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPush(bytes int, spilled bool) {
	b.PushCount.Add(1)
	b.PushBytes.Add(int64(bytes))
	if !spilled {
		b.PushInline.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(bytesMoved int, duration time.Duration) {
	b.RemoveCount.Add(1)
	b.RemoveBytesMoved.Add(int64(bytesMoved))
	b.RemoveTotalNanos.Add(duration.Nanoseconds())
}

// RecordIgnore implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIgnore(staleBytes int) {
	b.IgnoreCount.Add(1)
	b.IgnoreStaleBytes.Add(int64(staleBytes))
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(bytesMoved int, duration time.Duration) {
	b.InsertCount.Add(1)
	b.InsertBytesMoved.Add(int64(bytesMoved))
	b.InsertTotalNanos.Add(duration.Nanoseconds())
}

// RecordSnapshotSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshotSave(bytes int, duration time.Duration, err error) {
	b.SnapshotSaveCount.Add(1)
	b.SnapshotSaveBytes.Add(int64(bytes))
	if err != nil {
		b.SnapshotSaveErrors.Add(1)
	}
}

// RecordSnapshotLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshotLoad(bytes int, duration time.Duration, err error) {
	b.SnapshotLoadCount.Add(1)
	b.SnapshotLoadBytes.Add(int64(bytes))
	if err != nil {
		b.SnapshotLoadErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		PushCount:          b.PushCount.Load(),
		PushBytes:          b.PushBytes.Load(),
		PushInline:         b.PushInline.Load(),
		RemoveCount:        b.RemoveCount.Load(),
		RemoveBytesMoved:   b.RemoveBytesMoved.Load(),
		RemoveAvgNanos:     avg(b.RemoveTotalNanos.Load(), b.RemoveCount.Load()),
		IgnoreCount:        b.IgnoreCount.Load(),
		IgnoreStaleBytes:   b.IgnoreStaleBytes.Load(),
		InsertCount:        b.InsertCount.Load(),
		InsertBytesMoved:   b.InsertBytesMoved.Load(),
		InsertAvgNanos:     avg(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		SnapshotSaveCount:  b.SnapshotSaveCount.Load(),
		SnapshotSaveErrors: b.SnapshotSaveErrors.Load(),
		SnapshotSaveBytes:  b.SnapshotSaveBytes.Load(),
		SnapshotLoadCount:  b.SnapshotLoadCount.Load(),
		SnapshotLoadErrors: b.SnapshotLoadErrors.Load(),
		SnapshotLoadBytes:  b.SnapshotLoadBytes.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	PushCount          int64
	PushBytes          int64
	PushInline         int64
	RemoveCount        int64
	RemoveBytesMoved   int64
	RemoveAvgNanos     int64
	IgnoreCount        int64
	IgnoreStaleBytes   int64
	InsertCount        int64
	InsertBytesMoved   int64
	InsertAvgNanos     int64
	SnapshotSaveCount  int64
	SnapshotSaveErrors int64
	SnapshotSaveBytes  int64
	SnapshotLoadCount  int64
	SnapshotLoadErrors int64
	SnapshotLoadBytes  int64
}
