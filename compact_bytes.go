package compactstrings

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/Vonr/compact-strings/internal/arena"
)

// CompactBytes is a cache-friendly but limited representation of a list
// of bytestrings.
//
// Payloads are stored contiguously in one shared byte arena, with their
// start offsets and lengths kept in a separate metadata table. Compared
// to a [][]byte this trades per-entry heap allocations for two growable
// buffers, at the cost of making arbitrary deletion and in-place
// mutation expensive.
//
// CompactBytes is not synchronized: at most one mutator at a time, and
// concurrent readers are only safe in the absence of any mutator. Views
// returned by Get and the iterators borrow the arena and are invalidated
// by any subsequent mutation.
type CompactBytes struct {
	data    *arena.Arena
	meta    []record
	gen     uint64
	logger  *Logger
	metrics MetricsCollector
}

// NewCompactBytes constructs an empty CompactBytes.
//
// Use WithDataCapacity and WithMetaCapacity to pre-size the arena and the
// metadata table when the ingestion volume is known.
func NewCompactBytes(optFns ...Option) *CompactBytes {
	o := applyOptions(optFns)

	c := &CompactBytes{
		data:    arena.New(o.dataCapacity),
		logger:  o.logger,
		metrics: o.metrics,
	}
	if o.metaCapacity > 0 {
		c.meta = make([]record, 0, o.metaCapacity)
	}
	return c
}

// Push appends a bytestring to the back of the container. The payload is
// copied into the arena. O(1) amortized.
func (c *CompactBytes) Push(p []byte) {
	start := c.data.Append(p)
	c.meta = append(c.meta, record{start: start, length: len(p)})
	c.gen++
	c.metrics.RecordPush(len(p), true)
}

// Get returns a borrowed view of the entry at the given index.
//
// The view aliases the arena: it is valid until the next mutation of the
// container. Copy it before mutating if the bytes must outlive the next
// push, remove or insert.
func (c *CompactBytes) Get(index int) ([]byte, error) {
	if index < 0 || index >= len(c.meta) {
		return nil, indexError(index, len(c.meta))
	}
	return c.GetUnchecked(index), nil
}

// GetUnchecked is Get without bounds checking, as a performance escape
// hatch for callers that have already validated the index. Calling it
// with an out-of-range index panics.
func (c *CompactBytes) GetUnchecked(index int) []byte {
	rec := c.meta[index]
	return c.data.View(rec.start, rec.length)
}

// Len returns the number of entries in the container.
func (c *CompactBytes) Len() int { return len(c.meta) }

// IsEmpty reports whether the container holds no entries.
func (c *CompactBytes) IsEmpty() bool { return len(c.meta) == 0 }

// ArenaLen returns the current byte length of the arena, including any
// stale bytes left behind by Ignore or SwapIgnore.
func (c *CompactBytes) ArenaLen() int { return c.data.Len() }

// Cap returns the number of bytes the arena can store without
// reallocating.
func (c *CompactBytes) Cap() int { return c.data.Cap() }

// CapMeta returns the number of metadata records the table can store
// without reallocating.
func (c *CompactBytes) CapMeta() int { return cap(c.meta) }

// Reserve ensures capacity for at least additionalBytes more arena bytes
// and additionalEntries more metadata records.
func (c *CompactBytes) Reserve(additionalBytes, additionalEntries int) {
	c.data.Reserve(additionalBytes)
	if additionalEntries > 0 && len(c.meta)+additionalEntries > cap(c.meta) {
		grown := make([]record, len(c.meta), len(c.meta)+additionalEntries)
		copy(grown, c.meta)
		c.meta = grown
	}
}

// Remove deletes the entry at the given index and returns an owned copy
// of its payload.
//
// Both buffers are compacted: metadata records after index shift down one
// slot, arena bytes after the removed span shift left, and affected start
// offsets are adjusted. O(entries after index + bytes after the span).
func (c *CompactBytes) Remove(index int) ([]byte, error) {
	if index < 0 || index >= len(c.meta) {
		return nil, indexError(index, len(c.meta))
	}
	begin := time.Now()

	rec := c.meta[index]
	owned := c.ownedValue(rec)

	copy(c.meta[index:], c.meta[index+1:])
	c.meta = c.meta[:len(c.meta)-1]
	c.reclaim(rec)
	c.gen++

	c.metrics.RecordRemove(c.data.Len()-rec.start, time.Since(begin))
	return owned, nil
}

// SwapRemove deletes the entry at the given index by replacing its
// metadata with the last entry's and popping the last slot, then
// reclaiming the removed payload's arena span. Does not preserve entry
// order. O(1) on the metadata table, O(bytes after the span) on the
// arena.
//
// Fitting the last entry's bytes into the freed span is never attempted:
// the spans rarely match, and a partial fit would leave stale padding the
// shrinking methods cannot account for.
func (c *CompactBytes) SwapRemove(index int) ([]byte, error) {
	if index < 0 || index >= len(c.meta) {
		return nil, indexError(index, len(c.meta))
	}
	begin := time.Now()

	rec := c.meta[index]
	owned := c.ownedValue(rec)

	c.meta[index] = c.meta[len(c.meta)-1]
	c.meta = c.meta[:len(c.meta)-1]
	c.reclaim(rec)
	c.gen++

	c.metrics.RecordRemove(c.data.Len()-rec.start, time.Since(begin))
	return owned, nil
}

// Ignore deletes the metadata record at the given index without touching
// the arena. The entry's bytes become unreachable stale padding until the
// next Compact. O(entries after index), no byte movement.
func (c *CompactBytes) Ignore(index int) error {
	if index < 0 || index >= len(c.meta) {
		return indexError(index, len(c.meta))
	}
	stale := c.meta[index].length

	copy(c.meta[index:], c.meta[index+1:])
	c.meta = c.meta[:len(c.meta)-1]
	c.gen++

	c.metrics.RecordIgnore(stale)
	return nil
}

// SwapIgnore deletes the metadata record at the given index by replacing
// it with the last record and popping the last slot. Does not preserve
// entry order. The entry's bytes become stale padding. O(1).
func (c *CompactBytes) SwapIgnore(index int) error {
	if index < 0 || index >= len(c.meta) {
		return indexError(index, len(c.meta))
	}
	stale := c.meta[index].length

	c.meta[index] = c.meta[len(c.meta)-1]
	c.meta = c.meta[:len(c.meta)-1]
	c.gen++

	c.metrics.RecordIgnore(stale)
	return nil
}

// Insert places a bytestring at the given index, shifting subsequent
// metadata records and arena bytes right. Insert at Len() is equivalent
// to Push. O(entries after index + bytes after the insertion point).
func (c *CompactBytes) Insert(index int, p []byte) error {
	if index < 0 || index > len(c.meta) {
		return indexError(index, len(c.meta))
	}
	if index == len(c.meta) {
		c.Push(p)
		return nil
	}
	begin := time.Now()

	pos := c.meta[index].start
	c.data.Insert(pos, p)
	for i := range c.meta {
		if c.meta[i].start >= pos {
			c.meta[i].start += len(p)
		}
	}

	c.meta = append(c.meta, record{})
	copy(c.meta[index+1:], c.meta[index:])
	c.meta[index] = record{start: pos, length: len(p)}
	c.gen++

	c.metrics.RecordInsert(c.data.Len()-pos, time.Since(begin))
	return nil
}

// Clear removes all entries. Allocated capacity of both buffers is kept.
func (c *CompactBytes) Clear() {
	c.data.Clear()
	c.meta = c.meta[:0]
	c.gen++
}

// Compact rebuilds the arena, dropping every stale byte left behind by
// Ignore and SwapIgnore. Entry order and values are unchanged.
// O(total live bytes).
func (c *CompactBytes) Compact() {
	liveBytes := 0
	for _, rec := range c.meta {
		liveBytes += rec.length
	}
	staleBytes := c.data.Len() - liveBytes
	if staleBytes == 0 {
		return
	}

	rebuilt := arena.New(liveBytes)
	for i, rec := range c.meta {
		start := rebuilt.Append(c.data.View(rec.start, rec.length))
		c.meta[i].start = start
	}
	c.data = rebuilt
	c.gen++

	c.logger.Debug("compacted arena",
		"live_bytes", liveBytes,
		"reclaimed_bytes", staleBytes,
		"entries", len(c.meta),
	)
}

// ShrinkToFit reallocates the arena so its capacity matches its length.
// Stale bytes are not reclaimed; call Compact first for that.
func (c *CompactBytes) ShrinkToFit() {
	c.data.ShrinkToFit()
	c.gen++
}

// ShrinkMetaToFit reallocates the metadata table so its capacity matches
// its length.
func (c *CompactBytes) ShrinkMetaToFit() {
	if cap(c.meta) == len(c.meta) {
		return
	}
	shrunk := make([]record, len(c.meta))
	copy(shrunk, c.meta)
	c.meta = shrunk
	c.gen++
}

// Equal reports whether both containers hold the same entries in the
// same order. Arena layout (stale bytes, capacities) is not compared.
func (c *CompactBytes) Equal(other *CompactBytes) bool {
	if c.Len() != other.Len() {
		return false
	}
	for i := range c.meta {
		if !bytes.Equal(c.GetUnchecked(i), other.GetUnchecked(i)) {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer, rendering the entry list.
func (c *CompactBytes) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := range c.meta {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%q", c.GetUnchecked(i))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Iter returns a generation-checked iterator over all entries in index
// order.
func (c *CompactBytes) Iter() *Iter {
	return newIter(c)
}

// ownedValue copies out the payload of rec. The copy is never nil, even
// for a zero-length entry.
func (c *CompactBytes) ownedValue(rec record) []byte {
	owned := make([]byte, rec.length)
	copy(owned, c.data.View(rec.start, rec.length))
	return owned
}

// reclaim shifts out the arena span of rec and adjusts every remaining
// start offset at or after the span's end. Records never overlap the cut
// span: live spans are disjoint, and stale spans from earlier ignores
// have no records pointing at them.
func (c *CompactBytes) reclaim(rec record) {
	if rec.length == 0 {
		return
	}
	for i := range c.meta {
		if c.meta[i].start >= rec.end() {
			c.meta[i].start -= rec.length
		}
	}
	c.data.Cut(rec.start, rec.length)
}

// generation supports iterator staleness checks.
func (c *CompactBytes) generation() uint64 { return c.gen }

// entryAt implements entrySource for iteration.
func (c *CompactBytes) entryAt(index int) []byte { return c.GetUnchecked(index) }
