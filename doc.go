// Package compactstrings provides compact containers for lists of
// strings and bytestrings.
//
// Instead of one heap allocation per element, every payload lives in a
// single shared byte arena with a separate growable metadata table
// describing where each entry starts. The result is two allocations no
// matter how many entries are stored, dense cache-friendly iteration,
// and far less GC pressure than []string or [][]byte for large lists.
//
// # Quick Start
//
//	c := compactstrings.NewCompactStrings()
//	_ = c.Push("first")
//	_ = c.Push("second")
//
//	s, _ := c.Get(0)      // "first", zero-copy view into the arena
//	for it := c.Iter(); it.Next(); {
//	    fmt.Println(it.Value())
//	}
//
// # Flavors
//
// Four container flavors share one design:
//
//	CompactBytes         explicit metadata, arbitrary bytestrings
//	CompactStrings       explicit metadata, UTF-8 validated
//	FixedCompactBytes    implicit metadata, arbitrary bytestrings
//	FixedCompactStrings  implicit metadata, UTF-8 validated
//
// The explicit flavors store a start offset and a length per entry and
// support every operation at full generality. The fixed flavors store a
// single fixed-width cell per entry: lengths are derived from the next
// entry's offset, and payloads of up to InlineCap bytes are embedded
// directly in the cell, costing no arena space at all. Fixed containers
// are smaller and faster for huge lists of short entries, at the price
// of order-dependent offsets (see SwapRemove on the fixed flavors).
//
// # Removal trade-offs
//
// Deleting from a contiguous arena is the expensive operation, so each
// container offers a spectrum:
//
//	Remove      compacts metadata and arena; owned copy returned
//	SwapRemove  order-breaking; cheaper metadata work
//	Ignore      metadata-only; entry bytes stay as stale padding
//	SwapIgnore  order-breaking and metadata-only; O(1)
//
// Stale padding accumulated by the Ignore forms is reclaimed by Compact.
//
// # Borrowing
//
// Get, GetUnchecked and the iterators return views that alias the
// container's buffers. Any mutation invalidates all outstanding views;
// iterators additionally detect mutation and report ErrStaleIterator.
// Containers are not synchronized: concurrent readers are safe only in
// the absence of a mutator.
//
// # Persistence
//
// SaveTo writes a checksummed, optionally compressed snapshot; the
// LoadCompactBytes family reads one back:
//
//	var buf bytes.Buffer
//	_ = c.SaveTo(&buf, compactstrings.WithCompression(compactstrings.CompressionLZ4))
//	c2, _ := compactstrings.LoadCompactStrings(&buf)
package compactstrings
