package compactstrings

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Vonr/compact-strings/internal/arena"
	"github.com/Vonr/compact-strings/internal/conv"
)

// FixedCompactBytes is the size-optimized flavor of CompactBytes.
//
// Metadata is a table of fixed-width cells that never store a length:
// a spilled entry's length is derived from the next start-bearing cell's
// offset (or the arena length for the last one). Payloads of at most
// InlineCap bytes are embedded directly in the cell and consume no arena
// space at all, which makes removing runs of short entries a pure
// metadata operation.
//
// Ignore does not compact the cell table: the cell is retagged as a
// tombstone that keeps a start offset, so every surviving neighbor's
// derived length is unchanged and the entry's bytes become stale
// padding. Logical indices renumber over live cells; the live-to-
// physical mapping is a roaring bitmap materialized lazily on the first
// Ignore, so containers that never ignore pay nothing for it.
//
// Like CompactBytes, the container is single-writer and all borrowed
// views are invalidated by mutation.
type FixedCompactBytes struct {
	data  *arena.Arena
	cells []cell

	// live maps logical to physical indices once tombstones exist.
	// nil means every cell is live and the mapping is the identity.
	live      *roaring.Bitmap
	liveCount int

	gen     uint64
	logger  *Logger
	metrics MetricsCollector
}

// NewFixedCompactBytes constructs an empty FixedCompactBytes.
func NewFixedCompactBytes(optFns ...Option) *FixedCompactBytes {
	o := applyOptions(optFns)

	c := &FixedCompactBytes{
		data:    arena.New(o.dataCapacity),
		logger:  o.logger,
		metrics: o.metrics,
	}
	if o.metaCapacity > 0 {
		c.cells = make([]cell, 0, o.metaCapacity)
	}
	return c
}

// Push appends a bytestring to the back of the container.
//
// Payloads of at most InlineCap bytes are embedded in the metadata cell
// without touching the arena; longer payloads spill. O(1) amortized.
func (c *FixedCompactBytes) Push(p []byte) {
	if len(p) <= InlineCap {
		c.cells = append(c.cells, newInlineCell(p))
		c.metrics.RecordPush(len(p), false)
	} else {
		start := c.data.Append(p)
		c.cells = append(c.cells, newSpilledCell(start))
		c.metrics.RecordPush(len(p), true)
	}
	if c.live != nil {
		c.live.Add(c.physIndex(len(c.cells) - 1))
	}
	c.liveCount++
	c.gen++
}

// Get returns a borrowed view of the entry at the given index.
//
// Inline entries alias the cell table, spilled entries alias the arena;
// either way the view is valid until the next mutation.
func (c *FixedCompactBytes) Get(index int) ([]byte, error) {
	if index < 0 || index >= c.liveCount {
		return nil, indexError(index, c.liveCount)
	}
	return c.GetUnchecked(index), nil
}

// GetUnchecked is Get without bounds checking. Calling it with an
// out-of-range index panics.
func (c *FixedCompactBytes) GetUnchecked(index int) []byte {
	p := c.physical(index)
	cl := &c.cells[p]
	if cl.isInline() {
		return cl.inlineView()
	}
	start, length := c.derivedSpan(p)
	return c.data.View(start, length)
}

// Len returns the number of live entries. Tombstoned cells are not
// counted.
func (c *FixedCompactBytes) Len() int { return c.liveCount }

// IsEmpty reports whether the container holds no live entries.
func (c *FixedCompactBytes) IsEmpty() bool { return c.liveCount == 0 }

// Tombstones returns the number of tombstoned cells still occupying
// metadata slots. Remove and Compact reduce it.
func (c *FixedCompactBytes) Tombstones() int { return len(c.cells) - c.liveCount }

// ArenaLen returns the current byte length of the arena, including stale
// bytes belonging to tombstoned entries.
func (c *FixedCompactBytes) ArenaLen() int { return c.data.Len() }

// Cap returns the number of bytes the arena can store without
// reallocating.
func (c *FixedCompactBytes) Cap() int { return c.data.Cap() }

// CapMeta returns the number of cells the table can store without
// reallocating.
func (c *FixedCompactBytes) CapMeta() int { return cap(c.cells) }

// Reserve ensures capacity for at least additionalBytes more arena bytes
// and additionalEntries more cells.
func (c *FixedCompactBytes) Reserve(additionalBytes, additionalEntries int) {
	c.data.Reserve(additionalBytes)
	if additionalEntries > 0 && len(c.cells)+additionalEntries > cap(c.cells) {
		grown := make([]cell, len(c.cells), len(c.cells)+additionalEntries)
		copy(grown, c.cells)
		c.cells = grown
	}
}

// Remove deletes the entry at the given index and returns an owned copy
// of its payload. The cell table is compacted by one slot; for spilled
// entries the arena span is reclaimed and subsequent offsets adjusted.
// Removing an inline entry moves no arena bytes at all.
func (c *FixedCompactBytes) Remove(index int) ([]byte, error) {
	if index < 0 || index >= c.liveCount {
		return nil, indexError(index, c.liveCount)
	}
	begin := time.Now()

	p := c.physical(index)
	owned := c.ownedValue(p)
	moved := c.dropCell(p)

	c.liveCount--
	c.gen++
	c.metrics.RecordRemove(moved, time.Since(begin))
	return owned, nil
}

// SwapRemove deletes the entry at the given index, replacing it with the
// last entry when both are inline cells: that path is O(1) and moves no
// arena bytes, and is the case this container is optimized for. When
// either entry spills, offsets must stay monotonic for length
// derivation, so the call falls back to the order-preserving Remove.
func (c *FixedCompactBytes) SwapRemove(index int) ([]byte, error) {
	if index < 0 || index >= c.liveCount {
		return nil, indexError(index, c.liveCount)
	}
	p, lastP, ok := c.swapPair(index)
	if !ok {
		return c.Remove(index)
	}
	begin := time.Now()

	owned := c.ownedValue(p)
	c.cells[p] = c.cells[lastP]
	c.cells = c.cells[:lastP]
	if c.live != nil {
		c.live.Remove(c.physIndex(lastP))
	}
	c.liveCount--
	c.gen++
	c.metrics.RecordRemove(0, time.Since(begin))
	return owned, nil
}

// Ignore tombstones the entry at the given index without moving any
// bytes or cells. The cell keeps a start offset so every survivor's
// derived length is unchanged; the entry's bytes (if spilled) become
// stale padding until the next Remove that crosses them or a Compact.
// Subsequent entries renumber. O(1) plus the derivation scan.
func (c *FixedCompactBytes) Ignore(index int) error {
	if index < 0 || index >= c.liveCount {
		return indexError(index, c.liveCount)
	}
	p := c.physical(index)
	cl := &c.cells[p]

	stale := 0
	if cl.isInline() {
		// No arena span: collapse to the next derivation start so the
		// tombstone's own span is empty.
		c.cells[p] = newTombstoneCell(c.nextStart(p + 1))
	} else {
		_, stale = c.derivedSpan(p)
		cl[0] = tagTombstone
	}

	if c.live == nil {
		c.live = roaring.New()
		c.live.AddRange(0, uint64(len(c.cells)))
	}
	c.live.Remove(c.physIndex(p))
	c.liveCount--
	c.gen++
	c.metrics.RecordIgnore(stale)
	return nil
}

// SwapIgnore tombstones the entry at the given index after replacing it
// with the last entry, when both are inline cells (O(1), order broken).
// Otherwise it falls back to the order-preserving Ignore; see SwapRemove
// for why spilled cells cannot be reordered.
func (c *FixedCompactBytes) SwapIgnore(index int) error {
	if index < 0 || index >= c.liveCount {
		return indexError(index, c.liveCount)
	}
	p, lastP, ok := c.swapPair(index)
	if !ok {
		return c.Ignore(index)
	}

	c.cells[p] = c.cells[lastP]
	c.cells = c.cells[:lastP]
	if c.live != nil {
		c.live.Remove(c.physIndex(lastP))
	}
	c.liveCount--
	c.gen++
	c.metrics.RecordIgnore(0)
	return nil
}

// Insert places a bytestring at the given index. Inline payloads shift
// cells only; spilled payloads additionally splice the arena and adjust
// subsequent offsets. Insert at Len() is equivalent to Push.
func (c *FixedCompactBytes) Insert(index int, p []byte) error {
	if index < 0 || index > c.liveCount {
		return indexError(index, c.liveCount)
	}
	if index == c.liveCount {
		c.Push(p)
		return nil
	}
	begin := time.Now()

	phys := c.physical(index)
	var inserted cell
	moved := 0

	if len(p) <= InlineCap {
		inserted = newInlineCell(p)
	} else {
		pos := c.nextStart(phys)
		c.data.Insert(pos, p)
		// Offsets are monotonic, so every start-bearing cell from phys on
		// sits at or after the splice point.
		for k := phys; k < len(c.cells); k++ {
			if c.cells[k].hasStart() {
				c.cells[k].setStart(c.cells[k].start() + len(p))
			}
		}
		inserted = newSpilledCell(pos)
		moved = c.data.Len() - pos
	}

	c.cells = append(c.cells, cell{})
	copy(c.cells[phys+1:], c.cells[phys:])
	c.cells[phys] = inserted

	if c.live != nil {
		c.live = shiftedForInsert(c.live, c.physIndex(phys))
	}
	c.liveCount++
	c.gen++
	c.metrics.RecordInsert(moved, time.Since(begin))
	return nil
}

// Clear removes all entries and tombstones, keeping allocated capacity.
func (c *FixedCompactBytes) Clear() {
	c.data.Clear()
	c.cells = c.cells[:0]
	c.live = nil
	c.liveCount = 0
	c.gen++
}

// Compact rebuilds both buffers, dropping tombstoned cells and every
// stale arena byte. Live entry order and values are unchanged.
// O(cells + live bytes).
func (c *FixedCompactBytes) Compact() {
	if c.Tombstones() == 0 && !c.hasStaleBytes() {
		return
	}
	staleBytes := c.data.Len()
	tombstones := c.Tombstones()

	rebuilt := arena.New(c.liveBytes())
	kept := make([]cell, 0, c.liveCount)
	for p := range c.cells {
		cl := &c.cells[p]
		switch {
		case cl.isTombstone():
		case cl.isInline():
			kept = append(kept, *cl)
		default:
			start, length := c.derivedSpan(p)
			kept = append(kept, newSpilledCell(rebuilt.Append(c.data.View(start, length))))
		}
	}
	c.data = rebuilt
	c.cells = kept
	c.live = nil
	c.gen++

	c.logger.Debug("compacted fixed container",
		"live_bytes", c.data.Len(),
		"reclaimed_bytes", staleBytes-c.data.Len(),
		"dropped_tombstones", tombstones,
		"entries", c.liveCount,
	)
}

// ShrinkToFit reallocates the arena so its capacity matches its length.
// Stale bytes are not reclaimed; call Compact first for that.
func (c *FixedCompactBytes) ShrinkToFit() {
	c.data.ShrinkToFit()
	c.gen++
}

// ShrinkMetaToFit reallocates the cell table so its capacity matches its
// length.
func (c *FixedCompactBytes) ShrinkMetaToFit() {
	if cap(c.cells) == len(c.cells) {
		return
	}
	shrunk := make([]cell, len(c.cells))
	copy(shrunk, c.cells)
	c.cells = shrunk
	c.gen++
}

// Equal reports whether both containers hold the same live entries in
// the same order. Tombstones and arena layout are not compared.
func (c *FixedCompactBytes) Equal(other *FixedCompactBytes) bool {
	if c.Len() != other.Len() {
		return false
	}
	for i := 0; i < c.liveCount; i++ {
		if !bytes.Equal(c.GetUnchecked(i), other.GetUnchecked(i)) {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer, rendering the live entry list.
func (c *FixedCompactBytes) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < c.liveCount; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%q", c.GetUnchecked(i))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Iter returns a generation-checked iterator over all live entries in
// index order.
func (c *FixedCompactBytes) Iter() *Iter {
	return newIter(c)
}

// physical maps a logical (live) index to a cell table index.
func (c *FixedCompactBytes) physical(index int) int {
	if c.live == nil {
		return index
	}
	p, err := c.live.Select(c.physIndex(index))
	if err != nil {
		panic(fmt.Sprintf("compactstrings: live index %d beyond bitmap: %v", index, err))
	}
	return int(p)
}

func (c *FixedCompactBytes) physIndex(p int) uint32 {
	u, err := conv.IntToUint32(p)
	if err != nil {
		panic(fmt.Sprintf("compactstrings: cell index overflow: %v", err))
	}
	return u
}

// nextStart returns the derivation start at or after physical index
// from: the offset of the first start-bearing cell, or the arena length
// when only inline cells remain.
func (c *FixedCompactBytes) nextStart(from int) int {
	for p := from; p < len(c.cells); p++ {
		if c.cells[p].hasStart() {
			return c.cells[p].start()
		}
	}
	return c.data.Len()
}

// derivedSpan computes the arena span of the start-bearing cell at
// physical index p.
func (c *FixedCompactBytes) derivedSpan(p int) (start, length int) {
	start = c.cells[p].start()
	return start, c.nextStart(p+1) - start
}

// ownedValue copies out the payload of the live cell at physical index
// p. The copy is never nil, even for a zero-length entry.
func (c *FixedCompactBytes) ownedValue(p int) []byte {
	cl := &c.cells[p]
	var view []byte
	if cl.isInline() {
		view = cl.inlineView()
	} else {
		start, length := c.derivedSpan(p)
		view = c.data.View(start, length)
	}
	owned := make([]byte, len(view))
	copy(owned, view)
	return owned
}

// dropCell removes the cell at physical index p from the table, reclaims
// its arena span if spilled, and fixes up the live bitmap. Returns the
// number of arena bytes moved.
func (c *FixedCompactBytes) dropCell(p int) int {
	moved := 0
	cl := &c.cells[p]
	if cl.hasStart() {
		start, length := c.derivedSpan(p)
		if length > 0 {
			end := start + length
			for k := range c.cells {
				if k != p && c.cells[k].hasStart() && c.cells[k].start() >= end {
					c.cells[k].setStart(c.cells[k].start() - length)
				}
			}
			c.data.Cut(start, length)
			moved = c.data.Len() - start
		}
	}

	copy(c.cells[p:], c.cells[p+1:])
	c.cells = c.cells[:len(c.cells)-1]

	if c.live != nil {
		c.live = shiftedForRemove(c.live, c.physIndex(p))
	}
	return moved
}

// swapPair resolves the physical positions for a swap-style operation.
// The O(1) swap path requires both the target and the last live entry to
// be inline, and the last live cell to be physically last so it can be
// popped without disturbing derivation or stranding tombstones.
func (c *FixedCompactBytes) swapPair(index int) (p, lastP int, ok bool) {
	p = c.physical(index)
	lastP = c.physical(c.liveCount - 1)
	if p == lastP {
		return 0, 0, false
	}
	if lastP != len(c.cells)-1 {
		return 0, 0, false
	}
	if !c.cells[p].isInline() || !c.cells[lastP].isInline() {
		return 0, 0, false
	}
	return p, lastP, true
}

func (c *FixedCompactBytes) liveBytes() int {
	total := 0
	for p := range c.cells {
		if c.cells[p].isSpilled() {
			_, length := c.derivedSpan(p)
			total += length
		}
	}
	return total
}

func (c *FixedCompactBytes) hasStaleBytes() bool {
	return c.liveBytes() != c.data.Len()
}

// generation supports iterator staleness checks.
func (c *FixedCompactBytes) generation() uint64 { return c.gen }

// entryAt implements entrySource for iteration.
func (c *FixedCompactBytes) entryAt(index int) []byte { return c.GetUnchecked(index) }

// shiftedForRemove rebuilds a live bitmap after the physical slot at was
// deleted: the slot itself drops out and every index above it moves down
// by one.
func shiftedForRemove(live *roaring.Bitmap, at uint32) *roaring.Bitmap {
	out := roaring.New()
	it := live.Iterator()
	for it.HasNext() {
		v := it.Next()
		switch {
		case v == at:
		case v > at:
			out.Add(v - 1)
		default:
			out.Add(v)
		}
	}
	return out
}

// shiftedForInsert rebuilds a live bitmap after a new live cell was
// spliced in at the given physical slot.
func shiftedForInsert(live *roaring.Bitmap, at uint32) *roaring.Bitmap {
	out := roaring.New()
	it := live.Iterator()
	for it.HasNext() {
		v := it.Next()
		if v >= at {
			out.Add(v + 1)
		} else {
			out.Add(v)
		}
	}
	out.Add(at)
	return out
}
