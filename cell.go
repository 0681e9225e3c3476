package compactstrings

import (
	"encoding/binary"
	"fmt"
)

// InlineCap is the largest payload, in bytes, that a fixed container
// stores directly in its metadata cell instead of the arena.
const InlineCap = 7

// A cell is the fixed-width metadata slot of the fixed containers.
// Byte 0 is the tag, the remaining 7 bytes are payload or offset:
//
//	0x80|len  inline: payload of len (0..7) bytes in cell[1:1+len]
//	0x00      spilled: arena start offset, big-endian, in cell[1:8]
//	0xc0      tombstone: collapsed start offset in cell[1:8]
//
// Only spilled and tombstone cells carry a start and participate in
// length derivation; inline cells are skipped. A tombstone keeps a start
// purely so its neighbors' derived spans are unaffected by the removal:
// a spilled cell that is tombstoned keeps its own start (its derived
// span becomes the stale region), an inline cell that is tombstoned is
// given the next derivation start so its span is empty.
//
// The start is limited to 56 bits, which caps the arena at 2^56 bytes.
type cell [8]byte

const (
	tagSpilled   = 0x00
	tagInline    = 0x80
	tagTombstone = 0xc0

	inlineTagMask = 0xf8
	inlineLenMask = 0x07

	maxStart = 1<<56 - 1
)

func newInlineCell(p []byte) cell {
	var c cell
	c[0] = tagInline | byte(len(p))
	copy(c[1:], p)
	return c
}

func newSpilledCell(start int) cell {
	return newStartCell(tagSpilled, start)
}

func newTombstoneCell(start int) cell {
	return newStartCell(tagTombstone, start)
}

func newStartCell(tag byte, start int) cell {
	if start < 0 || start > maxStart {
		// 2^56 bytes of arena is beyond any allocatable size; treat like
		// the runtime treats slice length overflow.
		panic(fmt.Sprintf("compactstrings: arena offset %d overflows cell", start))
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(start))
	var c cell
	c[0] = tag
	copy(c[1:], b[1:])
	return c
}

func (c *cell) isInline() bool    { return c[0]&inlineTagMask == tagInline }
func (c *cell) isSpilled() bool   { return c[0] == tagSpilled }
func (c *cell) isTombstone() bool { return c[0] == tagTombstone }

// hasStart reports whether the cell carries a derivation start.
func (c *cell) hasStart() bool { return !c.isInline() }

// inlineView returns the embedded payload without copying. The view
// aliases the cell slice and is invalidated by any container mutation.
func (c *cell) inlineView() []byte {
	n := int(c[0] & inlineLenMask)
	return c[1 : 1+n : 1+n]
}

// start returns the arena offset of a spilled or tombstone cell.
func (c *cell) start() int {
	var b [8]byte
	copy(b[1:], c[1:])
	return int(binary.BigEndian.Uint64(b[:]))
}

// setStart rewrites the offset, keeping the tag.
func (c *cell) setStart(start int) {
	*c = newStartCell(c[0], start)
}
