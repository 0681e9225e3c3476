package compactstrings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellInline(t *testing.T) {
	for n := 0; n <= InlineCap; n++ {
		p := make([]byte, n)
		for i := range p {
			p[i] = byte('a' + i)
		}
		c := newInlineCell(p)

		require.True(t, c.isInline(), "len %d", n)
		require.False(t, c.hasStart())
		require.False(t, c.isSpilled())
		require.False(t, c.isTombstone())
		assert.Equal(t, p, append([]byte{}, c.inlineView()...))
	}
}

func TestCellSpilledStart(t *testing.T) {
	for _, start := range []int{0, 1, InlineCap, 128, 1 << 20, maxStart} {
		c := newSpilledCell(start)
		require.True(t, c.isSpilled(), "start %d", start)
		require.True(t, c.hasStart())
		require.False(t, c.isInline(), "a start must never be mistaken for an inline tag")
		assert.Equal(t, start, c.start())
	}
}

func TestCellTombstone(t *testing.T) {
	c := newTombstoneCell(42)
	require.True(t, c.isTombstone())
	require.True(t, c.hasStart())
	require.False(t, c.isInline())
	require.False(t, c.isSpilled())
	assert.Equal(t, 42, c.start())
}

func TestCellSetStartKeepsTag(t *testing.T) {
	c := newSpilledCell(10)
	c.setStart(99)
	assert.True(t, c.isSpilled())
	assert.Equal(t, 99, c.start())

	ts := newTombstoneCell(10)
	ts.setStart(99)
	assert.True(t, ts.isTombstone())
	assert.Equal(t, 99, ts.start())
}

func TestCellStartOverflowPanics(t *testing.T) {
	assert.Panics(t, func() { newSpilledCell(maxStart + 1) })
	assert.Panics(t, func() { newSpilledCell(-1) })
}
