package compactstrings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterOrder(t *testing.T) {
	c := NewCompactBytes()
	want := [][]byte{[]byte("a"), []byte("bb"), []byte("ccc")}
	for _, p := range want {
		c.Push(p)
	}

	var got [][]byte
	it := c.Iter()
	for it.Next() {
		got = append(got, append([]byte(nil), it.Value()...))
	}
	require.NoError(t, it.Err())
	assert.Equal(t, want, got)

	assert.False(t, it.Next(), "exhausted iterator stays exhausted")
	require.NoError(t, it.Err())
}

func TestIterEmpty(t *testing.T) {
	it := NewCompactBytes().Iter()
	assert.False(t, it.Next())
	require.NoError(t, it.Err())
}

func TestIterStaleAfterMutation(t *testing.T) {
	c := NewCompactBytes()
	c.Push([]byte("a"))
	c.Push([]byte("b"))

	it := c.Iter()
	require.True(t, it.Next())

	c.Push([]byte("c"))

	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), ErrStaleIterator)
	assert.Nil(t, it.Value())
}

func TestIterStaleAfterEveryMutator(t *testing.T) {
	mutations := map[string]func(c *CompactBytes){
		"push":        func(c *CompactBytes) { c.Push([]byte("x")) },
		"remove":      func(c *CompactBytes) { _, _ = c.Remove(0) },
		"swap remove": func(c *CompactBytes) { _, _ = c.SwapRemove(0) },
		"ignore":      func(c *CompactBytes) { _ = c.Ignore(0) },
		"swap ignore": func(c *CompactBytes) { _ = c.SwapIgnore(0) },
		"insert":      func(c *CompactBytes) { _ = c.Insert(0, []byte("x")) },
		"clear":       func(c *CompactBytes) { c.Clear() },
		"shrink":      func(c *CompactBytes) { c.ShrinkToFit() },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			c := NewCompactBytes()
			c.Push([]byte("a"))
			c.Push([]byte("b"))
			c.Push([]byte("stale"))
			require.NoError(t, c.Ignore(2)) // give compact below something to do

			it := c.Iter()
			require.True(t, it.Next())

			mutate(c)
			assert.False(t, it.Next())
			assert.ErrorIs(t, it.Err(), ErrStaleIterator)
		})
	}

	t.Run("compact", func(t *testing.T) {
		c := NewCompactBytes()
		c.Push([]byte("a"))
		c.Push([]byte("stale"))
		require.NoError(t, c.Ignore(1))

		it := c.Iter()
		require.True(t, it.Next())
		c.Compact()
		assert.False(t, it.Next())
		assert.ErrorIs(t, it.Err(), ErrStaleIterator)
	})
}

func TestIterReset(t *testing.T) {
	c := NewCompactBytes()
	c.Push([]byte("a"))

	it := c.Iter()
	require.True(t, it.Next())
	c.Push([]byte("b"))
	require.False(t, it.Next())
	require.ErrorIs(t, it.Err(), ErrStaleIterator)

	it.Reset()
	require.NoError(t, it.Err())
	require.True(t, it.Next())
	assert.Equal(t, []byte("a"), it.Value())
	require.True(t, it.Next())
	assert.Equal(t, []byte("b"), it.Value())
	assert.False(t, it.Next())
}

func TestStringIter(t *testing.T) {
	c := NewCompactStrings()
	require.NoError(t, c.Push("uno"))
	require.NoError(t, c.Push("dos"))

	var got []string
	it := c.Iter()
	for it.Next() {
		got = append(got, it.Value())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []string{"uno", "dos"}, got)
}

func TestIterFixedSkipsTombstones(t *testing.T) {
	c := NewFixedCompactBytes()
	c.Push([]byte("keep-a"))
	c.Push([]byte("drop"))
	c.Push([]byte("keep-b-spilled-long"))
	require.NoError(t, c.Ignore(1))

	var got [][]byte
	it := c.Iter()
	for it.Next() {
		got = append(got, append([]byte(nil), it.Value()...))
	}
	require.NoError(t, it.Err())
	assert.Equal(t, [][]byte{[]byte("keep-a"), []byte("keep-b-spilled-long")}, got)
}

func TestRangeFuncAdapters(t *testing.T) {
	c := NewCompactBytes()
	c.Push([]byte("a"))
	c.Push([]byte("b"))

	t.Run("All", func(t *testing.T) {
		var idx []int
		var vals []string
		for i, p := range All(c) {
			idx = append(idx, i)
			vals = append(vals, string(p))
		}
		assert.Equal(t, []int{0, 1}, idx)
		assert.Equal(t, []string{"a", "b"}, vals)
	})

	t.Run("Values early break", func(t *testing.T) {
		n := 0
		for range Values(c) {
			n++
			break
		}
		assert.Equal(t, 1, n)
	})

	t.Run("AllStrings", func(t *testing.T) {
		s := NewFixedCompactStrings()
		require.NoError(t, s.Push("x"))
		require.NoError(t, s.Push("y"))

		var vals []string
		for _, v := range AllStrings(s) {
			vals = append(vals, v)
		}
		assert.Equal(t, []string{"x", "y"}, vals)

		vals = nil
		for v := range StringValues(s) {
			vals = append(vals, v)
		}
		assert.Equal(t, []string{"x", "y"}, vals)
	})
}
