package compactstrings

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vonr/compact-strings/testutil"
)

func TestSnapshotRoundTripBytes(t *testing.T) {
	compressions := []Compression{CompressionNone, CompressionLZ4, CompressionZstd}

	for _, comp := range compressions {
		t.Run(comp.String(), func(t *testing.T) {
			rng := testutil.NewRNG(17)
			c := NewCompactBytes()
			for _, p := range rng.ByteCorpus(200, 0, 64) {
				c.Push(p)
			}

			var buf bytes.Buffer
			require.NoError(t, c.SaveTo(&buf, WithCompression(comp)))

			loaded, err := LoadCompactBytes(&buf)
			require.NoError(t, err)
			assert.True(t, c.Equal(loaded))
		})
	}
}

func TestSnapshotRoundTripStrings(t *testing.T) {
	rng := testutil.NewRNG(18)
	c, err := FromSlice(rng.Corpus(200, 0, 32))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.SaveTo(&buf))

	loaded, err := LoadCompactStrings(&buf)
	require.NoError(t, err)
	assert.True(t, c.Equal(loaded))
}

func TestSnapshotRoundTripFixed(t *testing.T) {
	c := NewFixedCompactBytes()
	c.Push([]byte("inline"))
	c.Push([]byte("a-spilled-long-payload"))
	c.Push([]byte("drop-me"))
	require.NoError(t, c.Ignore(2))

	var buf bytes.Buffer
	require.NoError(t, c.SaveTo(&buf, WithCompression(CompressionLZ4)))

	loaded, err := LoadFixedCompactBytes(&buf)
	require.NoError(t, err)
	assert.True(t, c.Equal(loaded))
	assert.Equal(t, 0, loaded.Tombstones(), "snapshots carry live entries only")

	s := NewFixedCompactStrings()
	require.NoError(t, s.Push("héllo"))
	buf.Reset()
	require.NoError(t, s.SaveTo(&buf))

	sLoaded, err := LoadFixedCompactStrings(&buf)
	require.NoError(t, err)
	assert.True(t, s.Equal(sLoaded))
}

func TestSnapshotEmptyContainer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCompactStrings().SaveTo(&buf))

	loaded, err := LoadCompactStrings(&buf)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestSnapshotFlavorMismatch(t *testing.T) {
	c := NewCompactBytes()
	c.Push([]byte("payload"))

	var buf bytes.Buffer
	require.NoError(t, c.SaveTo(&buf))

	_, err := LoadCompactStrings(&buf)
	var mismatch *ErrFlavorMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "strings", mismatch.Expected)
	assert.Equal(t, "bytes", mismatch.Actual)
}

func TestSnapshotCorruption(t *testing.T) {
	c := NewCompactBytes()
	c.Push([]byte("some payload worth checksumming"))

	var buf bytes.Buffer
	require.NoError(t, c.SaveTo(&buf, WithCompression(CompressionNone)))
	good := buf.Bytes()

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		bad[0] = 'X'
		_, err := LoadCompactBytes(bytes.NewReader(bad))
		require.ErrorIs(t, err, ErrSnapshotCorrupt)
	})

	t.Run("bad version", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		bad[4] = 99
		_, err := LoadCompactBytes(bytes.NewReader(bad))
		require.ErrorIs(t, err, ErrSnapshotCorrupt)
	})

	t.Run("flipped payload byte", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		bad[len(bad)-1] ^= 0x01
		_, err := LoadCompactBytes(bytes.NewReader(bad))
		require.ErrorIs(t, err, ErrSnapshotCorrupt)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := LoadCompactBytes(bytes.NewReader(good[:len(good)-4]))
		require.ErrorIs(t, err, ErrSnapshotCorrupt)

		_, err = LoadCompactBytes(bytes.NewReader(good[:8]))
		require.ErrorIs(t, err, ErrSnapshotCorrupt)
	})
}

func TestSnapshotStringLoadValidates(t *testing.T) {
	// A bytes snapshot relabeled as a strings snapshot must still fail on
	// invalid UTF-8 content.
	c := NewCompactBytes()
	c.Push([]byte{0xff, 0xfe})

	var buf bytes.Buffer
	require.NoError(t, c.SaveTo(&buf, WithCompression(CompressionNone)))

	raw := buf.Bytes()
	raw[5] = flavorStrings
	// Fix nothing else: flavor is outside the checksummed payload.
	_, err := LoadCompactStrings(bytes.NewReader(raw))
	var enc *ErrInvalidEncoding
	require.ErrorAs(t, err, &enc)
}

func TestSnapshotCrossFlavorBytes(t *testing.T) {
	// Explicit and fixed byte snapshots share the entry-stream payload,
	// so converting between them is a save/load pair away.
	c := NewCompactBytes()
	c.Push([]byte("tiny"))
	c.Push([]byte("a-much-longer-spilled-payload"))

	var buf bytes.Buffer
	require.NoError(t, c.SaveTo(&buf))

	raw := buf.Bytes()
	raw[5] = flavorFixedBytes
	loaded, err := LoadFixedCompactBytes(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	assert.Equal(t, []byte("tiny"), loaded.GetUnchecked(0))
	assert.Equal(t, []byte("a-much-longer-spilled-payload"), loaded.GetUnchecked(1))
}

func TestSnapshotMetrics(t *testing.T) {
	mc := &BasicMetricsCollector{}
	c := NewCompactBytes(WithMetrics(mc))
	c.Push([]byte("payload"))

	var buf bytes.Buffer
	require.NoError(t, c.SaveTo(&buf))
	_, err := LoadCompactBytes(bytes.NewReader(buf.Bytes()), WithMetrics(mc))
	require.NoError(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.SnapshotSaveCount)
	assert.Equal(t, int64(0), stats.SnapshotSaveErrors)
	assert.Equal(t, int64(1), stats.SnapshotLoadCount)
	assert.Equal(t, int64(0), stats.SnapshotLoadErrors)
	assert.Equal(t, stats.SnapshotSaveBytes, stats.SnapshotLoadBytes)
}

func TestCompressionByName(t *testing.T) {
	for _, comp := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		got, ok := CompressionByName(comp.String())
		require.True(t, ok)
		assert.Equal(t, comp, got)
	}

	_, ok := CompressionByName("snappy")
	assert.False(t, ok)
}
