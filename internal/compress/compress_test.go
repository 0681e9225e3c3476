package compress

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockRoundTrip(t *testing.T) {
	compressible := bytes.Repeat([]byte("compactstrings "), 500)

	rng := rand.New(rand.NewSource(5))
	incompressible := make([]byte, 4096)
	rng.Read(incompressible)

	cases := map[string][]byte{
		"compressible":   compressible,
		"incompressible": incompressible,
		"empty":          {},
		"tiny":           []byte("x"),
	}

	for _, kind := range []Kind{None, LZ4, Zstd} {
		for name, data := range cases {
			t.Run(kind.String()+"/"+name, func(t *testing.T) {
				block, err := Block(kind, data)
				require.NoError(t, err)

				out, err := Unblock(kind, block)
				require.NoError(t, err)
				assert.True(t, bytes.Equal(data, out))
			})
		}
	}
}

func TestBlockCompressesWhenItPays(t *testing.T) {
	data := bytes.Repeat([]byte("abcdabcdabcd"), 1000)

	for _, kind := range []Kind{LZ4, Zstd} {
		block, err := Block(kind, data)
		require.NoError(t, err)
		assert.Less(t, len(block), len(data), "%s must shrink repetitive data", kind)
	}
}

func TestBlockRawFallback(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	data := make([]byte, 1024)
	rng.Read(data)

	block, err := Block(LZ4, data)
	require.NoError(t, err)
	// compressedSize == 0 marks the raw fallback.
	assert.Equal(t, uint32(0), uint32(block[4])|uint32(block[5])<<8|uint32(block[6])<<16|uint32(block[7])<<24)
	assert.Equal(t, len(data)+8, len(block))
}

func TestBlockHeaderRejectsOversizedBlocks(t *testing.T) {
	header, err := blockHeader(128, 64)
	require.NoError(t, err)
	assert.Equal(t, []byte{128, 0, 0, 0, 64, 0, 0, 0}, header[:])

	_, err = blockHeader(math.MaxUint32+1, 0)
	require.Error(t, err)

	_, err = blockHeader(64, math.MaxUint32+1)
	require.Error(t, err)
}

func TestUnblockRejectsCorruptHeaders(t *testing.T) {
	block, err := Block(Zstd, bytes.Repeat([]byte("data"), 100))
	require.NoError(t, err)

	t.Run("too short", func(t *testing.T) {
		_, err := Unblock(Zstd, block[:4])
		require.Error(t, err)
	})

	t.Run("truncated body", func(t *testing.T) {
		_, err := Unblock(Zstd, block[:len(block)-1])
		require.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := Block(Kind(9), []byte("x"))
		require.Error(t, err)
	})
}

func TestKindNames(t *testing.T) {
	for _, kind := range []Kind{None, LZ4, Zstd} {
		got, ok := ByName(kind.String())
		require.True(t, ok)
		assert.Equal(t, kind, got)
	}

	_, ok := ByName("gzip")
	assert.False(t, ok)
	assert.Equal(t, "unknown(7)", Kind(7).String())
}
