package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToUint32(t *testing.T) {
	v, err := IntToUint32(42)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), v)

	v, err = IntToUint32(math.MaxUint32)
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), v)

	_, err = IntToUint32(-1)
	require.Error(t, err)

	_, err = IntToUint32(math.MaxUint32 + 1)
	require.Error(t, err)
}

func TestIntToUint64(t *testing.T) {
	v, err := IntToUint64(math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxInt), v)

	_, err = IntToUint64(-7)
	require.Error(t, err)
}

func TestUint64ToInt(t *testing.T) {
	v, err := Uint64ToInt(123)
	require.NoError(t, err)
	assert.Equal(t, 123, v)

	_, err = Uint64ToInt(math.MaxUint64)
	require.Error(t, err)
}
