package rng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// The Park-Miller minimal-standard generator is specified by its
// reference cycle: seed 1, run 10000 times, land on 1043618065.
func TestNextReferenceCycle(t *testing.T) {
	seed := int64(1)
	for i := 0; i < 10000; i++ {
		seed = Next(seed)
	}
	require.Equal(t, int64(1043618065), seed)
}

func TestNextStaysInRange(t *testing.T) {
	seed := int64(42)
	for i := 0; i < 1000; i++ {
		seed = Next(seed)
		require.GreaterOrEqual(t, seed, int64(1))
		require.LessOrEqual(t, seed, Modulus-1)
	}
}

func TestNormalize(t *testing.T) {
	require.Equal(t, int64(3), Normalize(3, 10))
	require.Equal(t, int64(7), Normalize(-3, 10))
	require.Equal(t, int64(0), Normalize(10, 10))
	require.Equal(t, int64(0), Normalize(0, 10))
}

func TestAddSubMod(t *testing.T) {
	require.Equal(t, int64(2), AddMod(8, 4, 10))
	require.Equal(t, int64(5), AddMod(2, 3, 10))
	require.Equal(t, int64(9), SubMod(2, 3, 10))
	require.Equal(t, int64(1), SubMod(4, 3, 10))
}

func TestMulMod(t *testing.T) {
	require.Equal(t, int64(6), MulMod(2, 3, 10))
	require.Equal(t, int64(0), MulMod(5, 2, 10))
	require.Equal(t, int64(0), MulMod(5, 2, 0))
}
