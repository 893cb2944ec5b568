package pspace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSetWrapsIndex(t *testing.T) {
	p := New(4)
	p.Set(5, 99) // 5 mod 4 == 1
	require.Equal(t, 99, p.Get(1))
	require.Equal(t, 99, p.Get(5))
}

func TestGetSetNegativeIndex(t *testing.T) {
	p := New(4)
	p.Set(-1, 7) // -1 mod 4 == 3
	require.Equal(t, 7, p.Get(3))
}

func TestClearZeroesAllCells(t *testing.T) {
	p := New(3)
	p.Set(0, 1)
	p.Set(1, 2)
	p.Set(2, 3)
	p.Clear()
	require.Equal(t, 0, p.Get(0))
	require.Equal(t, 0, p.Get(1))
	require.Equal(t, 0, p.Get(2))
}

func TestComputeSizePrefersSixteen(t *testing.T) {
	require.Equal(t, 500, ComputeSize(8000))
	require.Equal(t, 1, ComputeSize(1))
	require.Equal(t, 1, ComputeSize(7))
}
