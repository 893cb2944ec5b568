package position

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlaceSingleWarriorAtZero(t *testing.T) {
	positions, _ := Place(1, 8000, 100, 12345)
	require.Equal(t, []int{0}, positions)
}

func TestPlaceTwoWarriorsRespectSeparation(t *testing.T) {
	positions, seed := Place(2, 8000, 100, 12345)
	require.Equal(t, 0, positions[0])
	require.GreaterOrEqual(t, positions[1], 100)
	require.LessOrEqual(t, positions[1], 7900)
	require.NotEqual(t, int64(12345), seed)
}

func TestPlaceIsDeterministic(t *testing.T) {
	p1, s1 := Place(4, 8000, 100, 999)
	p2, s2 := Place(4, 8000, 100, 999)
	require.Equal(t, p1, p2)
	require.Equal(t, s1, s2)
}

func TestPlaceManyWarriorsAllSeparated(t *testing.T) {
	const n = 8
	const coreSize = 8000
	const sep = 100
	positions, _ := Place(n, coreSize, sep, 42)
	require.Len(t, positions, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			require.GreaterOrEqual(t, circularDistance(positions[i], positions[j], coreSize), sep)
		}
	}
}

func TestCircularDistance(t *testing.T) {
	require.Equal(t, 10, circularDistance(5, 15, 100))
	require.Equal(t, 10, circularDistance(95, 5, 100))
	require.Equal(t, 0, circularDistance(5, 5, 100))
}
