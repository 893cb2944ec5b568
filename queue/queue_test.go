package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushPopFIFO(t *testing.T) {
	q := New(4)
	require.True(t, q.Empty())

	q.Push(10)
	q.Push(20)
	q.Push(30)
	require.Equal(t, 3, q.Size())

	v, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, 10, v)

	v, ok = q.Pop()
	require.True(t, ok)
	require.Equal(t, 20, v)

	require.Equal(t, 1, q.Size())
}

func TestPopEmpty(t *testing.T) {
	q := New(2)
	_, ok := q.Pop()
	require.False(t, ok)
}

func TestPeekDoesNotRemove(t *testing.T) {
	q := New(2)
	q.Push(5)
	v, ok := q.Peek()
	require.True(t, ok)
	require.Equal(t, 5, v)
	require.Equal(t, 1, q.Size())
}

func TestClear(t *testing.T) {
	q := New(4)
	q.Push(1)
	q.Push(2)
	q.Clear()
	require.True(t, q.Empty())
	_, ok := q.Pop()
	require.False(t, ok)
}

func TestSnapshotOrderAfterWraparound(t *testing.T) {
	q := New(3)
	q.Push(1)
	q.Push(2)
	q.Push(3)
	_, _ = q.Pop()
	q.Push(4)
	require.Equal(t, []int{2, 3, 4}, q.Snapshot())
}

func TestZeroCapacityPushIsNoop(t *testing.T) {
	q := New(0)
	q.Push(1)
	require.True(t, q.Empty())
}
