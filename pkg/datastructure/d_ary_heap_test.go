package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinHeapExtractOrder(t *testing.T) {
	h := NewFourAryHeap[Index]()
	ranks := map[Index]float64{0: 5, 1: 3, 2: 9, 3: 3, 4: 0.5, 5: 7, 6: 3}
	for i := Index(0); i < 7; i++ {
		h.Insert(NewPriorityQueueNode(ranks[i], i))
	}
	assert.Equal(t, 7, h.Size())
	assert.Equal(t, 0.5, h.GetMinrank())

	got := make([]Index, 0, 7)
	for !h.IsEmpty() {
		node, err := h.ExtractMin()
		require.NoError(t, err)
		got = append(got, node.GetItem())
	}
	// ties on rank 3 come out by item order
	assert.Equal(t, []Index{4, 1, 3, 6, 0, 5, 2}, got)

	_, err := h.ExtractMin()
	assert.Error(t, err)
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue[int](2)
	for i := 0; i < 5; i++ {
		q.Push(i)
	}
	v, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, 0, v)
	q.Push(5)
	q.Push(6)

	got := []int{}
	for !q.IsEmpty() {
		v, _ := q.Pop()
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, got)
	_, ok = q.Pop()
	assert.False(t, ok)
}
