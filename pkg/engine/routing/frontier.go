package routing

import (
	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
)

// frontier decides the order segments are expanded in. it is the only thing that differs
// between the weighted and the reachability search.
type frontier interface {
	push(v da.Index, dist float64)
	pop() (da.Index, float64, bool)
	isEmpty() bool
}

// heapFrontier cheapest tentative distance first, ties by smaller index.
type heapFrontier struct {
	pq *da.MinHeap[da.Index]
}

func newHeapFrontier(size int) *heapFrontier {
	pq := da.NewFourAryHeap[da.Index]()
	pq.Preallocate(size)
	return &heapFrontier{pq: pq}
}

func (f *heapFrontier) push(v da.Index, dist float64) {
	f.pq.Insert(da.NewPriorityQueueNode(dist, v))
}

func (f *heapFrontier) pop() (da.Index, float64, bool) {
	node, err := f.pq.ExtractMin()
	if err != nil {
		return da.INVALID_INDEX, 0, false
	}
	return node.GetItem(), node.GetRank(), true
}

func (f *heapFrontier) isEmpty() bool {
	return f.pq.IsEmpty()
}

type fifoEntry struct {
	v    da.Index
	dist float64
}

// fifoFrontier discovery order.
type fifoFrontier struct {
	q *da.Queue[fifoEntry]
}

func newFifoFrontier(size int) *fifoFrontier {
	return &fifoFrontier{q: da.NewQueue[fifoEntry](size)}
}

func (f *fifoFrontier) push(v da.Index, dist float64) {
	f.q.Push(fifoEntry{v: v, dist: dist})
}

func (f *fifoFrontier) pop() (da.Index, float64, bool) {
	e, ok := f.q.Pop()
	if !ok {
		return da.INVALID_INDEX, 0, false
	}
	return e.v, e.dist, true
}

func (f *fifoFrontier) isEmpty() bool {
	return f.q.IsEmpty()
}
