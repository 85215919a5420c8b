package datastructure

import (
	"github.com/lintang-b-s/trafficrouter/pkg/util"
)

// StronglyConnectedComponents runs kosaraju's algorithm over the segments open to mode.
// comp[i] is the component of segment i, -1 for segments the mode may not use. both passes are iterative
// so city sized networks do not blow the goroutine stack.
func (n *Network) StronglyConnectedComponents(mode string) (comp []int, count int) {
	m := len(n.segments)
	allowed := make([]bool, m)
	reverse := make([][]Index, m)
	for u := 0; u < m; u++ {
		if !n.segments[u].AllowsMode(mode) {
			continue
		}
		allowed[u] = true
		n.ForAllowedOutgoing(Index(u), mode, func(v Index) {
			reverse[v] = append(reverse[v], Index(u))
		})
	}

	// first pass: finishing order on the forward graph
	order := make([]Index, 0, m)
	visited := make([]bool, m)
	type frame struct {
		v    Index
		next int
	}
	stack := make([]frame, 0, 64)
	for s := 0; s < m; s++ {
		if !allowed[s] || visited[s] {
			continue
		}
		visited[s] = true
		stack = append(stack, frame{v: Index(s)})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			out := n.outgoing[top.v]
			pushed := false
			for top.next < len(out) {
				w := out[top.next]
				top.next++
				if allowed[w] && !visited[w] {
					visited[w] = true
					stack = append(stack, frame{v: w})
					pushed = true
					break
				}
			}
			if !pushed {
				order = append(order, top.v)
				stack = stack[:len(stack)-1]
			}
		}
	}
	order = util.ReverseG(order)

	// second pass: flood the reversed graph in reverse finishing order
	comp = make([]int, m)
	for i := range comp {
		comp[i] = -1
	}
	queue := make([]Index, 0, 64)
	for _, s := range order {
		if comp[s] != -1 {
			continue
		}
		comp[s] = count
		queue = append(queue[:0], s)
		for len(queue) > 0 {
			v := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			for _, u := range reverse[v] {
				if comp[u] == -1 {
					comp[u] = count
					queue = append(queue, u)
				}
			}
		}
		count++
	}
	return comp, count
}

// LargestComponentIDs returns the segments of the biggest strongly connected component under mode, in
// index order. any two of them are mutually reachable.
func (n *Network) LargestComponentIDs(mode string) []string {
	comp, count := n.StronglyConnectedComponents(mode)
	if count == 0 {
		return []string{}
	}
	sizes := make([]int, count)
	for _, c := range comp {
		if c >= 0 {
			sizes[c]++
		}
	}
	largest := 0
	for c, size := range sizes {
		if size > sizes[largest] {
			largest = c
		}
	}

	ids := make([]string, 0, sizes[largest])
	for i, c := range comp {
		if c == largest {
			ids = append(ids, n.segments[i].id)
		}
	}
	return ids
}
