package routing

import (
	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
)

type costOf func(v da.Index) float64

/*
graphSearch label-setting search from s to t over the mode-filtered subgraph.

every improvement pushes a fresh frontier entry; entries that were already settled or carry a distance
worse than the current label are skipped when popped (lazy deletion), so each segment is settled at most once
and the loop ends after at most one pop per push.

stopOnDiscover ends the search as soon as t gets its first label instead of when it is settled. with unit costs and
a fifo frontier the first label is already the final one.

both endpoints must already be open to the mode.
*/
func (re *RoutingEngine) graphSearch(si *searchInfo, s, t da.Index, f frontier, cost costOf,
	stopOnDiscover bool) bool {

	si.dist[s] = 0
	f.push(s, 0)

	found := false
	for !f.isEmpty() && !found {
		u, d, _ := f.pop()
		if si.settled[u] || d > si.dist[u] {
			continue
		}
		si.settled[u] = true
		si.numSettled++

		if u == t {
			return true
		}

		re.network.ForAllowedOutgoing(u, re.mode, func(v da.Index) {
			if found || si.settled[v] {
				return
			}
			newDist := d + cost(v)
			if newDist >= si.dist[v] {
				return
			}
			si.dist[v] = newDist
			si.parent[v] = u
			if stopOnDiscover && v == t {
				found = true
				return
			}
			f.push(v, newDist)
		})
	}

	return found
}
