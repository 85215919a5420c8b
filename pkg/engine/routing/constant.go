package routing

const (
	ALGORITHM_DIJKSTRA = "dijkstra"
	ALGORITHM_BFS      = "bfs"
)
