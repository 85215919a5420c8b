package datastructure

// CostSnapshot is an immutable per-tick mapping from tracked segment to smoothed travel time (seconds).
type CostSnapshot struct {
	tick    int
	network *Network
	weights []float64
	tracked []bool
	size    int
}

func NewCostSnapshot(tick int, network *Network, weights []float64, tracked []bool) *CostSnapshot {
	size := 0
	for _, t := range tracked {
		if t {
			size++
		}
	}
	return &CostSnapshot{
		tick:    tick,
		network: network,
		weights: weights,
		tracked: tracked,
		size:    size,
	}
}

// GetTick returns the step index that produced the snapshot (-1 for the free-flow seed).
func (cs *CostSnapshot) GetTick() int {
	return cs.tick
}

func (cs *CostSnapshot) Len() int {
	return cs.size
}

func (cs *CostSnapshot) GetWeight(i Index) (float64, bool) {
	if int(i) >= len(cs.weights) || !cs.tracked[i] {
		return 0, false
	}
	return cs.weights[i], true
}

func (cs *CostSnapshot) Get(id string) (float64, bool) {
	i, ok := cs.network.IndexOf(id)
	if !ok {
		return 0, false
	}
	return cs.GetWeight(i)
}

// AsMap copies the tracked weights keyed by segment id.
func (cs *CostSnapshot) AsMap() map[string]float64 {
	m := make(map[string]float64, cs.size)
	for i, ok := range cs.tracked {
		if ok {
			m[cs.network.GetID(Index(i))] = cs.weights[i]
		}
	}
	return m
}
