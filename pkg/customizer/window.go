package customizer

// costWindow fixed size ring of travel-time samples. head points at the oldest sample.
type costWindow struct {
	samples []float64
	head    int
}

func newCostWindow(size int, seed float64) *costWindow {
	samples := make([]float64, size)
	for i := range samples {
		samples[i] = seed
	}
	return &costWindow{samples: samples}
}

// push evicts the oldest sample and appends sample as the newest.
func (cw *costWindow) push(sample float64) {
	cw.samples[cw.head] = sample
	cw.head = (cw.head + 1) % len(cw.samples)
}

func (cw *costWindow) mean() float64 {
	sum := 0.0
	for _, s := range cw.samples {
		sum += s
	}
	return sum / float64(len(cw.samples))
}

func (cw *costWindow) len() int {
	return len(cw.samples)
}

// ordered oldest first.
func (cw *costWindow) ordered() []float64 {
	res := make([]float64, 0, len(cw.samples))
	for i := 0; i < len(cw.samples); i++ {
		res = append(res, cw.samples[(cw.head+i)%len(cw.samples)])
	}
	return res
}
