package runner

import (
	"golang.org/x/exp/rand"
)

// RandomSampler draws two distinct segments uniformly from a fixed candidate list.
type RandomSampler struct {
	candidates []string
	rng        *rand.Rand
}

func NewRandomSampler(candidates []string, seed uint64) *RandomSampler {
	return &RandomSampler{
		candidates: candidates,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

func (s *RandomSampler) Sample() (string, string, bool) {
	n := len(s.candidates)
	if n < 2 {
		return "", "", false
	}
	o := s.rng.Intn(n)
	d := s.rng.Intn(n - 1)
	if d >= o {
		d++
	}
	return s.candidates[o], s.candidates[d], true
}
