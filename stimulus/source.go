package stimulus

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// RandomSource yields uniformly distributed values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// UniformSource samples from a seeded uniform distribution over [0, 1).
type UniformSource struct {
	dist distuv.Uniform
	mux  *sync.Mutex
}

// NewUniformSource returns a source seeded with seed. A zero seed is replaced
// with the current time for sufficient uniqueness between runs.
func NewUniformSource(seed uint64) *UniformSource {
	if seed == 0 {
		seed = uint64(time.Now().UTC().UnixNano())
	}

	return &UniformSource{
		dist: distuv.Uniform{
			Min: 0,
			Max: 1,
			Src: rand.NewSource(seed),
		},
		mux: &sync.Mutex{},
	}
}

func (s *UniformSource) Float64() float64 {
	// rand.Source is not safe for concurrent use.
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.dist.Rand()
}
