package population

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source draws one sample per call. distuv.Normal satisfies it.
type Source interface {
	Rand() float64
}

// NewNormalSource returns a normal(mean, std) sampler.
// A zero seed leaves the sampler on the runtime-seeded global generator.
func NewNormalSource(mean, std float64, seed uint64) Source {
	n := distuv.Normal{Mu: mean, Sigma: std}
	if seed != 0 {
		n.Src = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	}
	return n
}
