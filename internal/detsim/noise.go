package detsim

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws the random variates used by the readout stages.
type Sampler interface {
	// Poisson returns a Poisson distributed count with mean lambda (lambda > 0).
	Poisson(lambda Real) Real
	// Normal returns a zero-mean Gaussian sample with standard deviation sigma (sigma > 0).
	Normal(sigma Real) Real
}

// distSampler backs Sampler with gonum distributions bound to one source.
// A nil source falls back to the process-wide math/rand/v2 source.
type distSampler struct {
	src rand.Source
}

// NewSampler returns a Sampler drawing from src.
func NewSampler(src rand.Source) Sampler {
	return &distSampler{src: src}
}

// NewSource returns a seeded PCG source. stream selects an independent sequence
// for the same seed (used for per-band and per-frame streams).
func NewSource(seed, stream uint64) rand.Source {
	return rand.NewPCG(seed, stream)
}

func (s *distSampler) Poisson(lambda Real) Real {
	return distuv.Poisson{Lambda: lambda, Src: s.src}.Rand()
}

func (s *distSampler) Normal(sigma Real) Real {
	return distuv.Normal{Mu: 0, Sigma: sigma, Src: s.src}.Rand()
}
