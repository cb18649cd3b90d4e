// Package sampler draws screen landing positions distributed according to
// the optics intensity field.
package sampler

import (
	"math/rand/v2"

	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/optics"
)

const DefaultMaxAttempts = 10

// Draw is the outcome of one sampling call.
type Draw struct {
	X        float64
	Attempts int
	Accepted bool
}

// Sampler performs bounded rejection sampling against optics.Intensity.
// The field peak is assumed to be at most 1, which holds for cos²·sinc².
type Sampler struct {
	scale       dynamo.Scale
	maxAttempts int
}

type Option func(*Sampler)

func WithMaxAttempts(n int) Option {
	return func(s *Sampler) { s.maxAttempts = n }
}

func New(sc dynamo.Scale, opts ...Option) *Sampler {
	s := &Sampler{scale: sc, maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxAttempts < 1 {
		s.maxAttempts = 1
	}
	return s
}

func (s *Sampler) MaxAttempts() int    { return s.maxAttempts }
func (s *Sampler) Scale() dynamo.Scale { return s.scale }

// Sample returns a screen x coordinate.
func (s *Sampler) Sample(cfg dynamo.SimulationConfig, rng *rand.Rand) float64 {
	return s.Draw(cfg, rng).X
}

// Draw runs up to MaxAttempts candidate draws and returns the first accepted
// one. When every candidate is rejected the last candidate is returned with
// Accepted unset; callers mid-flight always get a usable position.
func (s *Sampler) Draw(cfg dynamo.SimulationConfig, rng *rand.Rand) Draw {
	w := s.scale.ScreenWidth
	field := optics.NewEvaluator(cfg, s.scale)
	var d Draw
	for d.Attempts < s.maxAttempts {
		d.X = (rng.Float64() - 0.5) * w
		d.Attempts++
		if rng.Float64() < field.At(d.X) {
			d.Accepted = true
			return d
		}
	}
	return d
}
