// Package sampling computes exact marginal probabilities from an evaluated
// state vector and draws random measurement outcomes. Sampling is the only
// source of nondeterminism in the system and never collapses the state:
// repeated calls are independent draws from the unchanged distribution.
package sampling

import (
	"fmt"
	"math/cmplx"
	"math/rand"
	"time"

	"github.com/qubox-team/qubox-engine/simcore/core"
	"go.uber.org/zap"
)

const probabilityFloor = 1e-10

type Sampler struct {
	eval core.Evaluator
	rnd  *rand.Rand
}

// NewSampler builds a sampler around an evaluator. A zero seed uses the
// clock; any other value gives a reproducible outcome stream.
func NewSampler(eval core.Evaluator, seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{
		eval: eval,
		rnd:  rand.New(rand.NewSource(seed)),
	}
}

// MeasureQubit draws one outcome for qubit idx and records it in the
// circuit's measurement map. The instruction sequence and any future
// evaluation are untouched.
func (s *Sampler) MeasureQubit(c *core.Circuit, idx int) (string, error) {
	if idx < 0 || idx >= c.NumQubits {
		return "", fmt.Errorf("%w: %d", core.ErrorInvalidIndex, idx)
	}
	state, err := s.eval.Evaluate(c)
	if err != nil {
		return "", err
	}

	n := c.NumQubits
	var probs [2]float64
	for i, a := range state {
		b := (i >> (n - 1 - idx)) & 1
		probs[b] += real(a * cmplx.Conj(a))
	}
	// absorb floating-point drift
	total := probs[0] + probs[1]
	probs[0] /= total
	probs[1] /= total

	outcome := "0"
	if s.rnd.Float64() >= probs[0] {
		outcome = "1"
	}
	c.Measurements[idx] = outcome
	zap.L().Debug(fmt.Sprintf("measured qubit %d: outcome %s (p0=%.6f)", idx, outcome, probs[0]))
	return outcome, nil
}

// ProbabilityDistribution maps each basis string to its probability,
// in ascending basis order, suppressing entries below 1e-10.
func (s *Sampler) ProbabilityDistribution(c *core.Circuit) (core.Distribution, error) {
	state, err := s.eval.Evaluate(c)
	if err != nil {
		return nil, err
	}
	dist := make(core.Distribution)
	for i, a := range state {
		p := real(a * cmplx.Conj(a))
		if p > probabilityFloor {
			dist[core.BasisLabel(i, c.NumQubits)] = p
		}
	}
	return dist, nil
}

// SampleCounts draws shots independent outcomes for qubit idx and tallies
// them, the result shape used by the CLI.
func (s *Sampler) SampleCounts(c *core.Circuit, idx, shots int) (core.Counts, error) {
	counts := make(core.Counts)
	for i := 0; i < shots; i++ {
		outcome, err := s.MeasureQubit(c, idx)
		if err != nil {
			return nil, err
		}
		counts[outcome]++
	}
	return counts, nil
}
