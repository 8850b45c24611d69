//go:build unit
// +build unit

package sampling

import (
	"math"
	"testing"

	"github.com/qubox-team/qubox-engine/simcore/core"
	"github.com/qubox-team/qubox-engine/simcore/sim"
	"github.com/stretchr/testify/assert"
)

func bellCircuit(t *testing.T) *core.Circuit {
	t.Helper()
	c := core.NewCircuit(2)
	assert.NoError(t, c.AddGate(core.KindH, []int{0}, nil))
	assert.NoError(t, c.AddGate(core.KindCNOT, []int{0, 1}, nil))
	return c
}

func TestProbabilityDistributionBell(t *testing.T) {
	s := NewSampler(sim.NewEngine(), 1)
	dist, err := s.ProbabilityDistribution(bellCircuit(t))
	assert.NoError(t, err)
	assert.Len(t, dist, 2)
	assert.InDelta(t, 0.5, dist["00"], 1e-9)
	assert.InDelta(t, 0.5, dist["11"], 1e-9)
	_, ok := dist["01"]
	assert.False(t, ok)
	_, ok = dist["10"]
	assert.False(t, ok)
}

func TestProbabilityDistributionBasisState(t *testing.T) {
	c := core.NewCircuit(2)
	assert.NoError(t, c.AddGate(core.KindX, []int{1}, nil))
	s := NewSampler(sim.NewEngine(), 1)
	dist, err := s.ProbabilityDistribution(c)
	assert.NoError(t, err)
	assert.Len(t, dist, 1)
	assert.InDelta(t, 1.0, dist["01"], 1e-9)
}

func TestMeasureQubitDeterministicOutcome(t *testing.T) {
	s := NewSampler(sim.NewEngine(), 7)

	zero := core.NewCircuit(1)
	outcome, err := s.MeasureQubit(zero, 0)
	assert.NoError(t, err)
	assert.Equal(t, "0", outcome)
	assert.Equal(t, "0", zero.Measurements[0])

	one := core.NewCircuit(1)
	assert.NoError(t, one.AddGate(core.KindX, []int{0}, nil))
	outcome, err = s.MeasureQubit(one, 0)
	assert.NoError(t, err)
	assert.Equal(t, "1", outcome)
	assert.Equal(t, "1", one.Measurements[0])
}

func TestMeasureQubitDoesNotCollapse(t *testing.T) {
	c := bellCircuit(t)
	s := NewSampler(sim.NewEngine(), 11)
	_, err := s.MeasureQubit(c, 0)
	assert.NoError(t, err)

	// the distribution after a measurement is the same as before
	dist, err := s.ProbabilityDistribution(c)
	assert.NoError(t, err)
	assert.InDelta(t, 0.5, dist["00"], 1e-9)
	assert.InDelta(t, 0.5, dist["11"], 1e-9)
}

func TestMeasureQubitIndexOutOfRange(t *testing.T) {
	s := NewSampler(sim.NewEngine(), 1)
	c := core.NewCircuit(2)
	_, err := s.MeasureQubit(c, 2)
	assert.ErrorIs(t, err, core.ErrorInvalidIndex)
	_, err = s.MeasureQubit(c, -1)
	assert.ErrorIs(t, err, core.ErrorInvalidIndex)
}

func TestSampleCountsBellStatistics(t *testing.T) {
	const shots = 10000
	c := bellCircuit(t)
	s := NewSampler(sim.NewEngine(), 42)
	counts, err := s.SampleCounts(c, 0, shots)
	assert.NoError(t, err)

	var total uint32
	for _, v := range counts {
		total += v
	}
	assert.Equal(t, uint32(shots), total)

	// five sigma around the binomial mean p=0.5
	sigma := math.Sqrt(shots * 0.5 * 0.5)
	assert.InDelta(t, shots/2, float64(counts["1"]), 5*sigma)
	assert.InDelta(t, shots/2, float64(counts["0"]), 5*sigma)
}

func TestSampleCountsReproducibleWithSeed(t *testing.T) {
	run := func() core.Counts {
		c := bellCircuit(t)
		s := NewSampler(sim.NewEngine(), 99)
		counts, err := s.SampleCounts(c, 0, 200)
		assert.NoError(t, err)
		return counts
	}
	assert.Equal(t, run(), run())
}
