package core

import (
	"go.uber.org/dig"
)

var systemComponents *SystemComponents

// Evaluator evolves a circuit to its full state vector. Evaluation is pure:
// Measure and Reset instructions have no effect on the result.
type Evaluator interface {
	Evaluate(*Circuit) (StateVector, error)
}

// Sampler draws measurement outcomes from an evaluated circuit. Sampling
// never mutates the state vector; repeated calls are independent draws.
type Sampler interface {
	MeasureQubit(*Circuit, int) (string, error)
	ProbabilityDistribution(*Circuit) (Distribution, error)
	SampleCounts(c *Circuit, idx, shots int) (Counts, error)
}

type SystemComponents struct {
	*dig.Container
}

func NewSystemComponents(con *dig.Container) *SystemComponents {
	return &SystemComponents{con}
}

func SetSystemComponents(s *SystemComponents) {
	systemComponents = s
}

func GetSystemComponents() *SystemComponents {
	return systemComponents
}

func (s *SystemComponents) TearDown() {
	systemComponents = nil
}
