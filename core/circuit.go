package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/mohae/deepcopy"
	"go.uber.org/zap"
)

var ErrorInvalidIndex = errors.New("invalid qubit index")
var ErrorInvalidState = errors.New("invalid initial state")
var ErrorUnsupportedGate = errors.New("unsupported gate kind")
var ErrorArityMismatch = errors.New("wrong number of target qubits")
var ErrorParameterMismatch = errors.New("wrong number of gate parameters")
var ErrorUndefinedGate = errors.New("custom gate is not defined")

// Qubit is a single-qubit initial state, one of the fixed basis labels
// "0", "1", "+" and "-".
type Qubit struct {
	Label string
	Ket   [2]complex128
}

var invSqrt2 = complex(1.0/math.Sqrt2, 0)

func NewQubit(label string) (Qubit, error) {
	switch label {
	case "0":
		return Qubit{Label: "0", Ket: [2]complex128{1, 0}}, nil
	case "1":
		return Qubit{Label: "1", Ket: [2]complex128{0, 1}}, nil
	case "+":
		return Qubit{Label: "+", Ket: [2]complex128{invSqrt2, invSqrt2}}, nil
	case "-":
		return Qubit{Label: "-", Ket: [2]complex128{invSqrt2, -invSqrt2}}, nil
	default:
		return Qubit{}, fmt.Errorf("%w: %q (use \"0\", \"1\", \"+\" or \"-\")",
			ErrorInvalidState, label)
	}
}

// Circuit holds per-qubit initial states, the ordered instruction sequence,
// the custom-gate macro table, the last sampled measurement outcomes and the
// classical register values. Every mutation is validated; on failure the
// circuit keeps its last valid contents.
type Circuit struct {
	NumQubits          int
	Qubits             []Qubit
	Gates              []Instruction
	CustomGates        map[string][]Instruction
	Measurements       map[int]string
	ClassicalRegisters map[int]string
}

func NewCircuit(numQubits int) *Circuit {
	qubits := make([]Qubit, numQubits)
	for i := range qubits {
		qubits[i], _ = NewQubit("0")
	}
	return &Circuit{
		NumQubits:          numQubits,
		Qubits:             qubits,
		CustomGates:        make(map[string][]Instruction),
		Measurements:       make(map[int]string),
		ClassicalRegisters: make(map[int]string),
	}
}

func (c *Circuit) SetInitialState(idx int, label string) error {
	if idx < 0 || idx >= c.NumQubits {
		return fmt.Errorf("%w: %d", ErrorInvalidIndex, idx)
	}
	q, err := NewQubit(label)
	if err != nil {
		return err
	}
	c.Qubits[idx] = q
	return nil
}

// AddGate validates and appends a primitive instruction.
func (c *Circuit) AddGate(kind GateKind, targets []int, params []float64) error {
	if kind == KindCustom || kind == KindConditional {
		return fmt.Errorf("%w: %s", ErrorUnsupportedGate, kind)
	}
	if kind.Arity() < 0 {
		return fmt.Errorf("%w: %s", ErrorUnsupportedGate, kind)
	}
	for _, idx := range targets {
		if idx < 0 || idx >= c.NumQubits {
			return fmt.Errorf("%w: %d", ErrorInvalidIndex, idx)
		}
	}
	if len(targets) != kind.Arity() {
		return fmt.Errorf("%w: %s gate requires exactly %d target qubit(s), got %d",
			ErrorArityMismatch, kind, kind.Arity(), len(targets))
	}
	if kind.Parametric() {
		if len(params) != 1 {
			return fmt.Errorf("%w: %s gate requires exactly 1 parameter",
				ErrorParameterMismatch, kind)
		}
	} else if len(params) != 0 {
		return fmt.Errorf("%w: %s gate takes no parameters", ErrorParameterMismatch, kind)
	}
	c.Gates = append(c.Gates, Instruction{Kind: kind, Targets: targets, Params: params})
	return nil
}

// DefineCustomGate stores a macro. The sequence is taken as is; well-formedness
// of the sub-instructions is checked when the macro is expanded.
func (c *Circuit) DefineCustomGate(name string, sequence []Instruction) {
	c.CustomGates[name] = sequence
}

// AddCustomGate appends an invocation of a previously defined macro. Relative
// qubit references inside the macro are bound to targets at evaluation time.
func (c *Circuit) AddCustomGate(name string, targets []int) error {
	if _, ok := c.CustomGates[name]; !ok {
		return fmt.Errorf("%w: %q", ErrorUndefinedGate, name)
	}
	for _, idx := range targets {
		if idx < 0 || idx >= c.NumQubits {
			return fmt.Errorf("%w: %d", ErrorInvalidIndex, idx)
		}
	}
	c.Gates = append(c.Gates, Instruction{Kind: KindCustom, Name: name, Targets: targets})
	return nil
}

// MeasurementResults is a copy of the recorded measurement outcomes.
func (c *Circuit) MeasurementResults() map[int]string {
	out := make(map[int]string, len(c.Measurements))
	for k, v := range c.Measurements {
		out[k] = v
	}
	return out
}

func (c *Circuit) Clone() *Circuit {
	cl, ok := deepcopy.Copy(c).(*Circuit)
	if !ok {
		zap.L().Error("failed to deep-copy core.Circuit")
		return nil
	}
	return cl
}
