// Package sim evolves a circuit's full 2^n state vector by applying the
// instruction sequence in order. Evaluation is a pure function of the
// circuit contents; Measure and Reset instructions do not collapse or
// mutate the vector.
package sim

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/qubox-team/qubox-engine/simcore/core"
	"github.com/qubox-team/qubox-engine/simcore/gates"
	"go.uber.org/zap"
)

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate builds the initial joint state as the tensor product of the
// per-qubit kets (qubit 0 at the most significant bit) and left-multiplies
// it by every instruction's full-space operator.
func (e *Engine) Evaluate(c *core.Circuit) (core.StateVector, error) {
	n := c.NumQubits
	if n <= 0 {
		return nil, errors.New("circuit has no qubits")
	}

	state := c.Qubits[0].Ket[:]
	for i := 1; i < n; i++ {
		state = gates.KronVec(state, c.Qubits[i].Ket[:])
	}

	for _, inst := range c.Gates {
		var err error
		state, err = e.applyInstruction(c, inst, state)
		if err != nil {
			return nil, err
		}
	}
	return core.StateVector(state), nil
}

func (e *Engine) applyInstruction(c *core.Circuit, inst core.Instruction, state []complex128) ([]complex128, error) {
	n := c.NumQubits
	switch inst.Kind {
	case core.KindH, core.KindX, core.KindY, core.KindZ, core.KindS, core.KindT:
		g, _ := gates.Fixed(inst.Kind)
		return gates.Expand(g, inst.Targets[0], n).MulVec(state), nil
	case core.KindRx, core.KindRy, core.KindRz, core.KindP:
		if len(inst.Params) != 1 {
			return nil, errors.Errorf("missing parameter for %s gate", inst.Kind)
		}
		g, _ := gates.Parametric(inst.Kind, inst.Params[0])
		return gates.Expand(g, inst.Targets[0], n).MulVec(state), nil
	case core.KindSWAP:
		return gates.SWAP(inst.Targets[0], inst.Targets[1], n).MulVec(state), nil
	case core.KindCNOT:
		return gates.CNOT(inst.Targets[0], inst.Targets[1], n).MulVec(state), nil
	case core.KindToffoli:
		return gates.Toffoli(inst.Targets[0], inst.Targets[1], inst.Targets[2], n).MulVec(state), nil
	case core.KindBell:
		// two sequential applications, not one precomputed matrix
		h, _ := gates.Fixed(core.KindH)
		state = gates.Expand(h, inst.Targets[0], n).MulVec(state)
		return gates.CNOT(inst.Targets[0], inst.Targets[1], n).MulVec(state), nil
	case core.KindMeasure, core.KindReset, core.KindConditional:
		// no simulated effect during evolution
		return state, nil
	case core.KindCustom:
		return e.applyMacro(c, inst, state)
	default:
		// should have been rejected at AddGate time
		msg := fmt.Sprintf("instruction kind %s reached the engine: model/engine mismatch", inst.Kind)
		zap.L().Error(msg)
		return nil, errors.New(msg)
	}
}

// applyMacro expands a custom-gate invocation: every relative qubit
// reference r in the stored sequence is remapped to Targets[r], then each
// primitive is applied in the stored order.
func (e *Engine) applyMacro(c *core.Circuit, inst core.Instruction, state []complex128) ([]complex128, error) {
	seq, ok := c.CustomGates[inst.Name]
	if !ok {
		msg := fmt.Sprintf("custom gate %q reached the engine undefined: model/engine mismatch", inst.Name)
		zap.L().Error(msg)
		return nil, errors.New(msg)
	}
	for _, sub := range seq {
		if sub.Kind == core.KindCustom {
			return nil, errors.Errorf("macro %q: nested custom gates are not supported", inst.Name)
		}
		remapped := make([]int, len(sub.Targets))
		for i, r := range sub.Targets {
			if r < 0 || r >= len(inst.Targets) {
				return nil, errors.Errorf("macro %q: relative qubit %d is outside the %d invocation targets",
					inst.Name, r, len(inst.Targets))
			}
			remapped[i] = inst.Targets[r]
		}
		var err error
		state, err = e.applyInstruction(c, core.Instruction{
			Kind:    sub.Kind,
			Targets: remapped,
			Params:  sub.Params,
		}, state)
		if err != nil {
			return nil, errors.Wrapf(err, "macro %q", inst.Name)
		}
	}
	return state, nil
}
