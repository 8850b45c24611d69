// Package qasm converts circuits to and from OpenQASM 2.0 text, the only
// durable serialization format of the simulator.
//
// Two behaviors of the format are deliberate and preserved:
//   - a "-" initial state gets no preparation line on emission, so it does
//     not survive a round trip;
//   - a measure statement is executed while parsing, drawing a live random
//     outcome into the referenced classical register, which makes FromQASM
//     of such text non-idempotent.
package qasm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/qubox-team/qubox-engine/simcore/core"
	"go.uber.org/zap"
)

var ErrorParse = errors.New("qasm parse error")

type Codec struct {
	sampler    core.Sampler
	predefined map[string][]core.Instruction
}

// NewCodec builds a codec. The sampler executes measure statements found
// while parsing; it must be non-nil if such statements can occur.
func NewCodec(sampler core.Sampler) *Codec {
	return &Codec{sampler: sampler}
}

// Predefine registers macros available to parsed circuits before any gate
// block in the text itself, so stored macros can be invoked by name.
func (cd *Codec) Predefine(table map[string][]core.Instruction) {
	cd.predefined = table
}

var template = map[core.GateKind]string{
	core.KindH:       "h",
	core.KindX:       "x",
	core.KindY:       "y",
	core.KindZ:       "z",
	core.KindS:       "s",
	core.KindT:       "t",
	core.KindRx:      "rx",
	core.KindRy:      "ry",
	core.KindRz:      "rz",
	core.KindP:       "p",
	core.KindSWAP:    "swap",
	core.KindCNOT:    "cx",
	core.KindToffoli: "ccx",
}

// ToQASM emits the circuit deterministically: header, register declarations,
// macro definitions, preparation lines for "1" and "+" initial states, then
// one line per queued instruction.
func (cd *Codec) ToQASM(c *core.Circuit) string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\ninclude \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.NumQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n", c.NumQubits)

	names := make([]string, 0, len(c.CustomGates))
	for name := range c.CustomGates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cd.writeMacro(&sb, name, c.CustomGates[name])
	}

	for i, qubit := range c.Qubits {
		switch qubit.Label {
		case "1":
			fmt.Fprintf(&sb, "x q[%d];\n", i)
		case "+":
			fmt.Fprintf(&sb, "h q[%d];\n", i)
		}
	}

	for _, inst := range c.Gates {
		cd.writeInstruction(&sb, inst)
	}
	return sb.String()
}

func (cd *Codec) writeMacro(sb *strings.Builder, name string, seq []core.Instruction) {
	arity := 0
	for _, sub := range seq {
		for _, r := range sub.Targets {
			if r+1 > arity {
				arity = r + 1
			}
		}
	}
	params := make([]string, arity)
	for i := range params {
		params[i] = fmt.Sprintf("q%d", i)
	}
	fmt.Fprintf(sb, "gate %s %s {\n", name, strings.Join(params, ","))
	for _, sub := range seq {
		cd.writeInstruction(sb, sub)
	}
	sb.WriteString("}\n")
}

func (cd *Codec) writeInstruction(sb *strings.Builder, inst core.Instruction) {
	switch inst.Kind {
	case core.KindBell:
		fmt.Fprintf(sb, "h q[%d];\n", inst.Targets[0])
		fmt.Fprintf(sb, "cx q[%d],q[%d];\n", inst.Targets[0], inst.Targets[1])
	case core.KindMeasure:
		fmt.Fprintf(sb, "measure q[%d] -> c[%d];\n", inst.Targets[0], inst.Targets[0])
	case core.KindReset:
		fmt.Fprintf(sb, "reset q[%d];\n", inst.Targets[0])
	case core.KindCustom:
		fmt.Fprintf(sb, "%s %s;\n", inst.Name, targetList(inst.Targets))
	case core.KindConditional:
		// inert annotation, no emission
	case core.KindRx, core.KindRy, core.KindRz, core.KindP:
		fmt.Fprintf(sb, "%s(%s) q[%d];\n", template[inst.Kind],
			strconv.FormatFloat(inst.Params[0], 'g', -1, 64), inst.Targets[0])
	default:
		fmt.Fprintf(sb, "%s %s;\n", template[inst.Kind], targetList(inst.Targets))
	}
}

func targetList(targets []int) string {
	toks := make([]string, len(targets))
	for i, t := range targets {
		toks[i] = fmt.Sprintf("q[%d]", t)
	}
	return strings.Join(toks, ",")
}

// FromQASM parses OpenQASM 2.0 text line by line. Any unrecognized or
// malformed line fails with ErrorParse naming the line; the caller keeps
// its previous circuit on failure.
func (cd *Codec) FromQASM(text string) (*core.Circuit, error) {
	var circ *core.Circuit
	macroName := ""
	var macroSeq []core.Instruction

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") ||
			strings.HasPrefix(line, "OPENQASM") || strings.HasPrefix(line, "include") {
			continue
		}

		if macroName != "" {
			if line == "}" {
				circ.DefineCustomGate(macroName, macroSeq)
				zap.L().Debug(fmt.Sprintf("registered macro %q (%d steps)", macroName, len(macroSeq)))
				macroName = ""
				macroSeq = nil
				continue
			}
			sub, err := parseGateLine(line)
			if err != nil {
				return nil, parseError(lineNo, line, err)
			}
			macroSeq = append(macroSeq, sub)
			continue
		}

		switch {
		case strings.HasPrefix(line, "qreg"):
			n, err := bracketInt(line)
			if err != nil {
				return nil, parseError(lineNo, line, err)
			}
			circ = core.NewCircuit(n)
			for name, seq := range cd.predefined {
				circ.DefineCustomGate(name, seq)
			}

		case strings.HasPrefix(line, "creg"):
			if circ == nil {
				return nil, parseError(lineNo, line, errors.New("creg before qreg"))
			}
			n, err := bracketInt(line)
			if err != nil {
				return nil, parseError(lineNo, line, err)
			}
			for b := 0; b < n; b++ {
				circ.ClassicalRegisters[b] = "0"
			}

		case strings.HasPrefix(line, "gate "):
			if circ == nil {
				return nil, parseError(lineNo, line, errors.New("gate definition before qreg"))
			}
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return nil, parseError(lineNo, line, errors.New("missing gate name"))
			}
			macroName = fields[1]
			macroSeq = nil

		default:
			if circ == nil {
				return nil, parseError(lineNo, line, errors.New("instruction before qreg"))
			}
			if err := cd.parseInstruction(circ, line); err != nil {
				return nil, parseError(lineNo, line, err)
			}
		}
	}
	if macroName != "" {
		return nil, errors.Wrapf(ErrorParse, "unterminated gate block %q", macroName)
	}
	if circ == nil {
		return nil, errors.Wrap(ErrorParse, "no qreg declaration")
	}
	return circ, nil
}

func parseError(lineNo int, line string, err error) error {
	return errors.Wrapf(ErrorParse, "line %d: %q: %s", lineNo, line, err)
}

func (cd *Codec) parseInstruction(circ *core.Circuit, line string) error {
	switch {
	case strings.HasPrefix(line, "barrier"):
		return nil

	case strings.HasPrefix(line, "if("):
		return parseConditional(circ, line)

	case strings.HasPrefix(line, "measure"):
		idx, err := bracketInts(line, 2)
		if err != nil {
			return err
		}
		if err := circ.AddGate(core.KindMeasure, idx[:1], nil); err != nil {
			return err
		}
		// a measure statement executes while parsing: the outcome lands in
		// the referenced classical register
		if cd.sampler == nil {
			return errors.New("measure statement but codec has no sampler")
		}
		outcome, err := cd.sampler.MeasureQubit(circ, idx[0])
		if err != nil {
			return err
		}
		circ.ClassicalRegisters[idx[1]] = outcome
		return nil

	case strings.HasPrefix(line, "reset "):
		idx, err := bracketInts(line, 1)
		if err != nil {
			return err
		}
		return circ.AddGate(core.KindReset, idx, nil)

	default:
		name := line
		if sp := strings.IndexAny(line, " ("); sp >= 0 {
			name = line[:sp]
		}
		if _, ok := circ.CustomGates[name]; ok {
			idx, err := allBracketInts(line)
			if err != nil {
				return err
			}
			return circ.AddCustomGate(name, idx)
		}
		inst, err := parseGateLine(line)
		if err != nil {
			return err
		}
		return circ.AddGate(inst.Kind, inst.Targets, inst.Params)
	}
}

// parseGateLine handles the standard gate statements, with or without a
// parenthesized numeric parameter.
func parseGateLine(line string) (core.Instruction, error) {
	head := line
	if sp := strings.IndexAny(line, " ("); sp >= 0 {
		head = line[:sp]
	}

	var kind core.GateKind
	var params []float64
	switch head {
	case "h":
		kind = core.KindH
	case "x":
		kind = core.KindX
	case "y":
		kind = core.KindY
	case "z":
		kind = core.KindZ
	case "s":
		kind = core.KindS
	case "t":
		kind = core.KindT
	case "swap":
		kind = core.KindSWAP
	case "cx":
		kind = core.KindCNOT
	case "ccx":
		kind = core.KindToffoli
	case "rx", "ry", "rz", "p":
		switch head {
		case "rx":
			kind = core.KindRx
		case "ry":
			kind = core.KindRy
		case "rz":
			kind = core.KindRz
		case "p":
			kind = core.KindP
		}
		open := strings.IndexByte(line, '(')
		cl := strings.IndexByte(line, ')')
		if open < 0 || cl < open {
			return core.Instruction{}, errors.Errorf("%s gate without parameter", head)
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(line[open+1:cl]), 64)
		if err != nil {
			return core.Instruction{}, errors.Wrapf(err, "bad %s parameter", head)
		}
		params = []float64{val}
	default:
		return core.Instruction{}, errors.Errorf("unrecognized statement %q", head)
	}

	targets, err := allBracketInts(line)
	if err != nil {
		return core.Instruction{}, err
	}
	if kind.Arity() >= 0 && len(targets) != kind.Arity() {
		return core.Instruction{}, errors.Errorf("%s expects %d qubit(s), got %d",
			head, kind.Arity(), len(targets))
	}
	return core.Instruction{Kind: kind, Targets: targets, Params: params}, nil
}

// parseConditional records an if(reg==value) tag as an inert instruction
// with no execution semantics.
func parseConditional(circ *core.Circuit, line string) error {
	open := strings.IndexByte(line, '(')
	cl := strings.IndexByte(line, ')')
	if open < 0 || cl < open {
		return errors.New("malformed if statement")
	}
	cond := line[open+1 : cl]
	if !strings.Contains(cond, "==") {
		return errors.New("malformed if condition")
	}
	targets, err := allBracketInts(line[cl+1:])
	if err != nil {
		return err
	}
	circ.Gates = append(circ.Gates, core.Instruction{
		Kind:      core.KindConditional,
		Targets:   targets,
		Condition: cond,
	})
	return nil
}

// bracketInt extracts the single integer inside the first [..] pair.
func bracketInt(s string) (int, error) {
	vals, err := allBracketInts(s)
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, errors.New("missing [index]")
	}
	return vals[0], nil
}

// bracketInts extracts exactly want integers from [..] pairs.
func bracketInts(s string, want int) ([]int, error) {
	vals, err := allBracketInts(s)
	if err != nil {
		return nil, err
	}
	if len(vals) != want {
		return nil, errors.Errorf("expected %d [index] token(s), got %d", want, len(vals))
	}
	return vals, nil
}

func allBracketInts(s string) ([]int, error) {
	var vals []int
	for {
		open := strings.IndexByte(s, '[')
		if open < 0 {
			return vals, nil
		}
		cl := strings.IndexByte(s[open:], ']')
		if cl < 0 {
			return nil, errors.New("unterminated [index]")
		}
		v, err := strconv.Atoi(strings.TrimSpace(s[open+1 : open+cl]))
		if err != nil {
			return nil, errors.Wrap(err, "bad [index]")
		}
		vals = append(vals, v)
		s = s[open+cl+1:]
	}
}
