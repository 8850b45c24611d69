package core

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// MacroStore persists a circuit's custom-gate macro table as a TOML document
// of name -> instruction lines. Only the (name, sequence) pairs are stored;
// absolute targets are bound at invocation time as usual.
type MacroStore struct {
	path string
}

type macroDocument struct {
	Macros map[string][]string `toml:"macros"`
}

func NewMacroStore(path string) *MacroStore {
	return &MacroStore{path: path}
}

func (m *MacroStore) Save(table map[string][]Instruction) error {
	doc := macroDocument{Macros: make(map[string][]string, len(table))}
	var errs error
	for name, seq := range table {
		lines := make([]string, 0, len(seq))
		for _, inst := range seq {
			line, err := EncodeMacroLine(inst)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("macro %q: %w", name, err))
				continue
			}
			lines = append(lines, line)
		}
		doc.Macros[name] = lines
	}
	if errs != nil {
		zap.L().Error(fmt.Sprintf("failed to encode macro table/reason:%s", errs))
		return errs
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return err
	}
	if err := os.WriteFile(m.path, buf.Bytes(), 0644); err != nil {
		zap.L().Error(fmt.Sprintf("failed to write macro file/path:%s/reason:%s", m.path, err))
		return err
	}
	return nil
}

func (m *MacroStore) Load() (map[string][]Instruction, error) {
	var doc macroDocument
	if _, err := toml.DecodeFile(m.path, &doc); err != nil {
		zap.L().Error(fmt.Sprintf("failed to read macro file/path:%s/reason:%s", m.path, err))
		return nil, err
	}
	table := make(map[string][]Instruction, len(doc.Macros))
	for name, lines := range doc.Macros {
		seq := make([]Instruction, 0, len(lines))
		for _, line := range lines {
			inst, err := DecodeMacroLine(line)
			if err != nil {
				return nil, fmt.Errorf("macro %q: %w", name, err)
			}
			seq = append(seq, inst)
		}
		table[name] = seq
	}
	return table, nil
}

// EncodeMacroLine renders one macro step as "<kind> <t0,t1,...> [param]".
func EncodeMacroLine(inst Instruction) (string, error) {
	if inst.Kind == KindCustom || inst.Kind == KindConditional {
		return "", fmt.Errorf("%s steps cannot be stored in a macro", inst.Kind)
	}
	targets := make([]string, len(inst.Targets))
	for i, t := range inst.Targets {
		targets[i] = strconv.Itoa(t)
	}
	line := inst.Kind.String() + " " + strings.Join(targets, ",")
	if len(inst.Params) == 1 {
		line += " " + strconv.FormatFloat(inst.Params[0], 'g', -1, 64)
	}
	return line, nil
}

func DecodeMacroLine(line string) (Instruction, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 3 {
		return Instruction{}, fmt.Errorf("malformed macro line: %q", line)
	}
	kind, err := ToGateKind(fields[0])
	if err != nil {
		return Instruction{}, err
	}
	var targets []int
	for _, tok := range strings.Split(fields[1], ",") {
		t, err := strconv.Atoi(tok)
		if err != nil {
			return Instruction{}, fmt.Errorf("malformed target in macro line %q: %w", line, err)
		}
		targets = append(targets, t)
	}
	var params []float64
	if len(fields) == 3 {
		p, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return Instruction{}, fmt.Errorf("malformed parameter in macro line %q: %w", line, err)
		}
		params = []float64{p}
	}
	return Instruction{Kind: kind, Targets: targets, Params: params}, nil
}
