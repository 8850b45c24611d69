//go:build unit
// +build unit

package core

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMacroLineRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		inst Instruction
		want string
	}{
		{name: "hadamard", inst: Instruction{Kind: KindH, Targets: []int{0}}, want: "H 0"},
		{name: "cnot", inst: Instruction{Kind: KindCNOT, Targets: []int{0, 1}}, want: "CNOT 0,1"},
		{name: "rotation", inst: Instruction{Kind: KindRx, Targets: []int{2}, Params: []float64{0.5}}, want: "Rx 2 0.5"},
		{name: "toffoli", inst: Instruction{Kind: KindToffoli, Targets: []int{0, 1, 2}}, want: "Toffoli 0,1,2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := EncodeMacroLine(tt.inst)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, line)
			got, err := DecodeMacroLine(line)
			assert.NoError(t, err)
			assert.Equal(t, tt.inst, got)
		})
	}
}

func TestEncodeMacroLineRejectsNestedKinds(t *testing.T) {
	_, err := EncodeMacroLine(Instruction{Kind: KindCustom, Name: "m", Targets: []int{0}})
	assert.Error(t, err)
	_, err = EncodeMacroLine(Instruction{Kind: KindConditional, Targets: []int{0}})
	assert.Error(t, err)
}

func TestDecodeMacroLineMalformed(t *testing.T) {
	for _, line := range []string{"", "H", "H zero", "Rx 0 angle", "Fredkin 0,1,2", "H 0 1 2"} {
		_, err := DecodeMacroLine(line)
		assert.Error(t, err, line)
	}
}

func TestMacroStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macros.toml")
	table := map[string][]Instruction{
		"bellpair": {
			{Kind: KindH, Targets: []int{0}},
			{Kind: KindCNOT, Targets: []int{0, 1}},
		},
		"twist": {
			{Kind: KindRz, Targets: []int{0}, Params: []float64{1.25}},
		},
	}
	store := NewMacroStore(path)
	assert.NoError(t, store.Save(table))

	got, err := store.Load()
	assert.NoError(t, err)
	assert.Equal(t, table, got)
}

func TestMacroStoreSaveRejectsNested(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macros.toml")
	store := NewMacroStore(path)
	err := store.Save(map[string][]Instruction{
		"outer": {{Kind: KindCustom, Name: "inner", Targets: []int{0}}},
	})
	assert.Error(t, err)
}

func TestMacroStoreLoadMissingFile(t *testing.T) {
	store := NewMacroStore(filepath.Join(t.TempDir(), "absent.toml"))
	_, err := store.Load()
	assert.Error(t, err)
}
