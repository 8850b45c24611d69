//go:build unit
// +build unit

package core

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
)

func TestDefaultSetting(t *testing.T) {
	ResetSetting()
	s := GetGlobalSetting()
	assert.Equal(t, 20, s.Sim.MaxQubits)
	assert.Equal(t, int64(0), s.Sampling.Seed)
}

func TestParseSetting(t *testing.T) {
	ResetSetting()
	err := GetGlobalSetting().parseSetting(heredoc.Doc(`
		[sim]
		max_qubits = 12

		[sampling]
		seed = 42
	`))
	assert.NoError(t, err)
	assert.Equal(t, 12, GetGlobalSetting().Sim.MaxQubits)
	assert.Equal(t, int64(42), GetGlobalSetting().Sampling.Seed)
}

func TestParsePartialSettingKeepsDefaults(t *testing.T) {
	ResetSetting()
	err := GetGlobalSetting().parseSetting(heredoc.Doc(`
		[sampling]
		seed = 7
	`))
	assert.NoError(t, err)
	assert.Equal(t, 20, GetGlobalSetting().Sim.MaxQubits)
	assert.Equal(t, int64(7), GetGlobalSetting().Sampling.Seed)
}

func TestParseSettingRejectsBadValues(t *testing.T) {
	ResetSetting()
	err := GetGlobalSetting().parseSetting(heredoc.Doc(`
		[sim]
		max_qubits = 0
	`))
	assert.Error(t, err)

	ResetSetting()
	err = GetGlobalSetting().parseSetting("not toml at all [")
	assert.Error(t, err)
}
