package core

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/qubox-team/qubox-engine/simcore/common"
	"go.uber.org/zap"
)

var globalSetting *Setting

// Setting is the TOML-backed component configuration. The dense state-vector
// representation makes circuits beyond roughly 20 qubits impractical, so
// MaxQubits defaults there.
type Setting struct {
	Sim      SimSetting      `toml:"sim"`
	Sampling SamplingSetting `toml:"sampling"`
}

type SimSetting struct {
	MaxQubits int `toml:"max_qubits"`
}

type SamplingSetting struct {
	Seed int64 `toml:"seed"`
}

func newSetting() *Setting {
	return &Setting{
		Sim:      SimSetting{MaxQubits: 20},
		Sampling: SamplingSetting{Seed: 0},
	}
}

func ResetSetting() {
	globalSetting = newSetting()
}

func GetGlobalSetting() *Setting {
	return globalSetting
}

func ParseSettingFromPath(settingsPath string) error {
	tomlString, err := common.ReadSettingsFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read setting file/reason:%s", err))
		return err
	}
	return globalSetting.parseSetting(tomlString)
}

func (s *Setting) parseSetting(tomlString string) error {
	_, err := toml.Decode(tomlString, s)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse setting/reason:%s", err))
		return err
	}
	if s.Sim.MaxQubits <= 0 {
		return fmt.Errorf("max_qubits must be positive, got %d", s.Sim.MaxQubits)
	}
	zap.L().Debug(fmt.Sprintf("Setting is %+v", *s))
	return nil
}
