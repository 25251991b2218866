package onboard

import (
	"github.com/CodedInternet/wiflybot/onboard/board"
	"github.com/CodedInternet/wiflybot/onboard/hardware"
	"gopkg.in/yaml.v2"
)

type BotConfig struct {
	Version     string
	Board       BoardConfig
	Pins        hardware.PinMap
	Diagnostics DiagnosticsConfig
}

type BoardConfig struct {
	Type string // firmata, rpio or sim
	Port string // serial port of the firmata board
}

// DiagnosticsConfig selects the console for diagnostic lines. An empty Port
// means standard output.
type DiagnosticsConfig struct {
	Port string
	Baud int
}

// DefaultConfig is used for any field the YAML file leaves out.
func DefaultConfig() BotConfig {
	return BotConfig{
		Version: CONFIG_VERSION_CURRENT,
		Board: BoardConfig{
			Type: board.TYPE_FIRMATA,
			Port: board.DEFAULT_FIRMATA_PORT,
		},
		Pins: hardware.DefaultPinMap,
		Diagnostics: DiagnosticsConfig{
			Baud: 9600,
		},
	}
}

// LoadConfig parses a YAML config on top of DefaultConfig and checks its version.
func LoadConfig(data []byte) (config BotConfig, err error) {
	config = DefaultConfig()
	if err = yaml.Unmarshal(data, &config); err != nil {
		return
	}
	err = CheckVersion(config.Version)
	return
}
