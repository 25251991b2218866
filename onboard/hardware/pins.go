package hardware

import (
	"fmt"
)

// MotorPins are the three driver inputs belonging to one motor channel.
type MotorPins struct {
	PWM string `yaml:"pwm"` // speed
	IN1 string `yaml:"in1"` // direction
	IN2 string `yaml:"in2"` // direction
}

// PinMap assigns the seven driver roles to board pins. It is copied into the
// driver on construction, so later changes to the caller's value have no effect.
type PinMap struct {
	STBY string    `yaml:"stby"`
	A    MotorPins `yaml:"a"`
	B    MotorPins `yaml:"b"`
}

// DefaultPinMap is the wiring of the reference robot (Arduino Uno + TB6612FNG).
var DefaultPinMap = PinMap{
	STBY: "10",
	A: MotorPins{
		PWM: "3",
		IN1: "9",
		IN2: "8",
	},
	B: MotorPins{
		PWM: "5",
		IN1: "11",
		IN2: "12",
	},
}

// Motor returns the pins of the given channel.
func (p PinMap) Motor(m Motor) (pins MotorPins, ok bool) {
	switch m {
	case MotorA:
		return p.A, true
	case MotorB:
		return p.B, true
	}
	return
}

func (p PinMap) roles() []pinRole {
	return []pinRole{
		{"STBY", p.STBY},
		{"PWMA", p.A.PWM},
		{"AIN1", p.A.IN1},
		{"AIN2", p.A.IN2},
		{"PWMB", p.B.PWM},
		{"BIN1", p.B.IN1},
		{"BIN2", p.B.IN2},
	}
}

// Validate checks that all seven roles are assigned to distinct pins.
func (p PinMap) Validate() error {
	seen := make(map[string]string, 7)
	for _, r := range p.roles() {
		if len(r.pin) == 0 {
			return fmt.Errorf("pin map: no pin assigned to %s", r.name)
		}
		if other, ok := seen[r.pin]; ok {
			return fmt.Errorf("pin map: pin %s assigned to both %s and %s", r.pin, other, r.name)
		}
		seen[r.pin] = r.name
	}
	return nil
}

type pinRole struct {
	name string
	pin  string
}
