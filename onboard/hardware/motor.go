package hardware

import (
	"fmt"
	"strings"

	boterrors "github.com/CodedInternet/wiflybot/onboard/errors"
)

// Motor selects one of the two channels of the driver. The values match the
// codes used by the robot's command protocol: 0 is motor B, 1 is motor A.
type Motor uint8

const (
	MotorB Motor = iota
	MotorA
)

// Direction of rotation. 0 is clockwise, 1 is counter-clockwise.
type Direction uint8

const (
	Clockwise Direction = iota
	CounterClockwise
)

const (
	LOW  byte = 0
	HIGH byte = 1

	SPEED_MIN = 0
	SPEED_MAX = 255
)

type MotorState struct {
	Speed     uint8
	Direction Direction
}

type DriverState struct {
	Standby bool
	Motors  map[Motor]MotorState
}

func (m Motor) String() string {
	switch m {
	case MotorA:
		return "A"
	case MotorB:
		return "B"
	}
	return fmt.Sprintf("Motor(%d)", uint8(m))
}

func (m Motor) valid() bool {
	return m == MotorA || m == MotorB
}

func (d Direction) String() string {
	switch d {
	case Clockwise:
		return "cw"
	case CounterClockwise:
		return "ccw"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// levels returns the IN1/IN2 pair for the direction. The driver needs one
// pin high and the other low, swapped for the opposite rotation.
func (d Direction) levels() (in1, in2 byte) {
	if d == CounterClockwise {
		return HIGH, LOW
	}
	return LOW, HIGH
}

func (d Direction) valid() bool {
	return d == Clockwise || d == CounterClockwise
}

// MotorFromCode converts a numeric motor code of the command protocol.
func MotorFromCode(code int) (Motor, error) {
	if code < int(MotorB) || code > int(MotorA) {
		return 0, boterrors.MotorSelectorError{Code: code}
	}
	return Motor(code), nil
}

// DirectionFromCode converts a numeric direction code of the command protocol.
func DirectionFromCode(code int) (Direction, error) {
	if code < int(Clockwise) || code > int(CounterClockwise) {
		return 0, boterrors.DirectionError{Code: code}
	}
	return Direction(code), nil
}

func ParseMotor(s string) (Motor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "1":
		return MotorA, nil
	case "b", "0":
		return MotorB, nil
	}
	return 0, boterrors.MotorSelectorError{Code: -1, Name: s}
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cw", "0":
		return Clockwise, nil
	case "ccw", "1":
		return CounterClockwise, nil
	}
	return 0, boterrors.DirectionError{Code: -1, Name: s}
}

// clampSpeed limits speed to the 8 bit duty cycle range. The second return
// reports whether the value had to be changed.
func clampSpeed(speed int) (uint8, bool) {
	switch {
	case speed < SPEED_MIN:
		return SPEED_MIN, true
	case speed > SPEED_MAX:
		return SPEED_MAX, true
	}
	return uint8(speed), false
}
