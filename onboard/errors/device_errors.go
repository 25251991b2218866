package errors

import "fmt"

type BoardNameError struct {
	Name string
}

func (err BoardNameError) Error() string {
	return fmt.Sprintf("no such board type %q", err.Name)
}

// MotorSelectorError is returned for a motor that the driver does not have.
// Code is -1 when the selector was given by name.
type MotorSelectorError struct {
	Code int
	Name string
}

func (err MotorSelectorError) Error() string {
	if len(err.Name) != 0 {
		return fmt.Sprintf("unknown motor %q", err.Name)
	}
	return fmt.Sprintf("unknown motor code %d", err.Code)
}

type DirectionError struct {
	Code int
	Name string
}

func (err DirectionError) Error() string {
	if len(err.Name) != 0 {
		return fmt.Sprintf("unknown direction %q", err.Name)
	}
	return fmt.Sprintf("unknown direction code %d", err.Code)
}

type PinError struct {
	Pin    string
	Action string
}

func (err PinError) Error() string {
	if len(err.Action) == 0 {
		err.Action = "UNKNOWN"
	}
	if len(err.Pin) == 0 {
		err.Pin = "UNKNOWN"
	}

	return fmt.Sprintf("incorrect pin; pin %s is unable to perform action %s", err.Pin, err.Action)
}
