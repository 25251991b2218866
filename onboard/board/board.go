// Package board provides the pin backends a MotorDriver can run on.
package board

import (
	"errors"
	"strings"

	boterrors "github.com/CodedInternet/wiflybot/onboard/errors"
	"github.com/CodedInternet/wiflybot/onboard/hardware"
	"gobot.io/x/gobot/platforms/firmata"
)

const (
	TYPE_FIRMATA = "firmata"
	TYPE_RPIO    = "rpio"
	TYPE_SIM     = "sim"

	DEFAULT_FIRMATA_PORT = "/dev/ttyACM0"
)

var (
	ERR_NOT_CONNECTED = errors.New("board is not connected")
)

// New creates an unconnected board of the named type. port is only used by
// the firmata backend.
func New(boardType, port string) (b hardware.Board, err error) {
	switch strings.ToLower(boardType) {
	case TYPE_FIRMATA:
		b = NewFirmataBoard(port)
	case TYPE_RPIO:
		b = NewRpioBoard()
	case TYPE_SIM:
		b = NewSimulatedBoard()
	default:
		err = boterrors.BoardNameError{Name: boardType}
	}
	return
}

// NewFirmataBoard talks to an Arduino running StandardFirmata over its USB
// serial port.
func NewFirmataBoard(port string) *firmata.Adaptor {
	if len(port) == 0 {
		port = DEFAULT_FIRMATA_PORT
	}
	a := firmata.NewAdaptor(port)
	a.SetName("wiflybot-firmata")
	return a
}
