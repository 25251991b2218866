package board

import (
	"strconv"
	"sync"

	boterrors "github.com/CodedInternet/wiflybot/onboard/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stianeikeland/go-rpio/v4"
)

const (
	PWM_FREQUENCY = 1000 // Hz
	PWM_CYCLE     = 255  // one step per speed unit
)

// Raspberry Pi pins (BCM numbering) with a hardware PWM channel
var pwmCapable = map[int]bool{
	12: true,
	13: true,
	18: true,
	19: true,
}

// RpioBoard drives the Raspberry Pi GPIO header directly through /dev/gpiomem.
// Pins are named by their BCM number.
type RpioBoard struct {
	name      string
	lock      sync.Mutex
	connected bool
	modes     map[int]rpio.Mode
}

func NewRpioBoard() *RpioBoard {
	return &RpioBoard{
		name:  "wiflybot-rpio",
		modes: make(map[int]rpio.Mode),
	}
}

func (b *RpioBoard) Name() string     { return b.name }
func (b *RpioBoard) SetName(n string) { b.name = n }

func (b *RpioBoard) Connect() (err error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if err = rpio.Open(); err != nil {
		return
	}
	b.connected = true
	return
}

func (b *RpioBoard) Finalize() (err error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if !b.connected {
		return nil
	}
	b.connected = false
	b.modes = make(map[int]rpio.Mode)
	return rpio.Close()
}

func (b *RpioBoard) DigitalWrite(pin string, level byte) error {
	n, err := parsePin(pin, "digital write")
	if err != nil {
		return err
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if !b.connected {
		return ERR_NOT_CONNECTED
	}

	p := rpio.Pin(n)
	if b.modes[n] != rpio.Output {
		p.Output()
		b.modes[n] = rpio.Output
	}
	if level == 0 {
		p.Low()
	} else {
		p.High()
	}
	return nil
}

func (b *RpioBoard) PwmWrite(pin string, level byte) error {
	n, err := parsePin(pin, "pwm write")
	if err != nil {
		return err
	}
	if !pwmCapable[n] {
		return boterrors.PinError{Pin: pin, Action: "pwm write"}
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if !b.connected {
		return ERR_NOT_CONNECTED
	}

	p := rpio.Pin(n)
	if b.modes[n] != rpio.Pwm {
		log.WithField("pin", n).Debug("switching pin to hardware pwm")
		p.Mode(rpio.Pwm)
		p.Freq(PWM_FREQUENCY * PWM_CYCLE)
		b.modes[n] = rpio.Pwm
	}
	p.DutyCycle(uint32(level), PWM_CYCLE)
	return nil
}

func parsePin(pin, action string) (int, error) {
	n, err := strconv.Atoi(pin)
	if err != nil || n < 0 {
		return 0, boterrors.PinError{Pin: pin, Action: action}
	}
	return n, nil
}
