package hardware

import (
	"errors"
	"fmt"
	"sync"

	boterrors "github.com/CodedInternet/wiflybot/onboard/errors"
	log "github.com/sirupsen/logrus"
	"gobot.io/x/gobot"
	"gobot.io/x/gobot/drivers/gpio"
)

const STOP_MESSAGE = "stop"

var (
	ERR_NOT_INITIALIZED     = errors.New("motor driver has not been initialized")
	ERR_ALREADY_INITIALIZED = errors.New("motor driver has already been initialized")
)

// Board is anything that can drive digital and PWM output pins. The gobot
// firmata adaptor satisfies it directly.
type Board interface {
	gobot.Connection
	gpio.DigitalWriter
	gpio.PwmWriter
}

// Notifier receives the plain text lines the driver emits on the diagnostic channel.
type Notifier interface {
	Println(message string)
}

type channel struct {
	pwm, in1, in2 *gpio.DirectPinDriver
}

// MotorDriver controls a TB6612 style dual H-bridge: one standby gate and a
// speed (PWM) plus two direction inputs per motor.
type MotorDriver struct {
	pins     PinMap
	notifier Notifier
	lock     *sync.Mutex

	stby     *gpio.DirectPinDriver
	channels map[Motor]channel

	initialized bool
	state       DriverState
}

func NewMotorDriver(board Board, pins PinMap, notifier Notifier) (d *MotorDriver) {
	d = &MotorDriver{
		pins:     pins,
		notifier: notifier,
		lock:     new(sync.Mutex),
		stby:     gpio.NewDirectPinDriver(board, pins.STBY),
		channels: make(map[Motor]channel, 2),
		state: DriverState{
			Standby: true,
			Motors:  make(map[Motor]MotorState, 2),
		},
	}

	for _, m := range []Motor{MotorA, MotorB} {
		mp, _ := pins.Motor(m)
		d.channels[m] = channel{
			pwm: gpio.NewDirectPinDriver(board, mp.PWM),
			in1: gpio.NewDirectPinDriver(board, mp.IN1),
			in2: gpio.NewDirectPinDriver(board, mp.IN2),
		}
		d.state.Motors[m] = MotorState{}
	}

	return
}

// Initialize configures every pin as an output by driving it to its idle
// level: standby engaged, direction inputs low and no duty cycle.
// It must be called exactly once before Move or Stop.
func (d *MotorDriver) Initialize() (err error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.initialized {
		return ERR_ALREADY_INITIALIZED
	}

	if err = d.pins.Validate(); err != nil {
		return
	}

	for _, o := range d.outputs() {
		if o.pwm {
			err = o.pin.PwmWrite(0)
		} else {
			err = o.pin.DigitalWrite(LOW)
		}
		if err != nil {
			return fmt.Errorf("configuring %s (pin %s): %w", o.name, o.pin.Pin(), err)
		}
	}

	d.initialized = true
	log.WithField("pins", d.pins).Debug("motor driver initialized")
	return nil
}

// Move drives one motor at the given speed and direction. Standby is released
// on every call. Speeds outside 0-255 are clamped.
func (d *MotorDriver) Move(motor Motor, speed int, direction Direction) (err error) {
	if !motor.valid() {
		return boterrors.MotorSelectorError{Code: int(motor)}
	}
	if !direction.valid() {
		return boterrors.DirectionError{Code: int(direction)}
	}

	duty, clamped := clampSpeed(speed)
	if clamped {
		log.WithFields(log.Fields{
			"motor":     motor,
			"requested": speed,
			"applied":   duty,
		}).Warn("speed out of range, clamped")
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	if !d.initialized {
		return ERR_NOT_INITIALIZED
	}

	if err = d.stby.DigitalWrite(HIGH); err != nil {
		return fmt.Errorf("releasing standby: %w", err)
	}
	d.state.Standby = false

	in1, in2 := direction.levels()
	ch := d.channels[motor]

	if err = ch.in1.DigitalWrite(in1); err != nil {
		return fmt.Errorf("motor %s IN1: %w", motor, err)
	}
	if err = ch.in2.DigitalWrite(in2); err != nil {
		return fmt.Errorf("motor %s IN2: %w", motor, err)
	}
	if err = ch.pwm.PwmWrite(duty); err != nil {
		return fmt.Errorf("motor %s PWM: %w", motor, err)
	}

	d.state.Motors[motor] = MotorState{Speed: duty, Direction: direction}
	log.WithFields(log.Fields{
		"motor":     motor,
		"speed":     duty,
		"direction": direction,
	}).Debug("move")

	return nil
}

// Stop puts the driver into standby; both motors lose drive whatever they
// were last commanded to do.
func (d *MotorDriver) Stop() (err error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if !d.initialized {
		return ERR_NOT_INITIALIZED
	}

	if d.notifier != nil {
		d.notifier.Println(STOP_MESSAGE)
	}

	if err = d.stby.DigitalWrite(LOW); err != nil {
		return fmt.Errorf("engaging standby: %w", err)
	}
	d.state.Standby = true

	return nil
}

// State returns a copy of the last commanded state.
func (d *MotorDriver) State() (state DriverState) {
	d.lock.Lock()
	defer d.lock.Unlock()

	state.Standby = d.state.Standby
	state.Motors = make(map[Motor]MotorState, len(d.state.Motors))
	for m, s := range d.state.Motors {
		state.Motors[m] = s
	}
	return
}

type output struct {
	name string
	pin  *gpio.DirectPinDriver
	pwm  bool
}

func (d *MotorDriver) outputs() []output {
	a, b := d.channels[MotorA], d.channels[MotorB]
	return []output{
		{"STBY", d.stby, false},
		{"PWMA", a.pwm, true},
		{"AIN1", a.in1, false},
		{"AIN2", a.in2, false},
		{"PWMB", b.pwm, true},
		{"BIN1", b.in1, false},
		{"BIN2", b.in2, false},
	}
}

func (d *MotorDriver) Pins() PinMap {
	return d.pins
}
