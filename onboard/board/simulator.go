package board

import (
	"sync"
)

type PinMode uint8

const (
	MODE_UNSET PinMode = iota
	MODE_OUTPUT
	MODE_PWM
)

// Write is one pin write seen by the simulated board.
type Write struct {
	Pin   string
	PWM   bool
	Level byte
}

// SimulatedBoard keeps pin levels in memory and records every write, so the
// driver can run without hardware attached.
type SimulatedBoard struct {
	name      string
	lock      sync.Mutex
	connected bool
	levels    map[string]byte
	modes     map[string]PinMode
	writes    []Write
	failPins  map[string]error
}

func NewSimulatedBoard() *SimulatedBoard {
	return &SimulatedBoard{
		name:     "wiflybot-sim",
		levels:   make(map[string]byte),
		modes:    make(map[string]PinMode),
		failPins: make(map[string]error),
	}
}

func (s *SimulatedBoard) Name() string     { return s.name }
func (s *SimulatedBoard) SetName(n string) { s.name = n }

func (s *SimulatedBoard) Connect() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.connected = true
	return nil
}

func (s *SimulatedBoard) Finalize() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.connected = false
	return nil
}

func (s *SimulatedBoard) DigitalWrite(pin string, level byte) error {
	return s.write(pin, level, MODE_OUTPUT)
}

func (s *SimulatedBoard) PwmWrite(pin string, level byte) error {
	return s.write(pin, level, MODE_PWM)
}

func (s *SimulatedBoard) write(pin string, level byte, mode PinMode) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.connected {
		return ERR_NOT_CONNECTED
	}
	if err := s.failPins[pin]; err != nil {
		return err
	}

	s.modes[pin] = mode
	s.levels[pin] = level
	s.writes = append(s.writes, Write{Pin: pin, PWM: mode == MODE_PWM, Level: level})
	return nil
}

// Level returns the last value written to pin.
func (s *SimulatedBoard) Level(pin string) (level byte, ok bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	level, ok = s.levels[pin]
	return
}

func (s *SimulatedBoard) Mode(pin string) PinMode {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.modes[pin]
}

// Writes returns the writes since the last call to ResetWrites.
func (s *SimulatedBoard) Writes() []Write {
	s.lock.Lock()
	defer s.lock.Unlock()
	out := make([]Write, len(s.writes))
	copy(out, s.writes)
	return out
}

func (s *SimulatedBoard) ResetWrites() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.writes = nil
}

// FailPin makes every following write to pin return err. A nil err clears it.
func (s *SimulatedBoard) FailPin(pin string, err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if err == nil {
		delete(s.failPins, pin)
		return
	}
	s.failPins[pin] = err
}
