package onboard

import (
	"errors"
	"fmt"
	"io"

	"github.com/CodedInternet/wiflybot/onboard/board"
	"github.com/CodedInternet/wiflybot/onboard/diag"
	"github.com/CodedInternet/wiflybot/onboard/hardware"
	"github.com/Masterminds/semver"
	log "github.com/sirupsen/logrus"
)

const (
	CONFIG_VERSION         = "~1.0"
	CONFIG_VERSION_CURRENT = "1.0.0"
)

var (
	ERR_CONFIG_VERSION = errors.New("config version is not supported")
)

// Bot is the interface a command layer drives the robot through.
type Bot interface {
	Move(motor hardware.Motor, speed int, direction hardware.Direction) error
	Stop() error
	Debug(message string)
	Fatal(message string)
}

var _ Bot = (*MotorBot)(nil)

type MotorBot struct {
	Driver   *hardware.MotorDriver
	Reporter *diag.Reporter

	board  hardware.Board
	config BotConfig
}

// NewMotorBot connects the configured board and initializes the driver on
// it. Diagnostic lines go to out.
func NewMotorBot(config BotConfig, out io.Writer) (b *MotorBot, err error) {
	if err = CheckVersion(config.Version); err != nil {
		return
	}

	b = &MotorBot{config: config}

	b.board, err = board.New(config.Board.Type, config.Board.Port)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"board": config.Board.Type,
		"port":  config.Board.Port,
	}).Info("connecting board")
	if err = b.board.Connect(); err != nil {
		return nil, fmt.Errorf("unable to connect %s board: %v", config.Board.Type, err)
	}

	b.Reporter = diag.NewReporter(out)
	b.Driver = hardware.NewMotorDriver(b.board, config.Pins, b.Reporter)

	if err = b.Driver.Initialize(); err != nil {
		b.board.Finalize()
		return nil, err
	}

	// release the board if a fatal report ends the process
	log.RegisterExitHandler(func() {
		b.board.Finalize()
	})

	return
}

// CheckVersion verifies that a config file version can be read by this build.
func CheckVersion(version string) (err error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ERR_CONFIG_VERSION, version, err)
	}

	c, err := semver.NewConstraint(CONFIG_VERSION)
	if err != nil {
		return
	}

	if !c.Check(v) {
		return fmt.Errorf("%w: received %s - require %s", ERR_CONFIG_VERSION, version, CONFIG_VERSION)
	}
	return nil
}

func (b *MotorBot) Move(motor hardware.Motor, speed int, direction hardware.Direction) error {
	return b.Driver.Move(motor, speed, direction)
}

func (b *MotorBot) Stop() error {
	return b.Driver.Stop()
}

func (b *MotorBot) Debug(message string) {
	b.Reporter.Debug(message)
}

func (b *MotorBot) Fatal(message string) {
	b.Reporter.Fatal(message)
}

func (b *MotorBot) State() hardware.DriverState {
	return b.Driver.State()
}

func (b *MotorBot) Board() hardware.Board {
	return b.board
}

func (b *MotorBot) Config() BotConfig {
	return b.config
}

// Close stops both motors and releases the board.
func (b *MotorBot) Close() (err error) {
	if err = b.Driver.Stop(); err != nil {
		log.WithError(err).Warn("unable to stop motors before closing")
	}
	return b.board.Finalize()
}
