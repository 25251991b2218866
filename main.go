package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	. "github.com/CodedInternet/wiflybot/onboard"
	"github.com/CodedInternet/wiflybot/onboard/board"
	"github.com/CodedInternet/wiflybot/onboard/hardware"
	"github.com/abiosoft/ishell"
	"github.com/caarlos0/env"
	log "github.com/sirupsen/logrus"
	"github.com/tarm/serial"
)

type EnvConfig struct {
	CONFIG string `env:"WIFLYBOT_CONFIG" envDefault:"./wiflybot.yaml"`
	BOARD  string `env:"WIFLYBOT_BOARD"`
	DEBUG  bool   `env:"DEBUG" envDefault:"0"`
}

var (
	ENV *EnvConfig
)

func init() {
	ENV = new(EnvConfig)
	if err := env.Parse(ENV); err != nil {
		panic(err)
	}

	if ENV.DEBUG {
		log.SetLevel(log.DebugLevel)
	}
}

func main() {
	simulated := flag.Bool("sim", false, "Run against the simulated board")
	configFile := flag.String("config", ENV.CONFIG, "Path to the YAML config")
	flag.Parse()

	config, err := readConfig(*configFile)
	if err != nil {
		log.Fatal(err)
	}

	if len(ENV.BOARD) != 0 {
		config.Board.Type = ENV.BOARD
	}
	if *simulated {
		config.Board.Type = board.TYPE_SIM
	}

	out, err := openDiagnostics(config.Diagnostics)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	bot, err := NewMotorBot(config, out)
	if err != nil {
		log.Fatalf("Unable to initialize bot: %v", err)
	}
	defer bot.Close()

	newShell(bot).Start()
}

// readConfig falls back to the defaults when the file does not exist.
func readConfig(filename string) (config BotConfig, err error) {
	filename, err = filepath.Abs(filename)
	if err != nil {
		return
	}

	data, err := ioutil.ReadFile(filename)
	if os.IsNotExist(err) {
		log.WithField("file", filename).Warn("config file not found, using defaults")
		return DefaultConfig(), nil
	}
	if err != nil {
		return config, fmt.Errorf("unable to read yaml file: %v", err)
	}

	config, err = LoadConfig(data)
	if err != nil {
		return config, fmt.Errorf("unable to load %s: %v", filename, err)
	}
	return
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func openDiagnostics(c DiagnosticsConfig) (io.WriteCloser, error) {
	if len(c.Port) == 0 {
		return nopCloser{os.Stdout}, nil
	}

	log.WithField("port", c.Port).Info("opening diagnostic console")
	port, err := serial.OpenPort(&serial.Config{
		Name: c.Port,
		Baud: c.Baud,
		Size: 8,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open diagnostic console %s: %v", c.Port, err)
	}
	return port, nil
}

func newShell(bot *MotorBot) *ishell.Shell {
	shell := ishell.New()
	shell.Println("WiFlyBot development shell")

	motorNames := func([]string) []string {
		return []string{"a", "b"}
	}

	shell.AddCmd(&ishell.Cmd{
		Name:      "move",
		Completer: motorNames,
		Help:      "move <a|b> <speed (0-255)> <cw|ccw>",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 3 {
				c.Err(fmt.Errorf("usage: move <a|b> <speed (0-255)> <cw|ccw>"))
				return
			}
			motor, err := hardware.ParseMotor(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			speed, err := strconv.Atoi(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			direction, err := hardware.ParseDirection(c.Args[2])
			if err != nil {
				c.Err(err)
				return
			}

			c.Printf("Moving motor %s at %d %s\n", motor, speed, direction)
			if err = bot.Move(motor, speed, direction); err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "stop",
		Help: "put the driver into standby",
		Func: func(c *ishell.Context) {
			if err := bot.Stop(); err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "state",
		Help: "show the last commanded state",
		Func: func(c *ishell.Context) {
			state := bot.State()
			c.Printf("standby: %v\n", state.Standby)
			for _, m := range []hardware.Motor{hardware.MotorA, hardware.MotorB} {
				s := state.Motors[m]
				c.Printf("motor %s: speed %d %s\n", m, s.Speed, s.Direction)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "debug",
		Help: "debug <message>",
		Func: func(c *ishell.Context) {
			bot.Debug(strings.Join(c.Args, " "))
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "panic",
		Help: "panic <message> - reports a fatal error and halts",
		Func: func(c *ishell.Context) {
			bot.Fatal(strings.Join(c.Args, " "))
		},
	})

	return shell
}
