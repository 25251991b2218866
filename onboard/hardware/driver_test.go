package hardware

import (
	"errors"
	"testing"

	boterrors "github.com/CodedInternet/wiflybot/onboard/errors"
	. "github.com/smartystreets/goconvey/convey"
)

type testWrite struct {
	pin   string
	pwm   bool
	level byte
}

type testBoard struct {
	name    string
	levels  map[string]byte
	writes  []testWrite
	failPin string
}

func newTestBoard() *testBoard {
	return &testBoard{
		name:   "test",
		levels: make(map[string]byte),
	}
}

func (b *testBoard) Name() string     { return b.name }
func (b *testBoard) SetName(n string) { b.name = n }
func (b *testBoard) Connect() error   { return nil }
func (b *testBoard) Finalize() error  { return nil }

func (b *testBoard) DigitalWrite(pin string, level byte) error {
	return b.write(pin, false, level)
}

func (b *testBoard) PwmWrite(pin string, level byte) error {
	return b.write(pin, true, level)
}

func (b *testBoard) write(pin string, pwm bool, level byte) error {
	if pin == b.failPin {
		return errors.New("this is a simulated write error")
	}
	b.levels[pin] = level
	b.writes = append(b.writes, testWrite{pin, pwm, level})
	return nil
}

func (b *testBoard) touched(pins ...string) bool {
	for _, w := range b.writes {
		for _, p := range pins {
			if w.pin == p {
				return true
			}
		}
	}
	return false
}

type testNotifier struct {
	lines []string
}

func (n *testNotifier) Println(message string) {
	n.lines = append(n.lines, message)
}

func createTestDriver() (board *testBoard, notifier *testNotifier, driver *MotorDriver) {
	board = newTestBoard()
	notifier = new(testNotifier)
	driver = NewMotorDriver(board, DefaultPinMap, notifier)
	return
}

func TestInitialize(t *testing.T) {
	Convey("initialize configures all seven pins", t, func() {
		board, _, driver := createTestDriver()
		err := driver.Initialize()
		So(err, ShouldBeNil)
		So(board.writes, ShouldHaveLength, 7)
		So(board.writes[0], ShouldResemble, testWrite{DefaultPinMap.STBY, false, LOW})

		Convey("speed pins get a duty cycle of 0, the rest are low", func() {
			for _, w := range board.writes {
				So(w.level, ShouldEqual, 0)
				isPwm := w.pin == DefaultPinMap.A.PWM || w.pin == DefaultPinMap.B.PWM
				So(w.pwm, ShouldEqual, isPwm)
			}
		})

		Convey("a second call is rejected", func() {
			So(driver.Initialize(), ShouldEqual, ERR_ALREADY_INITIALIZED)
		})
	})

	Convey("an invalid pin map is rejected", t, func() {
		pins := DefaultPinMap
		pins.B.IN2 = pins.A.IN1
		board := newTestBoard()
		driver := NewMotorDriver(board, pins, nil)
		err := driver.Initialize()
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "AIN1")
		So(board.writes, ShouldBeEmpty)
	})

	Convey("write failures name the pin role", t, func() {
		board, _, driver := createTestDriver()
		board.failPin = DefaultPinMap.B.PWM
		err := driver.Initialize()
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "PWMB")

		Convey("and leave the driver uninitialized", func() {
			So(driver.Move(MotorA, 10, Clockwise), ShouldEqual, ERR_NOT_INITIALIZED)
		})
	})

	Convey("move and stop before initialize write nothing", t, func() {
		board, notifier, driver := createTestDriver()
		So(driver.Move(MotorA, 100, Clockwise), ShouldEqual, ERR_NOT_INITIALIZED)
		So(driver.Stop(), ShouldEqual, ERR_NOT_INITIALIZED)
		So(board.writes, ShouldBeEmpty)
		So(notifier.lines, ShouldBeEmpty)
	})
}

func TestMove(t *testing.T) {
	board, _, driver := createTestDriver()
	driver.Initialize()
	pins := DefaultPinMap

	Convey("clockwise drives IN1 low and IN2 high", t, func() {
		board.writes = nil
		err := driver.Move(MotorA, 200, Clockwise)
		So(err, ShouldBeNil)
		So(board.levels[pins.A.IN1], ShouldEqual, LOW)
		So(board.levels[pins.A.IN2], ShouldEqual, HIGH)
		So(board.levels[pins.A.PWM], ShouldEqual, 200)
		So(board.levels[pins.STBY], ShouldEqual, HIGH)

		Convey("standby is released before the direction and speed pins", func() {
			So(board.writes, ShouldResemble, []testWrite{
				{pins.STBY, false, HIGH},
				{pins.A.IN1, false, LOW},
				{pins.A.IN2, false, HIGH},
				{pins.A.PWM, true, 200},
			})
		})
	})

	Convey("counter-clockwise drives IN1 high and IN2 low", t, func() {
		err := driver.Move(MotorB, 17, CounterClockwise)
		So(err, ShouldBeNil)
		So(board.levels[pins.B.IN1], ShouldEqual, HIGH)
		So(board.levels[pins.B.IN2], ShouldEqual, LOW)
		So(board.levels[pins.B.PWM], ShouldEqual, 17)
	})

	Convey("a move only touches the addressed motor", t, func() {
		board.writes = nil
		So(driver.Move(MotorA, 50, CounterClockwise), ShouldBeNil)
		So(board.touched(pins.B.PWM, pins.B.IN1, pins.B.IN2), ShouldBeFalse)

		board.writes = nil
		So(driver.Move(MotorB, 50, CounterClockwise), ShouldBeNil)
		So(board.touched(pins.A.PWM, pins.A.IN1, pins.A.IN2), ShouldBeFalse)
	})

	Convey("every speed in range reaches the speed pin unchanged", t, func() {
		for speed := SPEED_MIN; speed <= SPEED_MAX; speed++ {
			driver.Move(MotorA, speed, Clockwise)
			if board.levels[pins.A.PWM] != byte(speed) {
				So(board.levels[pins.A.PWM], ShouldEqual, speed)
			}
		}
		So(board.levels[pins.A.PWM], ShouldEqual, SPEED_MAX)
	})

	Convey("out of range speeds are clamped", t, func() {
		So(driver.Move(MotorA, 300, Clockwise), ShouldBeNil)
		So(board.levels[pins.A.PWM], ShouldEqual, 255)

		So(driver.Move(MotorA, -20, Clockwise), ShouldBeNil)
		So(board.levels[pins.A.PWM], ShouldEqual, 0)
	})

	Convey("unknown selectors are rejected without touching any pin", t, func() {
		board.writes = nil

		err := driver.Move(Motor(7), 10, Clockwise)
		So(err, ShouldResemble, boterrors.MotorSelectorError{Code: 7})

		err = driver.Move(MotorA, 10, Direction(3))
		So(err, ShouldResemble, boterrors.DirectionError{Code: 3})

		So(board.writes, ShouldBeEmpty)
	})

	Convey("standby is released even after a stop", t, func() {
		driver.Stop()
		So(board.levels[pins.STBY], ShouldEqual, LOW)
		driver.Move(MotorB, 0, Clockwise)
		So(board.levels[pins.STBY], ShouldEqual, HIGH)
	})
}

func TestStop(t *testing.T) {
	Convey("stop engages standby and emits one stop line", t, func() {
		board, notifier, driver := createTestDriver()
		driver.Initialize()
		driver.Move(MotorA, 120, Clockwise)
		driver.Move(MotorB, 80, CounterClockwise)
		board.writes = nil

		err := driver.Stop()
		So(err, ShouldBeNil)
		So(notifier.lines, ShouldResemble, []string{STOP_MESSAGE})
		So(board.writes, ShouldResemble, []testWrite{{DefaultPinMap.STBY, false, LOW}})

		Convey("state reflects standby but keeps the last command", func() {
			state := driver.State()
			So(state.Standby, ShouldBeTrue)
			So(state.Motors[MotorA], ShouldResemble, MotorState{120, Clockwise})
			So(state.Motors[MotorB], ShouldResemble, MotorState{80, CounterClockwise})
		})

		Convey("a second stop does the same again", func() {
			So(driver.Stop(), ShouldBeNil)
			So(notifier.lines, ShouldHaveLength, 2)
			So(board.levels[DefaultPinMap.STBY], ShouldEqual, LOW)
		})
	})

	Convey("a failing standby pin is reported", t, func() {
		board, _, driver := createTestDriver()
		driver.Initialize()
		board.failPin = DefaultPinMap.STBY
		err := driver.Stop()
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "standby")
	})
}

func TestScenario(t *testing.T) {
	Convey("move A, move B, then stop", t, func() {
		board, notifier, driver := createTestDriver()
		pins := DefaultPinMap
		So(driver.Initialize(), ShouldBeNil)

		So(driver.Move(MotorA, 200, Clockwise), ShouldBeNil)
		So(board.levels[pins.A.IN1], ShouldEqual, LOW)
		So(board.levels[pins.A.IN2], ShouldEqual, HIGH)
		So(board.levels[pins.A.PWM], ShouldEqual, 200)
		So(board.levels[pins.STBY], ShouldEqual, HIGH)

		So(driver.Move(MotorB, 0, CounterClockwise), ShouldBeNil)
		So(board.levels[pins.B.IN1], ShouldEqual, HIGH)
		So(board.levels[pins.B.IN2], ShouldEqual, LOW)
		So(board.levels[pins.B.PWM], ShouldEqual, 0)
		So(board.levels[pins.STBY], ShouldEqual, HIGH)
		So(board.levels[pins.A.IN1], ShouldEqual, LOW)
		So(board.levels[pins.A.IN2], ShouldEqual, HIGH)
		So(board.levels[pins.A.PWM], ShouldEqual, 200)

		So(driver.Stop(), ShouldBeNil)
		So(board.levels[pins.STBY], ShouldEqual, LOW)
		So(notifier.lines, ShouldResemble, []string{"stop"})
	})
}
