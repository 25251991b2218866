// Package diag writes human readable status lines to the robot's diagnostic
// console. It is not meant for machine parsing.
package diag

import (
	"io"
	"sync"

	log "github.com/sirupsen/logrus"
)

const (
	FATAL_PREFIX = "ERROR PANIC :"
	DEBUG_PREFIX = "DEBUG: "
	LINE_END     = "\r\n"

	HALT_EXIT_CODE = 70
)

// Reporter is either NORMAL, where every call returns, or HALTED after a call
// to Fatal. HALTED is terminal.
type Reporter struct {
	out    io.Writer
	lock   sync.Mutex
	halted bool
	halt   func()
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{
		out:  out,
		halt: defaultHalt,
	}
}

// defaultHalt runs the logrus exit handlers (the bot registers one that
// releases the board) and ends the process.
func defaultHalt() {
	log.Exit(HALT_EXIT_CODE)
}

// SetHalt replaces the action taken once Fatal has written its message.
func (r *Reporter) SetHalt(halt func()) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.halt = halt
}

// Fatal reports an unrecoverable condition and never returns. If the halt
// action returns, the calling goroutine blocks forever.
func (r *Reporter) Fatal(message string) {
	r.lock.Lock()
	r.write(FATAL_PREFIX + message)
	r.halted = true
	halt := r.halt
	r.lock.Unlock()

	log.WithField("message", message).Error("halting after fatal report")

	if halt != nil {
		halt()
	}
	select {}
}

func (r *Reporter) Debug(message string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.write(DEBUG_PREFIX + message)
}

// Println writes message as a bare line.
func (r *Reporter) Println(message string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.write(message)
}

func (r *Reporter) Halted() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.halted
}

func (r *Reporter) write(line string) {
	if _, err := io.WriteString(r.out, line+LINE_END); err != nil {
		log.WithError(err).Warn("diagnostic write failed")
	}
}
