// Package logging provides the debug logger used by the engine and by test bodies. Output
// written while a unit runs is captured and attached to that unit's result.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const timestampFormat = "15:04:05.000"

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (nullLogger) Printf(string, ...interface{}) {}

// NullLogger returns a Logger that discards everything.
func NullLogger() Logger { return nullLogger{} }

// Entry is one line of captured unit output.
type Entry struct {
	Time    time.Time
	Elapsed time.Duration // since the capture started
	Message string
}

// Entries is the captured output of one unit, oldest first.
type Entries []Entry

// UnitCapture records the debug output of a single unit. It is safe for concurrent use,
// since hooks and the test body may log at the same time in concurrent launch mode.
type UnitCapture struct {
	mu      sync.Mutex
	started time.Time
	entries Entries
}

// NewUnitCapture starts a capture; entry offsets are measured from now.
func NewUnitCapture() *UnitCapture {
	return &UnitCapture{started: time.Now()}
}

// Printf records one formatted message. Trailing newlines are dropped.
func (c *UnitCapture) Printf(message string, args ...interface{}) {
	now := time.Now()
	text := strings.TrimRight(fmt.Sprintf(message, args...), "\r\n")

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started.IsZero() {
		c.started = now
	}
	c.entries = append(c.entries, Entry{Time: now, Elapsed: now.Sub(c.started), Message: text})
}

// Entries returns a copy of everything recorded so far.
func (c *UnitCapture) Entries() Entries {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(Entries(nil), c.entries...)
}

// Dump writes one line per entry: prefix, wall clock, offset into the unit, message.
func (e Entries) Dump(dest io.Writer, prefix string) {
	for _, entry := range e {
		fmt.Fprintf(dest, "%s[%s +%s] %s\n",
			prefix,
			entry.Time.Format(timestampFormat),
			entry.Elapsed.Round(time.Millisecond),
			entry.Message,
		)
	}
}

// String renders the entries as Dump does, without a prefix. Empty output renders as "".
func (e Entries) String() string {
	var b strings.Builder
	e.Dump(&b, "")
	return b.String()
}

// Tee forwards every message to all of the given loggers.
func Tee(loggers ...Logger) Logger {
	return teeLogger(loggers)
}

type teeLogger []Logger

func (t teeLogger) Printf(message string, args ...interface{}) {
	for _, l := range t {
		l.Printf(message, args...)
	}
}
