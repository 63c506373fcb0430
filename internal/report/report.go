// Package report delivers data-quality messages to the user. These messages
// are program output, not operational logs: they carry DATA-ERROR,
// DATA-WARNING, and DATA-INFO tags and are gated by a severity limit chosen
// on the command line.
package report

import (
	"fmt"
	"io"
	"strings"
)

// Level is the upper severity limit of what gets reported.
type Level int

const (
	// Silent suppresses all data-quality messages.
	Silent Level = iota
	// Error reports only DATA-ERROR messages.
	Error
	// Warning reports DATA-ERROR and DATA-WARNING messages.
	Warning
	// Info reports everything.
	Info
)

// LevelFromString parses a level name as accepted by the --info-level flag.
func LevelFromString(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "silent":
		return Silent, nil
	case "error":
		return Error, nil
	case "warning":
		return Warning, nil
	case "info":
		return Info, nil
	}
	return Silent, fmt.Errorf("unknown info level %q: must be 'silent', 'error', 'warning', or 'info'", s)
}

func (l Level) String() string {
	switch l {
	case Silent:
		return "silent"
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Reporter writes tagged data-quality messages to a single output stream.
type Reporter struct {
	w     io.Writer
	level Level
}

// New creates a Reporter writing to w, reporting messages up to level.
func New(w io.Writer, level Level) *Reporter {
	return &Reporter{w: w, level: level}
}

// Errorf reports a recoverable data error, such as a duplicate entry in a
// topic list that gets deduplicated.
func (r *Reporter) Errorf(format string, args ...any) {
	r.emit(Error, "DATA-ERROR", format, args...)
}

// Warningf reports a suspicious but tolerated condition, such as a topic
// taught twice or never used.
func (r *Reporter) Warningf(format string, args ...any) {
	r.emit(Warning, "DATA-WARNING", format, args...)
}

// Infof reports a silent correction, such as a redundant set member removed
// during simplification.
func (r *Reporter) Infof(format string, args ...any) {
	r.emit(Info, "DATA-INFO", format, args...)
}

func (r *Reporter) emit(level Level, tag, format string, args ...any) {
	if r == nil || r.w == nil || r.level < level {
		return
	}
	fmt.Fprintf(r.w, "%s: %s\n", tag, fmt.Sprintf(format, args...))
}
