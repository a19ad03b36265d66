package logging

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"log"

	"github.com/fatih/color"
)

// lineWriter adapts a line-oriented logging callback to io.Writer, buffering
// any partial line fragment across writes so emit only ever sees whole,
// newline-terminated input.
type lineWriter struct {
	emit    func(string)
	pending []byte
}

// Write implements io.Writer.
func (w *lineWriter) Write(chunk []byte) (int, error) {
	w.pending = append(w.pending, chunk...)

	for {
		before, after, found := bytes.Cut(w.pending, []byte{'\n'})
		if !found {
			break
		}
		w.emit(string(bytes.TrimSuffix(before, []byte{'\r'})))
		w.pending = after
	}

	return len(chunk), nil
}

// Logger is the daemon's diagnostic sink. It has the novel property that it
// still functions if nil, but it doesn't log anything — this lets callers
// pass a possibly-absent logger down a call chain without guarding every
// call site. Every leveled method is gated by the package-wide threshold set
// via SetLevel; Print/Printf bypass that gate since they carry no semantic
// level of their own.
type Logger struct {
	// prefix is any prefix specified for the logger.
	prefix string
}

// RootLogger is the root logger from which all other loggers derive.
var RootLogger = &Logger{}

// Sublogger creates a new sublogger with the specified name.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}

	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}

	return &Logger{prefix: prefix}
}

// output writes line through the standard logger, tagging it with l's
// prefix if it has one. It never checks the verbosity threshold; callers
// that need gating go through emit instead.
func (l *Logger) output(calldepth int, line string) {
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	log.Output(calldepth, line)
}

// emit is output's leveled counterpart: it's a no-op unless level clears the
// package-wide threshold.
func (l *Logger) emit(level Level, calldepth int, line string) {
	if !enabled(level) {
		return
	}
	l.output(calldepth, line)
}

// Print logs information with semantics equivalent to fmt.Print. It carries
// no level and is never suppressed by SetLevel.
func (l *Logger) Print(v ...interface{}) {
	if l != nil {
		l.output(3, fmt.Sprint(v...))
	}
}

// Printf logs information with semantics equivalent to fmt.Printf. It
// carries no level and is never suppressed by SetLevel.
func (l *Logger) Printf(format string, v ...interface{}) {
	if l != nil {
		l.output(3, fmt.Sprintf(format, v...))
	}
}

// Notice logs a milestone event, e.g. "watchtab loaded" or "reload applied".
func (l *Logger) Notice(v ...interface{}) {
	if l != nil {
		l.emit(LevelNotice, 3, fmt.Sprint(v...))
	}
}

// Noticef is Notice with fmt.Printf semantics.
func (l *Logger) Noticef(format string, v ...interface{}) {
	if l != nil {
		l.emit(LevelNotice, 3, fmt.Sprintf(format, v...))
	}
}

// Info logs per-event information, e.g. "entry armed" or "command started".
func (l *Logger) Info(v ...interface{}) {
	if l != nil {
		l.emit(LevelInfo, 3, fmt.Sprint(v...))
	}
}

// Infof is Info with fmt.Printf semantics.
func (l *Logger) Infof(format string, v ...interface{}) {
	if l != nil {
		l.emit(LevelInfo, 3, fmt.Sprintf(format, v...))
	}
}

// Debug logs advanced execution information, gated behind LevelDebug.
func (l *Logger) Debug(v ...interface{}) {
	if l != nil {
		l.emit(LevelDebug, 3, fmt.Sprint(v...))
	}
}

// Debugf is Debug with fmt.Printf semantics.
func (l *Logger) Debugf(format string, v ...interface{}) {
	if l != nil {
		l.emit(LevelDebug, 3, fmt.Sprintf(format, v...))
	}
}

// Warn logs error information with a warning prefix and yellow color. It's
// gated at LevelError alongside Error, since the level vocabulary has no
// separate tier between "notice" and "fatal error" to place it in.
func (l *Logger) Warn(err error) {
	if l != nil {
		l.emit(LevelError, 3, color.YellowString("Warning: %v", err))
	}
}

// Warnf is Warn with fmt.Printf semantics for the message portion.
func (l *Logger) Warnf(format string, v ...interface{}) {
	if l != nil {
		l.emit(LevelError, 3, color.YellowString("Warning: "+format, v...))
	}
}

// Error logs error information with an error prefix and red color.
func (l *Logger) Error(err error) {
	if l != nil {
		l.emit(LevelError, 3, color.RedString("Error: %v", err))
	}
}

// Errorf is Error with fmt.Printf semantics for the message portion.
func (l *Logger) Errorf(format string, v ...interface{}) {
	if l != nil {
		l.emit(LevelError, 3, color.RedString("Error: "+format, v...))
	}
}

// Writer returns an io.Writer that writes each line it receives at level,
// respecting the same threshold gate as the corresponding leveled method.
func (l *Logger) Writer(level Level) io.Writer {
	if l == nil {
		return ioutil.Discard
	}
	return &lineWriter{emit: func(s string) { l.emit(level, 4, s) }}
}
