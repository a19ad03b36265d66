package logging

import (
	"io"
	"log"
	"os"
	"sync/atomic"
)

func init() {
	// Set the global logger to use standard output by default. The daemon
	// swaps this for the sink internal/daemon opens (standard error in the
	// foreground, syslog once detached); see cmd/filewatcherd.
	log.SetOutput(os.Stdout)
	log.SetFlags(log.Ldate | log.Ltime)

	threshold.Store(int32(LevelInfo))
}

// SetSink redirects every Logger's output to w. Callers hold w open for the
// lifetime of the process; cmd/filewatcherd uses this to install the sink
// returned by internal/daemon's OpenSink (standard error or syslog).
func SetSink(w io.Writer) {
	log.SetOutput(w)
}

// threshold is the process-wide verbosity gate shared by every Logger:
// a leveled call (Error/Warn/Notice/Info/Debug) produces output only if its
// level is at or below threshold. It replaces a simpler "is debug on"
// boolean with the full Level hierarchy already declared in level.go, so
// LevelDisabled genuinely silences everything, not just Debug calls.
var threshold atomic.Int32

// SetLevel changes the process-wide verbosity threshold. The daemon's
// command line has no verbosity flag and does not call it, so the threshold
// stays at its LevelInfo default there. It's safe to call from any
// goroutine since every Logger reads it through the same atomic.
func SetLevel(level Level) {
	threshold.Store(int32(level))
}

// enabled reports whether a call at level should produce output given the
// current threshold.
func enabled(level Level) bool {
	return Level(threshold.Load()) >= level
}
