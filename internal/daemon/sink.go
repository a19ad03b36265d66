// Package daemon implements the daemon-lifecycle concerns: selecting the
// diagnostic sink (standard error in foreground mode, the system log
// otherwise) and detaching from the controlling terminal when not running
// in foreground mode.
package daemon

import (
	"fmt"
	"io"
	"log/syslog"
)

// OpenSink opens the diagnostic sink the daemon's logger should write to.
// In foreground mode that's simply w (the caller passes os.Stderr); in
// daemon mode it's a connection to the local syslog daemon, the idiomatic
// standard-library choice for a background process with no terminal.
//
// The returned writer's Close should be deferred by the caller; for the
// foreground case Close is a no-op.
func OpenSink(foreground bool, w io.Writer) (io.WriteCloser, error) {
	if foreground {
		return nopCloser{w}, nil
	}

	sink, err := syslog.New(syslog.LOG_DAEMON|syslog.LOG_NOTICE, "filewatcherd")
	if err != nil {
		return nil, fmt.Errorf("unable to connect to system log: %w", err)
	}
	return sink, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
