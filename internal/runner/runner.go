package runner

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/filewatcherd/filewatcherd/internal/logging"
	"github.com/filewatcherd/filewatcherd/internal/watchtab"
)

// defaultShell is used when an entry's environment carries no SHELL
// variable.
const defaultShell = "/bin/sh"

// Runner is the execution engine. It holds no mutable state beyond a
// logger; every Spawn call is independent and synchronous on the parent
// side, with no side effects beyond the child it creates.
type Runner struct {
	logger *logging.Logger
}

// New creates an execution engine that reports failures through logger.
func New(logger *logging.Logger) *Runner {
	return &Runner{logger: logger}
}

// shellFor resolves the SHELL an entry's command should run under, scanning
// its derived envp for a "SHELL=" entry and falling back to /bin/sh.
func shellFor(entry *watchtab.Entry) string {
	for _, kv := range entry.Env {
		if strings.HasPrefix(kv, "SHELL=") {
			if shell := kv[len("SHELL="):]; shell != "" {
				return shell
			}
		}
	}
	return defaultShell
}

// commandLine builds the exact text handed to "SHELL -c". When a delay is
// configured it's folded into the command line as a leading shell-level
// sleep rather than a blocking call in the daemon itself — the event loop's
// only suspension point is the event multiplexer, never a spawn call, and a
// sleep() performed between fork and exec in a Go process is unsafe because
// the forked child shares only the calling OS thread of a multi-threaded
// runtime. Wrapping the delay in the child's own shell avoids both problems
// while still exiting non-zero on a failing command.
func commandLine(entry *watchtab.Entry) string {
	if entry.Delay <= 0 {
		return entry.Command
	}
	seconds := entry.Delay.Seconds()
	return fmt.Sprintf("sleep %s && %s", strconv.FormatFloat(seconds, 'f', 9, 64), entry.Command)
}

// Spawn starts the command associated with entry. It returns the started
// command (which the caller must arrange to Wait() on, typically via a
// goroutine feeding a ProcessEvent back into the supervision loop) and true
// on success. On failure it logs a diagnostic and returns (nil, false); the
// caller leaves the entry unarmed until the next reload rather than
// retrying immediately.
func (r *Runner) Spawn(entry *watchtab.Entry) (*exec.Cmd, bool) {
	if entry.Chroot != "" {
		if err := requireRootForChroot(); err != nil {
			r.logger.Errorf("entry %s requests chroot %q but daemon is not running as root: %v",
				entry.Path, entry.Chroot, err)
			return nil, false
		}
	}

	shell := shellFor(entry)
	cmd := exec.Command(shell, "-c", commandLine(entry))
	cmd.Env = entry.Env
	cmd.SysProcAttr = processAttributes(entry)

	if err := cmd.Start(); err != nil {
		r.logger.Errorf("unable to start command for %s: %v", entry.Path, err)
		return nil, false
	}

	return cmd, true
}
