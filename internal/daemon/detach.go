package daemon

import (
	"fmt"
	"os"
	"os/exec"
)

// sentinelEnv marks a re-exec'd process as already detached, so Detach
// doesn't fork a second time when the daemon re-execs itself.
const sentinelEnv = "FILEWATCHERD_DETACHED=1"

// Detach re-executes the current process in the background, in a new
// session (so it survives the controlling terminal closing), and reports
// whether the caller is the original foreground process (in which case it
// should simply exit) or the detached child (in which case it should
// proceed to run the daemon). It backs the "daemonize" half of
// -d/--foreground: re-exec into a detached child rather than the
// fork-without-exec a non-Go process could use directly.
func Detach() (detached bool, err error) {
	for _, env := range os.Environ() {
		if env == sentinelEnv {
			return true, nil
		}
	}

	executable, err := os.Executable()
	if err != nil {
		return false, fmt.Errorf("unable to determine executable path: %w", err)
	}

	child := &exec.Cmd{
		Path:        executable,
		Args:        os.Args,
		Env:         append(os.Environ(), sentinelEnv),
		SysProcAttr: detachedProcessAttributes,
	}
	if err := child.Start(); err != nil {
		return false, fmt.Errorf("unable to start background process: %w", err)
	}

	return false, nil
}
