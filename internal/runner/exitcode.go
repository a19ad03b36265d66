//go:build !plan9

package runner

import (
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// ExitCodeForProcessState extracts a process' exit code from its post-exit
// state. The supervision loop uses this only for diagnostics; the exit
// status never affects dispatch decisions.
func ExitCodeForProcessState(state *os.ProcessState) (int, error) {
	waitStatus, ok := state.Sys().(syscall.WaitStatus)
	if !ok {
		return 0, errors.New("unable to access wait status")
	}
	return waitStatus.ExitStatus(), nil
}
