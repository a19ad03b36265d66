//go:build !windows && !plan9

package runner

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// requireRootForChroot rejects a chroot'd entry up front rather than
// letting a non-privileged daemon discover the failure only when a child's
// chroot(2) call returns EPERM: the engine checks the daemon's effective uid
// before spawning and refuses if it isn't root.
func requireRootForChroot() error {
	if unix.Geteuid() != 0 {
		return fmt.Errorf("effective uid is %d, not 0", unix.Geteuid())
	}
	return nil
}
