package runner

import (
	"syscall"

	"github.com/filewatcherd/filewatcherd/internal/watchtab"
)

// processAttributes returns an empty SysProcAttr on Windows. Chroot and
// POSIX uid/gid identity drop have no Windows equivalent in os/exec. An
// entry that requests a chroot is rejected earlier, in Spawn; an entry's
// UID and GID are not applied here.
func processAttributes(entry *watchtab.Entry) *syscall.SysProcAttr {
	return &syscall.SysProcAttr{}
}
