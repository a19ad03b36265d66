//go:build !windows && !plan9

package daemon

import "syscall"

// detachedProcessAttributes puts the re-exec'd daemon in its own session so
// it survives the launching terminal closing.
var detachedProcessAttributes = &syscall.SysProcAttr{
	Setsid: true,
}
