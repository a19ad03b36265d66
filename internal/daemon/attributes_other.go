//go:build windows || plan9

package daemon

import "syscall"

// detachedProcessAttributes has no session-detaching equivalent on these
// platforms; the re-exec'd process simply runs without one.
var detachedProcessAttributes = &syscall.SysProcAttr{}
