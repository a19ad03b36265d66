package runner

import "errors"

// requireRootForChroot always fails on Windows: there is no chroot(2)
// equivalent, so any entry requesting one is rejected rather than silently
// ignored.
func requireRootForChroot() error {
	return errors.New("chroot is not supported on this platform")
}
