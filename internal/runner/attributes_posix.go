//go:build !windows && !plan9

// Package runner is the execution engine: given a fully-populated watchtab
// entry, it spawns the configured command under the right identity, chroot,
// and delay.
package runner

import (
	"os"
	"syscall"

	"github.com/filewatcherd/filewatcherd/internal/watchtab"
)

// processAttributes builds the SysProcAttr describing the identity and
// chroot the child should assume. os/exec and the runtime's clone/execve
// plumbing apply Chroot and Credential atomically before the new image is
// loaded, so there's no window where the child runs under the wrong
// identity.
//
// syscall.Credential sets both uid and gid together, but a zero uid or gid
// on a watch entry means "inherit from the daemon" independently per field.
// To preserve that independence we fill in the daemon's own id for whichever
// field is zero rather than omitting Credential entirely — the net effect
// on the child is identical to skipping the corresponding setuid/setgid
// call.
func processAttributes(entry *watchtab.Entry) *syscall.SysProcAttr {
	attr := &syscall.SysProcAttr{}

	if entry.Chroot != "" {
		attr.Chroot = entry.Chroot
	}

	if entry.UID != 0 || entry.GID != 0 {
		uid, gid := entry.UID, entry.GID
		if uid == 0 {
			uid = uint32(os.Getuid())
		}
		if gid == 0 {
			gid = uint32(os.Getgid())
		}
		attr.Credential = &syscall.Credential{Uid: uid, Gid: gid}
	}

	return attr
}
