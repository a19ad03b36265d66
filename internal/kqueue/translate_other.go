//go:build !(darwin || dragonfly || freebsd || netbsd || openbsd || linux)

package kqueue

import (
	"github.com/rjeczalik/notify"

	"github.com/filewatcherd/filewatcherd/internal/watchtab"
)

// notifyEvents maps a watchtab EventSet onto notify's portable baseline
// events on platforms with neither a kqueue nor an inotify backend (e.g.
// Windows' ReadDirectoryChangesW backend). notify.All is the least common
// denominator across every backend it supports, so any requested event set
// is armed as notify.All and the watchtab's finer-grained vocabulary is not
// distinguishable here — an entry armed for "write" alone fires on the same
// underlying notification a "delete"-only entry would.
func notifyEvents(events watchtab.EventSet) []notify.Event {
	if events == 0 {
		return nil
	}
	return []notify.Event{notify.All}
}
