//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package kqueue

import (
	"github.com/rjeczalik/notify"

	"github.com/filewatcherd/filewatcherd/internal/watchtab"
)

// notifyEvents maps a watchtab EventSet onto the kqueue-native EVFILT_VNODE
// flags notify exposes on BSD and Darwin (notify.NoteDelete and friends).
// This is a lossless, one-to-one mapping: every event this package's grammar
// names has a literal NOTE_* counterpart here, so there is no folding or
// approximation to document on this platform.
func notifyEvents(events watchtab.EventSet) []notify.Event {
	var result []notify.Event
	if events.Intersects(watchtab.EventDelete) {
		result = append(result, notify.NoteDelete)
	}
	if events.Intersects(watchtab.EventWrite) {
		result = append(result, notify.NoteWrite)
	}
	if events.Intersects(watchtab.EventExtend) {
		result = append(result, notify.NoteExtend)
	}
	if events.Intersects(watchtab.EventAttrib) {
		result = append(result, notify.NoteAttrib)
	}
	if events.Intersects(watchtab.EventLink) {
		result = append(result, notify.NoteLink)
	}
	if events.Intersects(watchtab.EventRename) {
		result = append(result, notify.NoteRename)
	}
	if events.Intersects(watchtab.EventRevoke) {
		result = append(result, notify.NoteRevoke)
	}
	return result
}
