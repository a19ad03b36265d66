//go:build linux

package kqueue

import (
	"github.com/rjeczalik/notify"

	"github.com/filewatcherd/filewatcherd/internal/watchtab"
)

// notifyEvents maps a watchtab EventSet onto notify's inotify-native
// constants. inotify's vocabulary is coarser than kqueue's EVFILT_VNODE
// flags, so two folds are necessary here (documented rather than silently
// dropped, per the package's general approach to platform gaps):
//
//   - Extend has no separate inotify flag from a plain write, since inotify
//     reports growth and in-place modification identically; both are armed
//     as IN_MODIFY.
//   - Revoke (the kqueue notion of "access to this vnode was revoked," e.g.
//     an unmount) has no inotify equivalent at all — inotify's own unmount
//     signal, IN_UNMOUNT, is delivered automatically regardless of the mask
//     requested and isn't one of notify's exposed request flags. Revoke is
//     folded into IN_DELETE_SELF, the closest observable proxy: both mean
//     "the watched path is no longer reachable the way it was."
//
// Attrib and Link both map to IN_ATTRIB: inotify documents link-count
// changes as attribute-metadata changes, so a watch for either already
// receives both without any additional folding.
func notifyEvents(events watchtab.EventSet) []notify.Event {
	var result []notify.Event
	if events.Intersects(watchtab.EventWrite | watchtab.EventExtend) {
		result = append(result, notify.InModify)
	}
	if events.Intersects(watchtab.EventAttrib | watchtab.EventLink) {
		result = append(result, notify.InAttrib)
	}
	if events.Intersects(watchtab.EventRename) {
		result = append(result, notify.InMoveSelf)
	}
	if events.Intersects(watchtab.EventDelete | watchtab.EventRevoke) {
		result = append(result, notify.InDeleteSelf)
	}
	return result
}
