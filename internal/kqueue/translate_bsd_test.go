//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package kqueue

import (
	"testing"

	"github.com/rjeczalik/notify"

	"github.com/filewatcherd/filewatcherd/internal/watchtab"
)

func TestNotifyEventsLosslessPerBit(t *testing.T) {
	cases := []struct {
		bit  watchtab.EventSet
		want notify.Event
	}{
		{watchtab.EventDelete, notify.NoteDelete},
		{watchtab.EventWrite, notify.NoteWrite},
		{watchtab.EventExtend, notify.NoteExtend},
		{watchtab.EventAttrib, notify.NoteAttrib},
		{watchtab.EventLink, notify.NoteLink},
		{watchtab.EventRename, notify.NoteRename},
		{watchtab.EventRevoke, notify.NoteRevoke},
	}

	for _, c := range cases {
		got := notifyEvents(c.bit)
		if len(got) != 1 || got[0] != c.want {
			t.Errorf("notifyEvents(%v) = %v, want [%v]", c.bit, got, c.want)
		}
	}
}

func TestNotifyEventsCombinedIsUnion(t *testing.T) {
	got := notifyEvents(watchtab.EventWrite | watchtab.EventDelete)
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
}
