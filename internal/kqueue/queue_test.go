package kqueue

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/filewatcherd/filewatcherd/internal/watchtab"
)

func TestArmDisarmIndependentPerEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	q, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer q.Close()

	a := &watchtab.Entry{Path: path, Events: watchtab.EventWrite}
	b := &watchtab.Entry{Path: path, Events: watchtab.EventWrite}

	if err := q.Arm(a); err != nil {
		t.Fatal(err)
	}
	if err := q.Arm(b); err != nil {
		t.Fatal(err)
	}
	if !a.Armed() || !b.Armed() {
		t.Fatal("expected both entries to be armed after sharing a watched path")
	}

	if err := a.Release(); err != nil {
		t.Fatal(err)
	}
	if a.Armed() {
		t.Error("expected a to be disarmed after Release")
	}
	if !b.Armed() {
		t.Error("expected b to remain armed after a's independent registration was released")
	}

	if err := b.Release(); err != nil {
		t.Fatal(err)
	}
	if b.Armed() {
		t.Error("expected b to be disarmed after Release")
	}
}

func TestNextDeliversFileFiredOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	q, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer q.Close()

	entry := &watchtab.Entry{Path: path, Events: watchtab.EventWrite}
	if err := q.Arm(entry); err != nil {
		t.Fatal(err)
	}

	done := make(chan Event, 1)
	errs := make(chan error, 1)
	go func() {
		event, err := q.Next()
		if err != nil {
			errs <- err
			return
		}
		done <- event
	}()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("y"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case event := <-done:
		if event.Kind != KindFileFired {
			t.Fatalf("got kind %v, want KindFileFired", event.Kind)
		}
		if len(event.Entries) != 1 || event.Entries[0] != entry {
			t.Fatalf("got entries %v, want [entry]", event.Entries)
		}
		if entry.Armed() {
			t.Error("expected entry to be disarmed after firing")
		}
	case err := <-errs:
		t.Fatal(err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for file event")
	}
}

func TestWatchProcessDeliversExit(t *testing.T) {
	q, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer q.Close()

	entry := &watchtab.Entry{Path: "/tmp/doesnotmatter"}
	cmd := exec.Command("true")
	if err := cmd.Start(); err != nil {
		t.Skipf("unable to start test process: %v", err)
	}
	q.WatchProcess(entry, cmd)

	event, err := q.Next()
	if err != nil {
		t.Fatal(err)
	}
	if event.Kind != KindProcessExited {
		t.Fatalf("got kind %v, want KindProcessExited", event.Kind)
	}
	if event.Entry != entry {
		t.Error("got a different entry back than the one watched")
	}
}

func TestDebounceTimerFires(t *testing.T) {
	q, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer q.Close()

	q.StartDebounce(10 * time.Millisecond)
	event, err := q.Next()
	if err != nil {
		t.Fatal(err)
	}
	if event.Kind != KindDebounceExpired {
		t.Fatalf("got kind %v, want KindDebounceExpired", event.Kind)
	}
}

func TestStopDebounceCancelsTimer(t *testing.T) {
	q, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer q.Close()

	q.StartDebounce(20 * time.Millisecond)
	q.StopDebounce()

	if q.timer != nil || q.timerC != nil {
		t.Error("expected debounce timer to be cleared")
	}
}

func TestConfigChangeDiscriminatedFromEntry(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "watchtab")
	entryPath := filepath.Join(dir, "entry")
	for _, path := range []string{configPath, entryPath} {
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	q, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer q.Close()

	if err := q.WatchConfig(configPath); err != nil {
		t.Fatal(err)
	}
	entry := &watchtab.Entry{Path: entryPath, Events: watchtab.EventWrite}
	if err := q.Arm(entry); err != nil {
		t.Fatal(err)
	}

	done := make(chan Event, 1)
	go func() {
		event, err := q.Next()
		if err == nil {
			done <- event
		}
	}()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(configPath, []byte("y"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case event := <-done:
		if event.Kind != KindConfigChanged {
			t.Fatalf("got kind %v, want KindConfigChanged", event.Kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config-change event")
	}
}
