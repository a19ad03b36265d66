// Package kqueue implements the supervision loop's event multiplexer: a
// single wait primitive that fans in file-change notifications, a debounce
// timer, and child-exit notifications. None of this talks to an actual BSD
// kqueue directly — the package is named for the role it plays, not the
// syscall it wraps — but on BSD and Darwin its backing library, notify,
// really does sit on top of EVFILT_VNODE, so the vocabulary this package
// exposes is native there rather than an approximation (see translate_bsd.go
// and translate_linux.go for the per-platform event mapping).
package kqueue

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rjeczalik/notify"

	"github.com/filewatcherd/filewatcherd/internal/watchtab"
)

// Kind discriminates the three classes of event the queue multiplexes: file
// changes, the reload debounce timer, and process exits.
type Kind int

const (
	// KindConfigChanged is delivered when the watchtab file itself fires.
	KindConfigChanged Kind = iota
	// KindFileFired is delivered when an armed entry fires.
	KindFileFired
	// KindDebounceExpired is delivered when the reload debounce timer fires.
	KindDebounceExpired
	// KindProcessExited is delivered when a spawned child terminates.
	KindProcessExited
)

// Event is a single item popped from the queue.
type Event struct {
	Kind Kind

	// Entries holds the watch entries that fired, for KindFileFired. It is
	// always a single entry under the current one-channel-per-entry design,
	// but is kept as a slice since that's the shape the dispatch loop wants.
	Entries []*watchtab.Entry

	// Entry holds the entry whose child exited, for KindProcessExited.
	Entry *watchtab.Entry
	// ProcessState is the terminated child's exit state, for
	// KindProcessExited. It may be nil if the child could never be started.
	ProcessState *os.ProcessState
	// ProcessError is the error (if any) returned by the child's Wait call.
	ProcessError error
}

// procResult is what the per-child goroutine started by WatchProcess sends
// back once the child it's waiting on terminates.
type procResult struct {
	entry *watchtab.Entry
	state *os.ProcessState
	err   error
}

// fileResult is what a per-registration forwarding goroutine sends once its
// channel delivers (or is torn down by) notify. entry is nil for the
// watchtab file's own registration.
type fileResult struct {
	entry *watchtab.Entry
}

// Queue is the supervision loop's event multiplexer. Unlike a shared-watcher
// design, it holds no refcounted path table: every armed entry gets its own
// dedicated notify.EventInfo channel and forwarding goroutine, since
// notify.Stop(ch) tears down every watch registered against ch, not just one
// path, which would make a shared channel unsafe to reuse across one-shot
// entries that arm and disarm independently. Next is the sole suspension
// point; every other method here is expected to return immediately.
//
// Queue is not safe for concurrent use — it is meant to be driven by one
// goroutine, the supervision loop's.
type Queue struct {
	// configCh is the watchtab file's own notification channel while it is
	// armed, or nil when it is not (e.g. between being closed on change and
	// the next successful reopen).
	configCh chan notify.EventInfo

	timer  *time.Timer
	timerC <-chan time.Time

	fileResults chan fileResult
	procResults chan procResult
}

// New creates an empty Queue with no paths armed.
func New() (*Queue, error) {
	return &Queue{
		fileResults: make(chan fileResult, 256),
		procResults: make(chan procResult, 256),
	}, nil
}

// Close stops any pending debounce timer and, if still armed, unwatches the
// watchtab file itself. It does not release armed entries or wait for
// in-flight children; the daemon never awaits in-flight children on
// shutdown.
func (q *Queue) Close() error {
	q.StopDebounce()
	return q.UnwatchConfig()
}

// WatchConfig arms the watchtab file itself, tagging it as the sentinel
// registration. It watches the same event vocabulary an entry armed with
// '*' would, since a reload needs to notice every way the file can change,
// not just writes.
func (q *Queue) WatchConfig(path string) error {
	const allEvents = watchtab.EventDelete | watchtab.EventWrite | watchtab.EventExtend |
		watchtab.EventAttrib | watchtab.EventLink | watchtab.EventRename | watchtab.EventRevoke

	ch := make(chan notify.EventInfo, 1)
	if err := notify.Watch(path, ch, notifyEvents(allEvents)...); err != nil {
		return err
	}
	q.configCh = ch

	go func() {
		if _, ok := <-ch; ok {
			q.fileResults <- fileResult{entry: nil}
		}
	}()
	return nil
}

// UnwatchConfig disarms the watchtab file, e.g. just before closing it to
// begin a reload. It's a no-op if the config isn't currently armed.
func (q *Queue) UnwatchConfig() error {
	if q.configCh == nil {
		return nil
	}
	ch := q.configCh
	q.configCh = nil
	notify.Stop(ch)
	close(ch)
	return nil
}

// registration is the concrete Registration handle an armed Entry holds.
// Closing it stops notify's watch on the entry's dedicated channel and
// closes the channel, releasing the forwarding goroutine blocked on it.
type registration struct {
	ch chan notify.EventInfo
}

// Close implements watchtab.Registration.
func (r *registration) Close() error {
	notify.Stop(r.ch)
	close(r.ch)
	return nil
}

// Arm opens a dedicated watch on entry's path for entry's event set and
// installs a Registration on it. On failure the entry is left unarmed and
// the caller should log and move on rather than propagate the error.
func (q *Queue) Arm(entry *watchtab.Entry) error {
	if entry.Armed() {
		return fmt.Errorf("entry %s is already armed", entry.Path)
	}

	events := notifyEvents(entry.Events)
	ch := make(chan notify.EventInfo, 1)
	if err := notify.Watch(entry.Path, ch, events...); err != nil {
		return err
	}
	entry.SetRegistration(&registration{ch: ch})

	go func() {
		if _, ok := <-ch; ok {
			q.fileResults <- fileResult{entry: entry}
		}
	}()
	return nil
}

// StartDebounce arms the reload debounce timer.
func (q *Queue) StartDebounce(delay time.Duration) {
	q.StopDebounce()
	q.timer = time.NewTimer(delay)
	q.timerC = q.timer.C
}

// StopDebounce cancels any pending debounce timer. It's a no-op if none is
// armed.
func (q *Queue) StopDebounce() {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
		q.timerC = nil
	}
}

// WatchProcess registers interest in cmd's termination, delivering a
// KindProcessExited event carrying entry once the child exits. A goroutine
// performs the (necessarily blocking) wait and funnels the result back
// through the same multiplexed channel everything else uses.
func (q *Queue) WatchProcess(entry *watchtab.Entry, cmd *exec.Cmd) {
	go func() {
		err := cmd.Wait()
		q.procResults <- procResult{entry: entry, state: cmd.ProcessState, err: err}
	}()
}

// Next blocks until the next event is available, yielding exactly one event
// at a time. Because each registration carries its own dedicated channel and
// is watched for exactly the events its entry cares about, there is no
// runtime filtering step here — everything that arrives on fileResults is
// already dispatchable by construction.
func (q *Queue) Next() (Event, error) {
	select {
	case result, ok := <-q.fileResults:
		if !ok {
			return Event{}, fmt.Errorf("file watch results channel closed")
		}
		if result.entry == nil {
			return Event{Kind: KindConfigChanged}, nil
		}
		result.entry.Release()
		return Event{Kind: KindFileFired, Entries: []*watchtab.Entry{result.entry}}, nil

	case <-q.timerC:
		q.timer = nil
		q.timerC = nil
		return Event{Kind: KindDebounceExpired}, nil

	case result := <-q.procResults:
		return Event{Kind: KindProcessExited, Entry: result.entry, ProcessState: result.state, ProcessError: result.err}, nil
	}
}
