// Package watchtab implements the watchtab configuration format: parsing,
// the in-memory Table of watch entries it produces, and the per-entry
// environment derivation rules.
package watchtab

import "time"

// Registration is a handle representing an entry's current arm against the
// event multiplexer. Closing it both stops the watch and releases whatever
// resource backs it (a notify watch and its dedicated channel, in the
// concrete implementation in internal/kqueue). An Entry owns its Registration
// exclusively while armed; there is no locking, since only the supervision
// loop's single goroutine ever touches it.
type Registration interface {
	Close() error
}

// Entry is a single watchtab record: one path, one event set, one command.
// It is the unit of supervision — at any moment exactly one of "armed",
// "child running", or "awaiting re-arm after reload" holds for a given
// Entry.
type Entry struct {
	// Path is the filesystem path to watch. Unescaped, non-empty.
	Path string
	// Events is the set of vnode-style events that arm this entry.
	Events EventSet
	// Delay is how long the spawned command sleeps before exec'ing.
	Delay time.Duration
	// UID is the numeric user id to run the command as; 0 means "inherit".
	UID uint32
	// GID is the numeric group id to run the command as; 0 means "inherit".
	GID uint32
	// Chroot is an optional path the child changes root to before dropping
	// identity. Empty means no chroot.
	Chroot string
	// Command is the shell command line to execute.
	Command string
	// Env is the entry's derived envp: an ordered "NAME=VALUE" slice that at
	// minimum contains SHELL, PATH, LOGNAME, USER, HOME, and TRIGGER.
	Env []string

	// SourceLine is the 1-based line number the entry was parsed from, kept
	// for diagnostics only.
	SourceLine int

	// registration is non-nil exactly when the entry is armed against the
	// event multiplexer.
	registration Registration
}

// Armed reports whether the entry currently holds a live registration.
func (e *Entry) Armed() bool {
	return e.registration != nil
}

// Registration returns the entry's current registration, or nil if unarmed.
func (e *Entry) Registration() Registration {
	return e.registration
}

// SetRegistration installs a new registration. The caller must not call this
// on an already-armed entry without releasing the prior registration first;
// doing so would leak it.
func (e *Entry) SetRegistration(r Registration) {
	e.registration = r
}

// Release closes the entry's registration, if any, and clears it, returning
// the entry to the unarmed state.
func (e *Entry) Release() error {
	if e.registration == nil {
		return nil
	}
	r := e.registration
	e.registration = nil
	return r.Close()
}

// Table is an ordered collection of watch entries. Observable ordering is
// irrelevant to correctness; the parser appends entries in file order.
type Table []*Entry

// Release releases every armed entry in the table, closing every
// outstanding registration. This is what gives watchtab reload its atomic
// replace-whole semantics: the old Table is released in one call, which
// closes every registration it owned.
func (t Table) Release() {
	for _, entry := range t {
		entry.Release()
	}
}
