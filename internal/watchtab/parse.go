package watchtab

import (
	"bufio"
	"io"
	"os/user"
	"strconv"
	"strings"
	"time"

	"github.com/filewatcherd/filewatcherd/internal/logging"
)

// fieldBoundary returns the index of the first unescaped tab in line at or
// after start, or len(line) if there is none. A tab is "escaped" when the
// immediately preceding byte is a backslash — this lets a path or command
// field contain a literal tab character.
func fieldBoundary(line string, start int) int {
	i := start
	for i < len(line) {
		if line[i] == '\t' && (i == 0 || line[i-1] != '\\') {
			break
		}
		i++
	}
	return i
}

// skipTabs advances past a run of tab characters, merging them into a
// single field separator.
func skipTabs(line string, i int) int {
	for i < len(line) && line[i] == '\t' {
		i++
	}
	return i
}

// unescape removes backslash escapes from a path or command field: a lone
// backslash is dropped, and "\\" collapses to a single backslash. Any other
// byte (including an escaped tab) passes through unchanged.
func unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteByte(c)
	}
	return b.String()
}

// parseDelay parses the SECONDS[.FRACTION] delay grammar. An absent, empty,
// or "*" field means zero delay. The fractional part is right-padded to 9
// digits and interpreted as nanoseconds.
func parseDelay(field string) (time.Duration, bool) {
	if field == "" || field == "*" {
		return 0, true
	}

	whole := field
	frac := ""
	if idx := strings.IndexByte(field, '.'); idx >= 0 {
		whole = field[:idx]
		frac = field[idx+1:]
	}

	digits := func(s string) (int, bool) {
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		return i, i == len(s)
	}

	wn, wok := digits(whole)
	if !wok || wn == 0 {
		return 0, false
	}
	seconds, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, false
	}

	var nanos int64
	if frac != "" {
		fn, fok := digits(frac)
		if !fok || fn == 0 {
			return 0, false
		}
		padded := frac
		for len(padded) < 9 {
			padded += "0"
		}
		padded = padded[:9]
		nanos, err = strconv.ParseInt(padded, 10, 64)
		if err != nil {
			return 0, false
		}
	}

	return time.Duration(seconds)*time.Second + time.Duration(nanos), true
}

// resolvedIdentity is the outcome of resolving an entry's "user[:group]"
// field (or, absent that, the daemon's own login).
type resolvedIdentity struct {
	uid  uint32
	gid  uint32
	name string
	home string
}

// resolveUserGroup resolves a "user[:group]" field. An empty field falls
// back to the daemon's own current user, which must still resolve
// successfully because HOME must be derivable.
func resolveUserGroup(field string) (resolvedIdentity, bool) {
	if field == "" {
		u, err := user.Current()
		if err != nil {
			return resolvedIdentity{}, false
		}
		return identityFromUser(u)
	}

	login := field
	group := ""
	if idx := strings.IndexByte(field, ':'); idx >= 0 {
		login = field[:idx]
		group = field[idx+1:]
	}

	u, err := lookupUser(login)
	if err != nil {
		return resolvedIdentity{}, false
	}

	identity, ok := identityFromUser(u)
	if !ok {
		return resolvedIdentity{}, false
	}

	if group != "" {
		g, err := lookupGroup(group)
		if err != nil {
			return resolvedIdentity{}, false
		}
		gid, err := strconv.ParseUint(g.Gid, 10, 32)
		if err != nil {
			return resolvedIdentity{}, false
		}
		identity.gid = uint32(gid)
	}

	return identity, true
}

// isAllDigits reports whether s is non-empty and consists entirely of ASCII
// digits, the watchtab grammar's rule for distinguishing a numeric id from a
// login/group name.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func lookupUser(login string) (*user.User, error) {
	if isAllDigits(login) {
		return user.LookupId(login)
	}
	return user.Lookup(login)
}

func lookupGroup(group string) (*user.Group, error) {
	if isAllDigits(group) {
		return user.LookupGroupId(group)
	}
	return user.LookupGroup(group)
}

func identityFromUser(u *user.User) (resolvedIdentity, bool) {
	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return resolvedIdentity{}, false
	}
	gid, err := strconv.ParseUint(u.Gid, 10, 32)
	if err != nil {
		return resolvedIdentity{}, false
	}
	return resolvedIdentity{
		uid:  uint32(uid),
		gid:  uint32(gid),
		name: u.Username,
		home: u.HomeDir,
	}, true
}

// readLine parses a single already-trimmed, non-empty, non-comment entry
// line into a new Entry, deriving its environment from (and potentially
// extending) baseEnv. It returns false and logs a diagnostic if the line is
// malformed.
func readLine(line string, baseEnv *Env, filename string, lineNo int, logger *logging.Logger) (*Entry, bool) {
	// Locate field boundaries, merging tab runs.
	pathEnd := fieldBoundary(line, 1)
	i := skipTabs(line, pathEnd)

	eventsStart := i
	eventsEnd := fieldBoundary(line, i)
	i = skipTabs(line, eventsEnd)

	delayStart := i
	delayEnd := fieldBoundary(line, i)
	i = skipTabs(line, delayEnd)

	userStart := i
	userEnd := fieldBoundary(line, i)
	i = skipTabs(line, userEnd)

	chrootStart := i
	chrootEnd := fieldBoundary(line, i)
	i = skipTabs(line, chrootEnd)

	cmdStart := i
	cmdEnd := len(line)

	// Fewer than 3 fields is a parse error.
	if delayStart >= len(line) {
		logger.Errorf("%s:%d: entry line has fewer than 3 fields", filename, lineNo)
		return nil, false
	}

	// Re-derive field boundaries depending on how many fields are present,
	// shifting the command field left as trailing fields are found absent.
	switch {
	case userStart >= len(line):
		// 3 fields: path, events, command.
		cmdStart, cmdEnd = delayStart, delayEnd
		delayStart, delayEnd = 0, 0
		userStart, userEnd = 0, 0
		chrootStart, chrootEnd = 0, 0
	case chrootStart >= len(line):
		// 4 fields: path, events, delay, command.
		cmdStart, cmdEnd = userStart, userEnd
		userStart, userEnd = 0, 0
		chrootStart, chrootEnd = 0, 0
	case cmdStart >= len(line):
		// 5 fields: path, events, delay, user, command.
		cmdStart, cmdEnd = chrootStart, chrootEnd
		chrootStart, chrootEnd = 0, 0
	}

	events, ok := parseEvents(line[eventsStart:eventsEnd])
	if !ok {
		logger.Errorf("%s:%d: invalid event set %q", filename, lineNo, line[eventsStart:eventsEnd])
		return nil, false
	}

	delay, ok := parseDelay(line[delayStart:delayEnd])
	if !ok {
		logger.Errorf("%s:%d: invalid delay %q", filename, lineNo, line[delayStart:delayEnd])
		return nil, false
	}

	identity, ok := resolveUserGroup(line[userStart:userEnd])
	if !ok {
		logger.Errorf("%s:%d: unable to resolve user/group %q", filename, lineNo, line[userStart:userEnd])
		return nil, false
	}

	entry := &Entry{
		Path:       unescape(line[:pathEnd]),
		Events:     events,
		Delay:      delay,
		UID:        identity.uid,
		GID:        identity.gid,
		Command:    unescape(line[cmdStart:cmdEnd]),
		SourceLine: lineNo,
	}
	if chrootEnd > chrootStart {
		entry.Chroot = unescape(line[chrootStart:chrootEnd])
	}

	baseEnv.Set("LOGNAME", identity.name, true)
	baseEnv.Set("USER", identity.name, true)
	baseEnv.Set("HOME", identity.home, false)
	baseEnv.Set("TRIGGER", entry.Path, true)
	entry.Env = baseEnv.Snapshot()

	return entry, true
}

// trimLine strips leading space/tab and trailing CR/LF/space/tab from a raw
// line, returning the trimmed line and whether it should be skipped (empty
// or a comment).
func trimLine(raw string) (trimmed string, skip bool) {
	start := 0
	for start < len(raw) && (raw[start] == ' ' || raw[start] == '\t') {
		start++
	}

	end := len(raw)
	for end > start {
		c := raw[end-1]
		if c == '\n' || c == '\r' || c == ' ' || c == '\t' {
			end--
		} else {
			break
		}
	}

	if end <= start || raw[start] == '#' {
		return "", true
	}
	return raw[start:end], false
}

// classifyLine reports whether line is an environment assignment: one with
// an unescaped '=' appearing before any tab or backslash.
func classifyLine(line string) (isAssignment bool, eq int) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '=':
			return true, i
		case '\\', '\t':
			return false, -1
		}
	}
	return false, -1
}

// applyAssignment parses and applies an environment-assignment line of the
// form "NAME = VALUE" (space around '=' is permitted and trimmed).
func applyAssignment(line string, eq int, env *Env) {
	name := strings.TrimRight(line[:eq], " ")
	value := strings.TrimLeft(line[eq+1:], " ")
	env.Set(name, value, true)
}

// Parse reads a watchtab from r, producing a Table. The second return value
// is false if any line had to be skipped due to a parse error: partial
// success is allowed, so successfully-parsed entries are kept even when the
// overall result is reported as a failure. The WatchEnv starts fresh, seeded
// only with SHELL=/bin/sh and PATH=/usr/bin:/bin.
func Parse(r io.Reader, filename string, logger *logging.Logger) (Table, bool) {
	return parse(r, filename, NewEnv(), logger)
}

// ParseWithSeed is Parse, but the WatchEnv is seeded with the entries of
// seed (in unspecified order, since seed is a map) before any watchtab
// content is read. This backs the daemon's optional -e/--environment-file
// flag: the fresh-per-reload reset still holds — seed is reapplied
// identically on every (re)load — the seed just adds constant baseline
// entries on top of the SHELL/PATH defaults, letting an operator inject
// values (e.g. secrets) without writing them into the watchtab file itself.
func ParseWithSeed(r io.Reader, filename string, seed map[string]string, logger *logging.Logger) (Table, bool) {
	env := NewEnv()
	for name, value := range seed {
		env.Set(name, value, true)
	}
	return parse(r, filename, env, logger)
}

func parse(r io.Reader, filename string, env *Env, logger *logging.Logger) (Table, bool) {
	reader := bufio.NewReader(r)

	var table Table
	ok := true
	lineNo := 0

	for {
		raw, err := reader.ReadString('\n')
		if len(raw) == 0 && err != nil {
			break
		}
		lineNo++

		line, skip := trimLine(raw)
		if !skip {
			if isAssignment, eq := classifyLine(line); isAssignment {
				applyAssignment(line, eq, env)
			} else if entry, good := readLine(line, env, filename, lineNo, logger); good {
				table = append(table, entry)
			} else {
				ok = false
			}
		}

		if err != nil {
			break
		}
	}

	return table, ok
}
