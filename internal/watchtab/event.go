package watchtab

import "strings"

// EventSet is a bitmask over the vnode-style events a watch entry can fire
// on. The names and bit values are arbitrary (they don't need to match any
// particular kernel's EVFILT_VNODE flags) but are kept disjoint so that the
// set can be built up with simple bitwise OR, mirroring the original
// watchtab grammar's "run of tokens" syntax.
type EventSet uint32

const (
	// EventDelete fires when the watched path is unlinked.
	EventDelete EventSet = 1 << iota
	// EventWrite fires when the watched path's contents are written.
	EventWrite
	// EventExtend fires when the watched path (typically a file) grows.
	EventExtend
	// EventAttrib fires when the watched path's metadata changes.
	EventAttrib
	// EventLink fires when the watched path's link count changes.
	EventLink
	// EventRename fires when the watched path is renamed.
	EventRename
	// EventRevoke fires when access to the watched path is revoked, e.g. the
	// backing filesystem is unmounted.
	EventRevoke

	// eventAll is the union of every recognized event, i.e. what '*' expands
	// to in the watchtab grammar.
	eventAll = EventDelete | EventWrite | EventExtend | EventAttrib |
		EventLink | EventRename | EventRevoke
)

// eventNames maps each recognized lowercase token to its EventSet bit, in the
// order the tokenizer tries them and String renders them.
var eventNames = []struct {
	name string
	bit  EventSet
}{
	{"delete", EventDelete},
	{"write", EventWrite},
	{"extend", EventExtend},
	{"attrib", EventAttrib},
	{"link", EventLink},
	{"rename", EventRename},
	{"revoke", EventRevoke},
}

// isLetter reports whether b is an ASCII letter.
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// parseEvents parses an events field from a watchtab entry line. A literal
// "*" expands to every recognized event. Otherwise the field is a run of
// case-insensitive tokens, each separated by exactly one non-letter byte. An
// empty result (no tokens recognized, or an unrecognized token) is reported
// via the second return value.
func parseEvents(field string) (EventSet, bool) {
	if field == "*" {
		return eventAll, true
	}

	var result EventSet
	i := 0
	for i < len(field) {
		lower := strings.ToLower(field[i:])
		matched := false
		for _, candidate := range eventNames {
			if strings.HasPrefix(lower, candidate.name) {
				result |= candidate.bit
				i += len(candidate.name)
				matched = true
				break
			}
		}
		if !matched {
			return 0, false
		}

		if i < len(field) && isLetter(field[i]) {
			// Trailing letters after a matched token mean it wasn't a whole
			// token after all (e.g. "writex").
			return 0, false
		}
		i++
	}

	if result == 0 {
		return 0, false
	}
	return result, true
}

// String renders the event set using the same token vocabulary the parser
// accepts, separated by commas. It's used for diagnostics and for test-only
// round-trip serialization.
func (e EventSet) String() string {
	if e == eventAll {
		return "*"
	}

	var tokens []string
	for _, candidate := range eventNames {
		if e&candidate.bit != 0 {
			tokens = append(tokens, candidate.name)
		}
	}
	return strings.Join(tokens, ",")
}

// Has reports whether every bit in other is set in e.
func (e EventSet) Has(other EventSet) bool {
	return e&other == other
}

// Intersects reports whether e and other share at least one set bit: does
// the watched path's event fall within this entry's interest set.
func (e EventSet) Intersects(other EventSet) bool {
	return e&other != 0
}
