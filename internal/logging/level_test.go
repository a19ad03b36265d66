package logging

import "testing"

func TestNameToLevelRoundTrip(t *testing.T) {
	names := []string{"disabled", "error", "notice", "info", "debug"}
	for _, name := range names {
		level, ok := NameToLevel(name)
		if !ok {
			t.Fatalf("expected %q to be a valid level name", name)
		}
		if level.String() != name {
			t.Errorf("got %q, want %q", level.String(), name)
		}
	}
}

func TestNameToLevelInvalid(t *testing.T) {
	if _, ok := NameToLevel("verbose"); ok {
		t.Error("expected an unrecognized level name to be reported invalid")
	}
}

func TestLevelOrdering(t *testing.T) {
	if !(LevelDisabled < LevelError && LevelError < LevelNotice &&
		LevelNotice < LevelInfo && LevelInfo < LevelDebug) {
		t.Error("expected log levels to be strictly ordered by verbosity")
	}
}
