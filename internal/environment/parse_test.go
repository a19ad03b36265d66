package environment

import (
	"testing"
)

func TestParseNil(t *testing.T) {
	if parsed, err := Parse(nil); err != nil {
		t.Fatal("unable to parse nil environment:", err)
	} else if len(parsed) != 0 {
		t.Error("parsed environment not empty when parsing from nil")
	}
}

func TestParseEmpty(t *testing.T) {
	if parsed, err := Parse([]string{}); err != nil {
		t.Fatal("unable to parse empty environment:", err)
	} else if len(parsed) != 0 {
		t.Error("parsed environment not empty when parsing from empty environment")
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]string{"nosign"}); err == nil {
		t.Fatal("parsing didn't fail for invalid environment")
	}
}

func TestParse(t *testing.T) {
	native := []string{
		"=",
		"=something",
		"a=b",
		"WATCHTAB=/etc/watchtab",
		"WATCHTAB=/etc/watchtab2",
		"TRIGGER=/var/log/app=special",
	}
	expected := map[string]string{
		"a":        "b",
		"WATCHTAB": "/etc/watchtab2",
		"TRIGGER":  "/var/log/app=special",
	}

	parsed, err := Parse(native)
	if err != nil {
		t.Fatal("unable to parse environment:", err)
	}

	if len(parsed) != len(expected) {
		t.Error("parsed environment does not match expected length")
	}
	for k, ev := range expected {
		if pv, ok := parsed[k]; !ok {
			t.Error("parsed environment missing key:", k)
		} else if pv != ev {
			t.Error("parsed environment value doesn't match expected:", pv, "!=", ev)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	original := map[string]string{
		"WATCHTAB": "/etc/watchtab",
		"TRIGGER":  "/var/log/app",
		"SHELL":    "/bin/sh",
	}

	formatted := Format(original)
	reparsed, err := Parse(formatted)
	if err != nil {
		t.Fatal("unable to reparse formatted environment:", err)
	}

	if len(reparsed) != len(original) {
		t.Error("reparsed environment length does not match original")
	}
	for k, ov := range original {
		if rv, ok := reparsed[k]; !ok {
			t.Error("reparsed environment missing key:", k)
		} else if rv != ov {
			t.Error("reparsed environment value doesn't match original:", rv, "!=", ov)
		}
	}
}
