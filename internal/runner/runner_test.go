package runner

import (
	"strings"
	"testing"
	"time"

	"github.com/filewatcherd/filewatcherd/internal/watchtab"
)

func TestShellForFallsBackToDefault(t *testing.T) {
	entry := &watchtab.Entry{Env: []string{"PATH=/usr/bin"}}
	if got := shellFor(entry); got != defaultShell {
		t.Errorf("got %q, want %q", got, defaultShell)
	}
}

func TestShellForUsesEntryShell(t *testing.T) {
	entry := &watchtab.Entry{Env: []string{"SHELL=/bin/zsh", "PATH=/usr/bin"}}
	if got := shellFor(entry); got != "/bin/zsh" {
		t.Errorf("got %q, want /bin/zsh", got)
	}
}

func TestShellForIgnoresEmptyShellValue(t *testing.T) {
	entry := &watchtab.Entry{Env: []string{"SHELL="}}
	if got := shellFor(entry); got != defaultShell {
		t.Errorf("got %q, want %q", got, defaultShell)
	}
}

func TestCommandLineWithoutDelay(t *testing.T) {
	entry := &watchtab.Entry{Command: "echo hi"}
	if got := commandLine(entry); got != "echo hi" {
		t.Errorf("got %q, want %q", got, "echo hi")
	}
}

func TestCommandLineWithDelayWrapsInSleep(t *testing.T) {
	entry := &watchtab.Entry{Command: "echo hi", Delay: 2500 * time.Millisecond}
	got := commandLine(entry)
	if !strings.HasPrefix(got, "sleep 2.500000000 && ") {
		t.Errorf("got %q, expected a leading sleep for the configured delay", got)
	}
	if !strings.HasSuffix(got, "echo hi") {
		t.Errorf("got %q, expected the original command preserved", got)
	}
}

func TestOutputIsCommandNotFound(t *testing.T) {
	cases := map[string]bool{
		"sh: 1: frobnicate: not found":  false,
		"bash: frobnicate: command not found": true,
		"zsh: command not found: frobnicate":  true,
		"hello world":                   false,
	}
	for output, want := range cases {
		if got := OutputIsCommandNotFound(output); got != want {
			t.Errorf("OutputIsCommandNotFound(%q) = %v, want %v", output, got, want)
		}
	}
}
