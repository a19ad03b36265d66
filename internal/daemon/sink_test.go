package daemon

import (
	"bytes"
	"testing"
)

func TestOpenSinkForegroundWritesThrough(t *testing.T) {
	var buf bytes.Buffer
	sink, err := OpenSink(true, &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	if _, err := sink.Write([]byte("hello\n")); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("got %q, want %q", buf.String(), "hello\n")
	}
}

func TestOpenSinkForegroundCloseIsNoop(t *testing.T) {
	var buf bytes.Buffer
	sink, err := OpenSink(true, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("expected foreground sink's Close to be a no-op, got %v", err)
	}
}
