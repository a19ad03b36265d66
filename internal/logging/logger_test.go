package logging

import "testing"

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	// None of these should panic on a nil receiver.
	logger.Print("x")
	logger.Printf("%s", "x")
	logger.Notice("x")
	logger.Info("x")
	logger.Debug("x")
	logger.Warn(nil)
	logger.Error(nil)
}

func TestSubloggerNestsPrefix(t *testing.T) {
	root := &Logger{}
	child := root.Sublogger("supervisor")
	grandchild := child.Sublogger("runner")
	if grandchild.prefix != "supervisor.runner" {
		t.Errorf("got prefix %q, want %q", grandchild.prefix, "supervisor.runner")
	}
}

func TestSubloggerOnNilIsNil(t *testing.T) {
	var logger *Logger
	if logger.Sublogger("x") != nil {
		t.Error("expected Sublogger on a nil Logger to return nil")
	}
}
