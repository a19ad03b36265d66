package environment

import (
	"os"

	"github.com/pkg/errors"
)

// Current holds the daemon's own process environment, parsed once at
// package initialization. Nothing forwards it to spawned commands: watchtab
// environment-assignment lines and entry environments are built by
// internal/watchtab without reading it.
var Current map[string]string

func init() {
	if current, err := Parse(os.Environ()); err != nil {
		panic(errors.Wrap(err, "unable to parse environment"))
	} else {
		Current = current
	}
}
