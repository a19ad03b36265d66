// Command filewatcherd watches filesystem paths declared in a watchtab file
// and runs a shell command under a configured identity whenever a
// configured event fires on a watched path.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/filewatcherd/filewatcherd/internal/daemon"
	"github.com/filewatcherd/filewatcherd/internal/logging"
	"github.com/filewatcherd/filewatcherd/internal/supervisor"
)

// millisecondsToDuration converts the -w/--wait flag's integer millisecond
// value into a time.Duration.
func millisecondsToDuration(millis int) time.Duration {
	return time.Duration(millis) * time.Millisecond
}

const usage = `Usage: filewatcherd [options] watchtab

Watch filesystem paths declared in watchtab and run commands in response to
changes.

Options:
  -d, --foreground           do not daemonize; log to standard error
  -e, --environment-file FILE  seed the base watch environment from a
                             dotenv-style NAME=VALUE file before the
                             watchtab is read
  -h, --help                 print this message and exit
  -w, --wait MILLIS          debounce delay for watchtab reload (default 100)
`

func main() {
	os.Exit(run())
}

// run implements the command's CLI surface, returning the process exit code
// rather than calling os.Exit directly so deferred cleanup always runs.
func run() int {
	flags := pflag.NewFlagSet("filewatcherd", pflag.ContinueOnError)
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	foreground := flags.BoolP("foreground", "d", false, "do not daemonize; log to standard error")
	envFile := flags.StringP("environment-file", "e", "", "seed the base watch environment from a dotenv-style NAME=VALUE file")
	help := flags.BoolP("help", "h", false, "print usage and exit")
	waitMillis := flags.IntP("wait", "w", 100, "debounce delay for watchtab reload, in milliseconds")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return 2
	}

	if *help {
		fmt.Print(usage)
		return 0
	}

	if flags.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: missing watchtab path")
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
	watchtabPath := flags.Arg(0)

	if *waitMillis <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --wait must be positive")
		return 2
	}

	var envSeed map[string]string
	if *envFile != "" {
		seed, err := godotenv.Read(*envFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: unable to read environment file: %v\n", err)
			return 2
		}
		envSeed = seed
	}

	if !*foreground {
		detached, err := daemon.Detach()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if !detached {
			return 0
		}
	}

	sink, err := daemon.OpenSink(*foreground, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer sink.Close()
	logging.SetSink(sink)

	logger := logging.RootLogger
	wait := millisecondsToDuration(*waitMillis)

	super, err := supervisor.New(watchtabPath, wait, envSeed, logger.Sublogger("supervisor"))
	if err != nil {
		logger.Errorf("unable to initialize supervisor: %v", err)
		return 1
	}
	defer super.Close()

	if err := super.Run(); err != nil {
		logger.Errorf("supervision loop terminated: %v", err)
		return 1
	}
	return 0
}
