package runner

import "strings"

// posixCommandNotFoundFragment is a fragment of the error output most POSIX
// shells produce when a command isn't found. Capitalization of "command" is
// inconsistent between shells, so only part of the word is matched.
const posixCommandNotFoundFragment = "ommand not found"

// OutputIsCommandNotFound reports whether a command's stderr output looks
// like a shell "command not found" error, for diagnostic logging of exec
// failures inside a spawned child.
func OutputIsCommandNotFound(output string) bool {
	return strings.Contains(output, posixCommandNotFoundFragment)
}
