// Package environment parses NAME=VALUE environment specifications drawn
// from the process's own environment.
package environment

import (
	"strings"

	"github.com/pkg/errors"
)

// Parse converts a slice of "NAME=VALUE" strings into a map with equivalent
// contents. Lines that specify an empty variable name (i.e. that begin with
// '=') are ignored, mirroring the vestigial MS-DOS-compatibility entries
// that can appear in a process environment block.
func Parse(lines []string) (map[string]string, error) {
	result := make(map[string]string, len(lines))

	for _, line := range lines {
		if len(line) > 0 && line[0] == '=' {
			continue
		}

		components := strings.SplitN(line, "=", 2)
		if len(components) != 2 {
			return nil, errors.Errorf("invalid variable specification: %s", line)
		}

		result[components[0]] = components[1]
	}

	return result, nil
}

// Format converts a map of environment variables back into a slice of
// "NAME=VALUE" strings, in no particular order.
func Format(environment map[string]string) []string {
	result := make([]string, 0, len(environment))
	for k, v := range environment {
		result = append(result, k+"="+v)
	}
	return result
}
