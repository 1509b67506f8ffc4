package executor

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrNoElevation is returned when install commands are prefixed with an
// elevation program that cannot be found.
var ErrNoElevation = errors.New("elevation program not available")

// IsElevated reports whether the process already runs as root or administrator.
func IsElevated() bool {
	return isElevated()
}

// ElevationTool returns the first known elevation program found on PATH, or "".
func ElevationTool() string {
	for _, name := range elevationTools {
		if _, err := exec.LookPath(name); err == nil {
			return name
		}
	}
	return ""
}

// CheckElevation verifies that commands prefixed with program can run.
// The prefix "none" and elevated processes never need a program.
func CheckElevation(program string) error {
	if program == "" || program == "none" || isElevated() {
		return nil
	}
	if _, err := exec.LookPath(program); err != nil {
		if tool := ElevationTool(); tool != "" {
			return fmt.Errorf("%w: %s (set managers.<id>.elevation to %q)", ErrNoElevation, program, tool)
		}
		return fmt.Errorf("%w: %s", ErrNoElevation, program)
	}
	return nil
}
