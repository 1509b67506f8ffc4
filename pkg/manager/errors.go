package manager

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSource is returned when a caller names a source that is not defined.
var ErrUnknownSource = errors.New("unknown source")

// ExecutionError describes an external command that exited non-zero or could not start.
type ExecutionError struct {
	Source   ID
	Program  string
	Args     []string
	ExitCode int
	Stderr   string
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("%s: %s exited with code %d", e.Source, e.Program, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + firstLine(s)
	}
	return msg
}

// ParseError describes command output that did not match the expected shape.
type ParseError struct {
	Source ID
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: unexpected output: %v", e.Source, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsExecutionError reports whether err wraps an *ExecutionError.
func IsExecutionError(err error) bool {
	var execErr *ExecutionError
	return errors.As(err, &execErr)
}

// IsParseError reports whether err wraps a *ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
