package cli

import "errors"

var (
	// ErrNoSource is returned when no source was given and none can be chosen.
	ErrNoSource = errors.New("no source specified")

	// ErrNothingToRestore is returned when a restore selects no identifiers.
	ErrNothingToRestore = errors.New("nothing to restore")

	// ErrNotInteractive is returned when a prompt is needed but stdin is not a terminal.
	ErrNotInteractive = errors.New("not running in an interactive terminal; pass the value as an argument")

	// ErrAborted is returned when the user aborts an operation.
	ErrAborted = errors.New("operation aborted by user")
)
