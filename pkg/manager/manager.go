package manager

import (
	"context"

	"github.com/kakehashi-inc/app-backup-restore/internal/executor"
)

// Manager is the adapter contract every source implements.
type Manager interface {
	// ID returns the source identifier.
	ID() ID

	// DisplayName returns a human-readable name.
	DisplayName() string

	// IsAvailable reports whether the source's CLI can be found.
	IsAvailable(ctx context.Context) bool

	// ListInstalled returns the normalized installed records.
	// On failure it returns an empty list together with an *ExecutionError or *ParseError.
	ListInstalled(ctx context.Context) ([]Item, error)

	// InstallCommand builds the install command for one identifier. It performs no I/O.
	InstallCommand(identifier, version string) Command
}

// Runner executes external programs. Run never fails outright: transport errors
// are reported as a non-zero exit code with the cause in Stderr.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) executor.Result
	FindExecutable(name string) bool
}

// Check runs a command and converts a non-zero exit into an *ExecutionError.
func Check(ctx context.Context, r Runner, source ID, name string, args ...string) (executor.Result, error) {
	res := r.Run(ctx, name, args...)
	if res.ExitCode != 0 {
		return res, &ExecutionError{
			Source:   source,
			Program:  name,
			Args:     args,
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}
	return res, nil
}
