package inventory

import (
	"context"

	"github.com/kakehashi-inc/app-backup-restore/internal/executor"
)

// unavailableRunner stands in for the WSL runner off Windows.
type unavailableRunner struct{}

func (unavailableRunner) Run(_ context.Context, name string, _ ...string) executor.Result {
	return executor.Result{ExitCode: executor.ExitNotStarted, Stderr: name + ": wsl is not available"}
}

func (unavailableRunner) FindExecutable(string) bool { return false }
