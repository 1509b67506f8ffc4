// Package native implements adapters for OS-level package managers.
package native

import (
	"context"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// BaseManager provides the fields and methods shared by every native adapter.
type BaseManager struct {
	id          manager.ID
	displayName string
	binary      string
	runner      manager.Runner
	opts        manager.InstallOptions
}

// NewBaseManager creates a BaseManager for id using runner to execute commands.
func NewBaseManager(id manager.ID, runner manager.Runner) *BaseManager {
	def, _ := manager.Lookup(id)
	return &BaseManager{
		id:          id,
		displayName: def.Label,
		binary:      def.Binary,
		runner:      runner,
	}
}

// ID returns the source identifier.
func (b *BaseManager) ID() manager.ID {
	return b.id
}

// DisplayName returns the human-readable name.
func (b *BaseManager) DisplayName() string {
	return b.displayName
}

// Binary returns the executable used for detection.
func (b *BaseManager) Binary() string {
	return b.binary
}

// IsAvailable returns true if the manager's CLI resolves on PATH.
func (b *BaseManager) IsAvailable(_ context.Context) bool {
	return b.runner.FindExecutable(b.binary)
}

// Runner returns the command runner.
func (b *BaseManager) Runner() manager.Runner {
	return b.runner
}

// SetInstallOptions changes how install commands are shaped.
func (b *BaseManager) SetInstallOptions(opts manager.InstallOptions) {
	b.opts = opts
}

// InstallCommand builds the install command for identifier.
func (b *BaseManager) InstallCommand(identifier, version string) manager.Command {
	return manager.BuildInstallCommand(b.id, identifier, version, b.opts)
}

// check runs a listing command and wraps a non-zero exit.
func (b *BaseManager) check(ctx context.Context, name string, args ...string) (string, error) {
	res, err := manager.Check(ctx, b.runner, b.id, name, args...)
	return res.Stdout, err
}

// empty is returned alongside listing errors so callers always get a non-nil slice.
func empty() []manager.Item {
	return []manager.Item{}
}
