package hostapp

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kakehashi-inc/app-backup-restore/internal/executor"
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// Adapter lists and installs extensions through a host's CLI.
type Adapter struct {
	host     Host
	runner   manager.Runner
	platform manager.Platform
	exists   func(path string) bool
}

// New creates the adapter for a known host. It returns ErrUnknownSource for other ids.
func New(id manager.ID, runner manager.Runner) (*Adapter, error) {
	host, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an extension host", manager.ErrUnknownSource, id)
	}
	return &Adapter{
		host:     host,
		runner:   runner,
		platform: manager.CurrentPlatform(),
		exists:   fileExists,
	}, nil
}

// ID returns the host identifier.
func (a *Adapter) ID() manager.ID {
	return a.host.ID
}

// DisplayName returns the human-readable name.
func (a *Adapter) DisplayName() string {
	return a.host.Label
}

// Host returns the static definition behind the adapter.
func (a *Adapter) Host() Host {
	return a.host
}

// IsAvailable checks PATH, and on macOS also the CLI inside the app bundle.
// The bundle binary is only stat'ed, never executed.
func (a *Adapter) IsAvailable(_ context.Context) bool {
	if a.runner.FindExecutable(a.host.Command) {
		return true
	}
	return a.bundleBinary() != ""
}

// ListInstalled returns the extensions reported by `--list-extensions --show-versions`.
func (a *Adapter) ListInstalled(ctx context.Context) ([]manager.Item, error) {
	res, err := manager.Check(ctx, a.runner, a.host.ID, a.program(a.runner), "--list-extensions", "--show-versions")
	if err != nil {
		return []manager.Item{}, err
	}
	return ParseExtensions(res.Stdout), nil
}

// InstallCommand returns `<cmd> --install-extension <id>`. The version is not
// pinned and the command name is never resolved to a path.
func (a *Adapter) InstallCommand(identifier, _ string) manager.Command {
	return manager.Command{Program: a.host.Command, Args: []string{"--install-extension", identifier}}
}

// ExecRunner wraps base so that commands naming the host CLI run the macOS
// bundle binary when the CLI is not on PATH.
func (a *Adapter) ExecRunner(base manager.Runner) manager.Runner {
	return bundleRunner{Runner: base, adapter: a}
}

type bundleRunner struct {
	manager.Runner
	adapter *Adapter
}

func (r bundleRunner) Run(ctx context.Context, name string, args ...string) executor.Result {
	if name == r.adapter.host.Command {
		name = r.adapter.program(r.Runner)
	}
	return r.Runner.Run(ctx, name, args...)
}

// program prefers the command on PATH and falls back to the macOS bundle binary.
func (a *Adapter) program(runner manager.Runner) string {
	if runner.FindExecutable(a.host.Command) {
		return a.host.Command
	}
	if bin := a.bundleBinary(); bin != "" {
		return bin
	}
	return a.host.Command
}

func (a *Adapter) bundleBinary() string {
	if a.platform != manager.Darwin {
		return ""
	}
	bin := a.host.BundleBinary()
	if bin == "" || !a.exists(bin) {
		return ""
	}
	return bin
}

// ParseExtensions parses one `id@version` per line. Lines without "@" carry no version.
func ParseExtensions(output string) []manager.Item {
	items := []manager.Item{}
	scanner := bufio.NewScanner(strings.NewReader(output))

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, version, _ := strings.Cut(line, "@")
		if id == "" {
			continue
		}
		items = append(items, manager.ExtensionItem{ID: id, Version: version})
	}

	return items
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
