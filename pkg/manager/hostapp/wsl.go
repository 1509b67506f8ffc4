package hostapp

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// WSLAdapter lists a host's extensions installed on the WSL side of a Windows machine.
// The WSL track is independent of the primary one and has its own snapshot.
type WSLAdapter struct {
	host     Host
	runner   manager.Runner
	platform manager.Platform
}

// NewWSL creates the WSL track adapter. runner must execute commands inside WSL.
func NewWSL(host Host, runner manager.Runner) *WSLAdapter {
	return &WSLAdapter{host: host, runner: runner, platform: manager.CurrentPlatform()}
}

// ID returns the host identifier.
func (w *WSLAdapter) ID() manager.ID {
	return w.host.ID
}

// Supported reports whether a WSL track exists on this platform.
func (w *WSLAdapter) Supported() bool {
	return w.platform == manager.Windows
}

// ListInstalled returns the WSL-side extensions. Failures of any kind yield an empty list.
func (w *WSLAdapter) ListInstalled(ctx context.Context) []manager.Item {
	if !w.Supported() {
		return []manager.Item{}
	}
	res := w.runner.Run(ctx, w.host.Command, "--list-extensions", "--show-versions")
	if !res.OK() {
		log.Debug().
			Str("component", "hostapp").
			Str("source", string(w.host.ID)).
			Int("exit_code", res.ExitCode).
			Msg("wsl extension listing unavailable")
		return []manager.Item{}
	}
	return ParseExtensions(res.Stdout)
}

// InstallCommand returns the command to run through the WSL runner.
func (w *WSLAdapter) InstallCommand(identifier, _ string) manager.Command {
	return manager.Command{Program: w.host.Command, Args: []string{"--install-extension", identifier}}
}

// Runner returns the WSL runner install commands must go through.
func (w *WSLAdapter) Runner() manager.Runner {
	return w.runner
}

// WithPlatform overrides the platform the adapter believes it runs on.
func (w *WSLAdapter) WithPlatform(p manager.Platform) *WSLAdapter {
	w.platform = p
	return w
}
