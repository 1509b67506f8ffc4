package executor

import (
	"context"
	"runtime"
)

// WSL runs commands inside the default WSL distribution's shell.
// It is only usable on Windows hosts with wsl.exe installed.
type WSL struct {
	exec *Executor
	goos string
}

// NewWSL wraps e so every command runs through wsl.exe.
func NewWSL(e *Executor) *WSL {
	return &WSL{exec: e, goos: runtime.GOOS}
}

// Available reports whether WSL can be used on this host.
func (w *WSL) Available() bool {
	return w.goos == "windows" && w.exec.FindExecutable("wsl")
}

// Run executes name inside WSL. When WSL is unavailable it returns ExitNotStarted.
func (w *WSL) Run(ctx context.Context, name string, args ...string) Result {
	if !w.Available() {
		return Result{ExitCode: ExitNotStarted, Stderr: "wsl is not available on this host"}
	}
	return w.exec.Run(ctx, "wsl", append([]string{"--", name}, args...)...)
}

// FindExecutable reports whether name resolves inside the WSL distribution.
func (w *WSL) FindExecutable(name string) bool {
	if !w.Available() {
		return false
	}
	res := w.exec.Run(context.Background(), "wsl", "--", "sh", "-c", "command -v "+name)
	return res.OK()
}
