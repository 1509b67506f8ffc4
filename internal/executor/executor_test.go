//go:build !windows

package executor

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	exec := New(false, false)
	if exec == nil {
		t.Fatal("New() returned nil")
	}
}

func TestRunCapturesStdout(t *testing.T) {
	exec := New(false, false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res := exec.Run(ctx, "echo", "hello")
	if !res.OK() {
		t.Fatalf("Run() exit code = %d, stderr = %s", res.ExitCode, res.Stderr)
	}
	if !strings.Contains(res.Stdout, "hello") {
		t.Errorf("Stdout = %q, want to contain 'hello'", res.Stdout)
	}
}

func TestRunCapturesStderrAndExitCode(t *testing.T) {
	exec := New(false, false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res := exec.Run(ctx, "sh", "-c", "echo oops >&2; exit 3")
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "oops") {
		t.Errorf("Stderr = %q, want to contain 'oops'", res.Stderr)
	}
}

func TestRunMissingProgram(t *testing.T) {
	exec := New(false, false)

	res := exec.Run(context.Background(), "definitely-not-a-real-program-xyz")
	if res.ExitCode != ExitNotStarted {
		t.Errorf("ExitCode = %d, want %d", res.ExitCode, ExitNotStarted)
	}
	if res.Stderr == "" {
		t.Error("Stderr should carry the start error")
	}
}

func TestRunDryRun(t *testing.T) {
	exec := New(true, false)
	var out bytes.Buffer
	exec.SetOutput(&out, &out)

	res := exec.Run(context.Background(), "false")
	if !res.OK() {
		t.Errorf("Run() in dry-run mode should succeed, got exit %d", res.ExitCode)
	}
	if !strings.Contains(out.String(), "[dry-run] Would execute: false") {
		t.Errorf("dry-run output = %q", out.String())
	}
}

func TestRunStreamTeesOutput(t *testing.T) {
	exec := New(false, false)
	exec.SetStream(true)
	var out, errOut bytes.Buffer
	exec.SetOutput(&out, &errOut)

	res := exec.Run(context.Background(), "echo", "streamed")
	if !strings.Contains(out.String(), "streamed") {
		t.Errorf("streamed stdout = %q", out.String())
	}
	if !strings.Contains(res.Stdout, "streamed") {
		t.Errorf("captured stdout = %q", res.Stdout)
	}
}

func TestContextCancellation(t *testing.T) {
	exec := New(false, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := exec.Run(ctx, "sleep", "10")
	if res.OK() {
		t.Error("Run() should fail with cancelled context")
	}
}

func TestFindExecutable(t *testing.T) {
	exec := New(false, false)
	if !exec.FindExecutable("sh") {
		t.Error("FindExecutable(sh) should be true on POSIX hosts")
	}
	if exec.FindExecutable("definitely-not-a-real-program-xyz") {
		t.Error("FindExecutable should be false for a missing program")
	}
}

func TestWSLUnavailableOffWindows(t *testing.T) {
	w := NewWSL(New(false, false))
	if w.Available() {
		t.Fatal("WSL should not be available on a POSIX host")
	}
	res := w.Run(context.Background(), "code", "--list-extensions")
	if res.ExitCode != ExitNotStarted {
		t.Errorf("ExitCode = %d, want %d", res.ExitCode, ExitNotStarted)
	}
}
