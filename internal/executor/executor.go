// Package executor runs external programs and captures their output.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ExitNotStarted is the exit code reported when a program could not be started.
const ExitNotStarted = -1

// Result is the captured outcome of one program invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// OK reports whether the program exited with status zero.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// Executor runs programs, optionally streaming their output to the terminal.
type Executor struct {
	dryRun  bool
	verbose bool
	stream  bool
	stdout  io.Writer
	stderr  io.Writer
	logger  zerolog.Logger
}

// New creates a new Executor with the given options.
func New(dryRun, verbose bool) *Executor {
	return &Executor{
		dryRun:  dryRun,
		verbose: verbose,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		logger:  log.With().Str("component", "executor").Logger(),
	}
}

// SetDryRun enables or disables dry-run mode.
func (e *Executor) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// SetVerbose enables or disables verbose mode.
func (e *Executor) SetVerbose(verbose bool) {
	e.verbose = verbose
}

// SetStream makes Run tee output to the terminal while still capturing it.
// Interactive installs use this so the user sees prompts and progress.
func (e *Executor) SetStream(stream bool) {
	e.stream = stream
}

// SetOutput redirects streamed and dry-run output.
func (e *Executor) SetOutput(stdout, stderr io.Writer) {
	e.stdout = stdout
	e.stderr = stderr
}

// DryRun reports whether commands are only printed.
func (e *Executor) DryRun() bool {
	return e.dryRun
}

// Run executes name with args and captures stdout, stderr and the exit code.
// It never returns an error: a program that cannot be started yields
// ExitNotStarted with the cause in Stderr.
func (e *Executor) Run(ctx context.Context, name string, args ...string) Result {
	if e.dryRun {
		fmt.Fprintf(e.stdout, "[dry-run] Would execute: %s %s\n", name, strings.Join(args, " "))
		return Result{}
	}

	program, argv := wrapCommand(name, args)
	cmd := exec.CommandContext(ctx, program, argv...)

	var stdout, stderr bytes.Buffer
	if e.stream {
		cmd.Stdin = os.Stdin
		cmd.Stdout = io.MultiWriter(e.stdout, &stdout)
		cmd.Stderr = io.MultiWriter(e.stderr, &stderr)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	if e.verbose {
		fmt.Fprintf(e.stderr, "Executing: %s %s\n", name, strings.Join(args, " "))
	}
	e.logger.Debug().Str("program", name).Strs("args", args).Msg("Executing command")

	res := Result{}
	err := cmd.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = ExitNotStarted
			if res.Stderr != "" && !strings.HasSuffix(res.Stderr, "\n") {
				res.Stderr += "\n"
			}
			res.Stderr += err.Error()
		}
	}

	e.logger.Debug().Str("program", name).Int("exit_code", res.ExitCode).Msg("Command finished")
	return res
}

// FindExecutable reports whether name resolves on PATH.
func (e *Executor) FindExecutable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
