package restore

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/kakehashi-inc/app-backup-restore/internal/executor"
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// Status is the result of one install attempt.
type Status string

const (
	StatusInstalled Status = "installed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped" // Not attempted because the context ended
)

// Outcome records what happened to one identifier.
type Outcome struct {
	Identifier string          `json:"identifier"`
	Command    manager.Command `json:"command"`
	Status     Status          `json:"status"`
	ExitCode   int             `json:"exit_code"`
	Failure    manager.Failure `json:"-"`
	Message    string          `json:"message,omitempty"`
}

// Report collects outcomes in request order.
type Report struct {
	Target   manager.ID `json:"target"`
	Outcomes []Outcome  `json:"outcomes"`
}

// Succeeded returns the identifiers that installed.
func (r Report) Succeeded() []string {
	return r.with(StatusInstalled)
}

// Failed returns the identifiers that did not install.
func (r Report) Failed() []string {
	return append(r.with(StatusFailed), r.with(StatusSkipped)...)
}

func (r Report) with(s Status) []string {
	var out []string
	for _, o := range r.Outcomes {
		if o.Status == s {
			out = append(out, o.Identifier)
		}
	}
	return out
}

// ProgressFunc is called after each identifier is attempted.
type ProgressFunc func(done, total int, o Outcome)

// Execute runs the install command of every identifier in order. A failed
// install does not stop the rest; each identifier gets its own outcome.
func Execute(ctx context.Context, runner manager.Runner, req Request, b CommandBuilder, progress ProgressFunc) (Report, error) {
	cmds, err := Commands(req, b)
	if err != nil {
		return Report{}, err
	}

	logger := log.With().Str("component", "restore").Str("source", string(req.Target)).Logger()
	report := Report{Target: req.Target, Outcomes: make([]Outcome, 0, len(cmds))}

	for i, cmd := range cmds {
		o := Outcome{Identifier: req.Identifiers[i], Command: cmd}

		if ctx.Err() != nil {
			o.Status = StatusSkipped
			o.Message = ctx.Err().Error()
		} else {
			logger.Debug().Str("command", cmd.String()).Msg("installing")
			res := runner.Run(ctx, cmd.Program, cmd.Args...)
			o.ExitCode = res.ExitCode
			if res.OK() {
				o.Status = StatusInstalled
			} else {
				o.Status = StatusFailed
				o.Failure = manager.ClassifyInstallFailure(res.Stderr + "\n" + res.Stdout)
				o.Message = summarize(res)
				logger.Warn().
					Str("identifier", o.Identifier).
					Str("program", cmd.Program).
					Int("exit_code", res.ExitCode).
					Str("failure", o.Failure.Kind.String()).
					Msg("install failed")
			}
		}

		report.Outcomes = append(report.Outcomes, o)
		if progress != nil {
			progress(i+1, len(cmds), o)
		}
	}

	return report, nil
}

func summarize(res executor.Result) string {
	for _, s := range []string{res.Stderr, res.Stdout} {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		lines := strings.Split(s, "\n")
		return strings.TrimSpace(lines[len(lines)-1])
	}
	return ""
}
