package inventory

import (
	"context"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
	"github.com/kakehashi-inc/app-backup-restore/pkg/restore"
)

// RestoreExecute installs the requested identifiers one by one. WSL requests run
// through the WSL runner.
func (s *Service) RestoreExecute(ctx context.Context, req restore.Request, progress restore.ProgressFunc) (restore.Report, error) {
	if err := req.Validate(); err != nil {
		return restore.Report{}, err
	}
	b, runner, err := s.restoreTarget(req)
	if err != nil {
		return restore.Report{}, err
	}
	if runner == nil {
		runner = unavailableRunner{}
	}

	report, err := restore.Execute(ctx, runner, req, b, progress)
	if err != nil {
		return report, err
	}
	s.logger.Info().
		Str("source", string(req.Target)).
		Bool("wsl", req.WSL).
		Int("installed", len(report.Succeeded())).
		Int("failed", len(report.Failed())).
		Msg("restore finished")
	return report, nil
}

// RestorePreviewScript renders the install script for req without writing it.
func (s *Service) RestorePreviewScript(req restore.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	b, _, err := s.restoreTarget(req)
	if err != nil {
		return "", err
	}
	return restore.Preview(req, b, s.platform)
}

// RestoreWriteScript writes the install script for req and returns its path.
// A blank outputPath picks a timestamped file in the temp directory.
func (s *Service) RestoreWriteScript(req restore.Request, outputPath string) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	b, _, err := s.restoreTarget(req)
	if err != nil {
		return "", err
	}
	return restore.WriteScript(req, b, outputPath, s.platform)
}

func (s *Service) restoreTarget(req restore.Request) (restore.CommandBuilder, manager.Runner, error) {
	if req.WSL {
		w, err := s.wslAdapter(req.Target)
		if err != nil {
			return nil, nil, err
		}
		return w, w.Runner(), nil
	}
	mgr, err := s.registry.MustGet(req.Target)
	if err != nil {
		return nil, nil, err
	}
	if w, ok := mgr.(execWrapper); ok && s.runner != nil {
		return mgr, w.ExecRunner(s.runner), nil
	}
	return mgr, s.runner, nil
}

// execWrapper is implemented by adapters whose commands need a program
// substitution at execution time, such as the macOS bundle CLI of an editor.
type execWrapper interface {
	ExecRunner(base manager.Runner) manager.Runner
}
