package inventory

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// BackupResult reports a batch backup. Failed sources wrote nothing.
type BackupResult struct {
	Written   []string              `json:"written"`
	Succeeded []manager.ID          `json:"succeeded"`
	Failed    map[manager.ID]string `json:"failed,omitempty"`
}

// BackupObserver is told about each source as it finishes.
type BackupObserver func(id manager.ID, written []string, err error)

type backupOutcome struct {
	written []string
	err     error
}

// Backup snapshots every id concurrently. With no ids, every available source
// of this platform is backed up. One source failing does not affect the others;
// metadata is updated for the sources that succeeded.
func (s *Service) Backup(ctx context.Context, ids []manager.ID, observe BackupObserver) (BackupResult, error) {
	if s.store == nil {
		return BackupResult{}, ErrNoBackupDir
	}
	for _, id := range ids {
		if _, ok := manager.Lookup(id); !ok {
			return BackupResult{}, fmt.Errorf("%w: %q", manager.ErrUnknownSource, id)
		}
	}
	if len(ids) == 0 {
		available := s.DetectAvailableSources(ctx)
		for _, m := range s.Sources() {
			if available[m.ID()] {
				ids = append(ids, m.ID())
			}
		}
	}

	outcomes := make([]backupOutcome, len(ids))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			written, err := s.backupOne(ctx, id, nil)
			outcomes[i] = backupOutcome{written: written, err: err}
			if observe != nil {
				mu.Lock()
				observe(id, written, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return s.finishBackup(ids, outcomes), nil
}

// BackupSelected snapshots only the listed identities of id. An empty list backs up everything.
func (s *Service) BackupSelected(ctx context.Context, id manager.ID, identifiers []string) (BackupResult, error) {
	if _, err := s.targetStore(id); err != nil {
		return BackupResult{}, err
	}
	written, err := s.backupOne(ctx, id, identifiers)
	return s.finishBackup([]manager.ID{id}, []backupOutcome{{written: written, err: err}}), nil
}

func (s *Service) finishBackup(ids []manager.ID, outcomes []backupOutcome) BackupResult {
	res := BackupResult{Written: []string{}, Succeeded: []manager.ID{}}
	var touched []string

	for i, id := range ids {
		o := outcomes[i]
		if o.err != nil {
			if res.Failed == nil {
				res.Failed = make(map[manager.ID]string)
			}
			res.Failed[id] = o.err.Error()
			s.logFailure(id, o.err, "backup failed")
			continue
		}
		res.Written = append(res.Written, o.written...)
		res.Succeeded = append(res.Succeeded, id)
		touched = append(touched, string(id))
	}

	if err := s.store.Touch(touched...); err != nil {
		s.logger.Warn().Err(err).Msg("backup metadata not updated")
	}
	return res
}

// backupOne writes the snapshot of one source from a single listing call.
func (s *Service) backupOne(ctx context.Context, id manager.ID, only []string) ([]string, error) {
	mgr, err := s.registry.MustGet(id)
	if err != nil {
		return nil, err
	}

	items, err := mgr.ListInstalled(ctx)
	if err != nil {
		return nil, err
	}
	items = manager.FilterByIdentity(items, only)

	path, err := s.store.Write(id, items)
	if err != nil {
		return nil, err
	}
	written := []string{path}

	if id.IsHost() {
		extra, err := s.backupHostExtras(ctx, id)
		written = append(written, extra...)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// backupHostExtras writes the WSL track and copies the settings files of a host.
func (s *Service) backupHostExtras(ctx context.Context, id manager.ID) ([]string, error) {
	var written []string

	if s.platform == manager.Windows {
		w, err := s.wslAdapter(id)
		if err != nil {
			return nil, err
		}
		if items := w.ListInstalled(ctx); len(items) > 0 {
			path, err := s.store.WriteWSL(id, items)
			if err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}

	copied, err := s.copyHostFiles(id, false)
	return append(written, copied...), err
}
