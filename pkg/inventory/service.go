// Package inventory is the entry point used by the command line: it detects
// sources, reconciles live listings against the backup directory, and runs
// backups and restores.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"github.com/kakehashi-inc/app-backup-restore/pkg/envpath"
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager/hostapp"
	"github.com/kakehashi-inc/app-backup-restore/pkg/snapshot"
)

// ErrNoBackupDir is returned by operations that need a backup directory when none is configured.
var ErrNoBackupDir = errors.New("backup directory is not configured")

// DefaultConcurrency bounds how many sources are backed up at once.
const DefaultConcurrency = 4

// Options configures a Service.
type Options struct {
	// BackupDir is the backup root. Operations touching snapshots fail with ErrNoBackupDir when empty.
	BackupDir string
	// Runner executes install commands.
	Runner manager.Runner
	// WSLRunner executes commands inside WSL. It may be nil off Windows.
	WSLRunner manager.Runner
	// Language selects the collation used to order merged items.
	Language language.Tag
	// Paths expands path templates. Defaults to the process environment.
	Paths *envpath.Resolver
	// Platform defaults to the running OS.
	Platform manager.Platform
	// Concurrency bounds the backup fan-out.
	Concurrency int
}

// Service exposes the inventory operations over a registry of adapters.
type Service struct {
	registry    *manager.Registry
	store       *snapshot.Store
	runner      manager.Runner
	wsl         manager.Runner
	paths       *envpath.Resolver
	platform    manager.Platform
	lang        language.Tag
	concurrency int
	logger      zerolog.Logger
}

// New creates a Service.
func New(reg *manager.Registry, opts Options) *Service {
	s := &Service{
		registry:    reg,
		runner:      opts.Runner,
		wsl:         opts.WSLRunner,
		paths:       opts.Paths,
		platform:    opts.Platform,
		lang:        opts.Language,
		concurrency: opts.Concurrency,
		logger:      log.With().Str("component", "inventory").Logger(),
	}
	if opts.BackupDir != "" {
		s.store = snapshot.NewStore(opts.BackupDir)
	}
	if s.paths == nil {
		s.paths = envpath.Default()
	}
	if s.platform == "" {
		s.platform = manager.CurrentPlatform()
	}
	if s.concurrency < 1 {
		s.concurrency = DefaultConcurrency
	}
	return s
}

// Registry returns the adapters the service works with.
func (s *Service) Registry() *manager.Registry {
	return s.registry
}

// Store returns the backup store or ErrNoBackupDir.
func (s *Service) Store() (*snapshot.Store, error) {
	if s.store == nil {
		return nil, ErrNoBackupDir
	}
	return s.store, nil
}

// Platform returns the platform paths and scripts are produced for.
func (s *Service) Platform() manager.Platform {
	return s.platform
}

// Sources returns the registered sources that are meaningful on this platform.
func (s *Service) Sources() []manager.Manager {
	var out []manager.Manager
	for _, m := range s.registry.All() {
		if d, ok := manager.Lookup(m.ID()); ok && d.SupportedOn(s.platform) {
			out = append(out, m)
		}
	}
	return out
}

// DetectAvailableSources probes every source of this platform.
func (s *Service) DetectAvailableSources(ctx context.Context) map[manager.ID]bool {
	all := s.registry.DetectAll(ctx)
	out := make(map[manager.ID]bool, len(all))
	for _, m := range s.Sources() {
		out[m.ID()] = all[m.ID()]
	}
	return out
}

// ListInstalled returns the live listing for id. Listing failures are logged
// and yield an empty list; only an unknown id is returned as an error.
func (s *Service) ListInstalled(ctx context.Context, id manager.ID) ([]manager.Item, error) {
	mgr, err := s.registry.MustGet(id)
	if err != nil {
		return nil, err
	}
	items, err := mgr.ListInstalled(ctx)
	if err != nil {
		s.logFailure(id, err, "listing failed")
		return []manager.Item{}, nil
	}
	return items, nil
}

// ListInstalledWSL returns the WSL track listing of a host.
func (s *Service) ListInstalledWSL(ctx context.Context, id manager.ID) ([]manager.Item, error) {
	w, err := s.wslAdapter(id)
	if err != nil {
		return nil, err
	}
	return w.ListInstalled(ctx), nil
}

// ListBackedUp returns the snapshot for id. Unreadable snapshots are logged and read as empty.
func (s *Service) ListBackedUp(id manager.ID) ([]manager.Item, error) {
	store, err := s.targetStore(id)
	if err != nil {
		return nil, err
	}
	items, err := store.Read(id)
	if err != nil {
		s.logger.Warn().Err(err).Str("source", string(id)).Msg("snapshot unreadable")
		return []manager.Item{}, nil
	}
	return items, nil
}

// ListBackedUpWSL returns the WSL track snapshot of a host.
func (s *Service) ListBackedUpWSL(id manager.ID) ([]manager.Item, error) {
	if !id.IsHost() {
		return nil, fmt.Errorf("%w: %q has no WSL track", manager.ErrUnknownSource, id)
	}
	store, err := s.targetStore(id)
	if err != nil {
		return nil, err
	}
	items, err := store.ReadWSL(id)
	if err != nil {
		s.logger.Warn().Err(err).Str("source", string(id)).Msg("wsl snapshot unreadable")
		return []manager.Item{}, nil
	}
	return items, nil
}

// Reconcile merges the live listing of id with its snapshot.
func (s *Service) Reconcile(ctx context.Context, id manager.ID) ([]snapshot.MergedItem, error) {
	backedUp, err := s.ListBackedUp(id)
	if err != nil {
		return nil, err
	}
	installed, err := s.ListInstalled(ctx, id)
	if err != nil {
		return nil, err
	}
	return snapshot.MergeWith(s.lang, installed, backedUp, snapshot.ItemAccessors), nil
}

// ReconcileWSL merges a host's WSL listing with its WSL snapshot. The primary
// snapshot is never consulted.
func (s *Service) ReconcileWSL(ctx context.Context, id manager.ID) ([]snapshot.MergedItem, error) {
	backedUp, err := s.ListBackedUpWSL(id)
	if err != nil {
		return nil, err
	}
	installed, err := s.ListInstalledWSL(ctx, id)
	if err != nil {
		return nil, err
	}
	return snapshot.MergeWith(s.lang, installed, backedUp, snapshot.ItemAccessors), nil
}

// Metadata returns the last backup time per target.
func (s *Service) Metadata() (snapshot.Metadata, error) {
	if s.store == nil {
		return nil, ErrNoBackupDir
	}
	return s.store.Metadata()
}

func (s *Service) targetStore(id manager.ID) (*snapshot.Store, error) {
	if _, ok := manager.Lookup(id); !ok {
		return nil, fmt.Errorf("%w: %q", manager.ErrUnknownSource, id)
	}
	if s.store == nil {
		return nil, ErrNoBackupDir
	}
	return s.store, nil
}

func (s *Service) wslAdapter(id manager.ID) (*hostapp.WSLAdapter, error) {
	host, ok := hostapp.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no WSL track", manager.ErrUnknownSource, id)
	}
	runner := s.wsl
	if runner == nil {
		runner = unavailableRunner{}
	}
	return hostapp.NewWSL(host, runner).WithPlatform(s.platform), nil
}

func (s *Service) logFailure(id manager.ID, err error, msg string) {
	ev := s.logger.Warn().Err(err).Str("source", string(id))
	var execErr *manager.ExecutionError
	if errors.As(err, &execErr) {
		ev = ev.Str("program", execErr.Program).Int("exit_code", execErr.ExitCode)
	}
	ev.Msg(msg)
}
