package manager

import (
	"context"
	"fmt"
	"sync"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager/detector"
)

// Registry holds the adapters known to this process and answers lookups by ID.
type Registry struct {
	managers map[ID]Manager
	sysInfo  *detector.SystemInfo
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		managers: make(map[ID]Manager),
	}
}

// Register adds a manager, replacing any previous adapter with the same ID.
func (r *Registry) Register(mgr Manager) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.managers[mgr.ID()] = mgr
}

// Detect records information about the host system.
func (r *Registry) Detect() error {
	info, err := detector.Detect()
	r.mu.Lock()
	r.sysInfo = info
	r.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to detect system: %w", err)
	}
	return nil
}

// SystemInfo returns the detected system information, or nil before Detect.
func (r *Registry) SystemInfo() *detector.SystemInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sysInfo
}

// Native returns the distribution's native manager when one is registered.
func (r *Registry) Native() (Manager, bool) {
	info := r.SystemInfo()
	if info == nil {
		return nil, false
	}
	name := info.Native()
	if name == "" {
		return nil, false
	}
	return r.Get(ID(name))
}

// Get returns the manager registered for id.
func (r *Registry) Get(id ID) (Manager, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mgr, ok := r.managers[id]
	return mgr, ok
}

// MustGet returns the manager for id or an ErrUnknownSource error.
func (r *Registry) MustGet(id ID) (Manager, error) {
	mgr, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, id)
	}
	return mgr, nil
}

// All returns registered managers in definition order.
func (r *Registry) All() []Manager {
	r.mu.RLock()
	defer r.mu.RUnlock()

	managers := make([]Manager, 0, len(r.managers))
	for _, d := range defs {
		if mgr, ok := r.managers[d.ID]; ok {
			managers = append(managers, mgr)
		}
	}
	return managers
}

// DetectAll probes every registered manager concurrently.
func (r *Registry) DetectAll(ctx context.Context) map[ID]bool {
	all := r.All()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[ID]bool, len(all))
	)

	for _, mgr := range all {
		wg.Add(1)
		go func(m Manager) {
			defer wg.Done()
			ok := m.IsAvailable(ctx)

			mu.Lock()
			results[m.ID()] = ok
			mu.Unlock()
		}(mgr)
	}

	wg.Wait()
	return results
}

// Available returns the managers whose CLI is present, in definition order.
func (r *Registry) Available(ctx context.Context) []Manager {
	detected := r.DetectAll(ctx)
	var available []Manager
	for _, mgr := range r.All() {
		if detected[mgr.ID()] {
			available = append(available, mgr)
		}
	}
	return available
}
