package namecache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// DefaultConcurrency bounds parallel lookups in ResolveAll.
const DefaultConcurrency = 4

// ProgressFunc observes batch resolution. It is called once per identifier.
type ProgressFunc func(done, total int, id string)

// Resolver maps winget identifiers to display names through the cache,
// falling back to `winget show`, `winget search` and `winget list`.
type Resolver struct {
	runner   manager.Runner
	store    Store
	group    singleflight.Group
	limit    int
	progress ProgressFunc
	now      func() time.Time
	logger   zerolog.Logger
}

// NewResolver creates a resolver. A nil store keeps entries in memory.
func NewResolver(runner manager.Runner, store Store) *Resolver {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Resolver{
		runner: runner,
		store:  store,
		limit:  DefaultConcurrency,
		now:    time.Now,
		logger: log.With().Str("component", "namecache").Logger(),
	}
}

// SetConcurrency sets how many identifiers ResolveAll looks up at once.
func (r *Resolver) SetConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	r.limit = n
}

// OnProgress registers an observer for ResolveAll.
func (r *Resolver) OnProgress(fn ProgressFunc) {
	r.progress = fn
}

// Resolve returns the display name for id. Concurrent calls for the same id
// share one lookup and one cache write.
func (r *Resolver) Resolve(ctx context.Context, id string) string {
	v, _, _ := r.group.Do(id, func() (any, error) {
		return r.resolve(ctx, id), nil
	})
	return v.(string)
}

// ResolveAll resolves every id, running lookups for distinct ids in parallel.
func (r *Resolver) ResolveAll(ctx context.Context, ids []string) map[string]string {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	var (
		mu   sync.Mutex
		done int
		out  = make(map[string]string, len(unique))
	)

	g := new(errgroup.Group)
	g.SetLimit(r.limit)
	for _, id := range unique {
		g.Go(func() error {
			name := r.Resolve(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			out[id] = name
			done++
			if r.progress != nil {
				r.progress(done, len(unique), id)
			}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (r *Resolver) resolve(ctx context.Context, id string) string {
	entry, ok, err := r.store.Get(id)
	if err != nil {
		r.logger.Warn().Err(err).Str("id", id).Msg("name cache read failed")
	}
	if ok && entry.DisplayName != "" {
		return entry.DisplayName
	}

	name := r.lookup(ctx, id)
	if name == "" {
		name = fallbackName(id)
		r.logger.Debug().Str("id", id).Str("name", name).Msg("using identifier-derived name")
	}

	if err := r.store.Put(Entry{PackageID: id, CachedAt: r.now().UTC(), DisplayName: name}); err != nil {
		r.logger.Warn().Err(err).Str("id", id).Msg("name cache write failed")
	}
	return name
}

func (r *Resolver) lookup(ctx context.Context, id string) string {
	if res := r.runner.Run(ctx, "winget", "show", id, "--disable-interactivity"); res.OK() && res.Stdout != "" {
		if name := parseShow(res.Stdout, id); name != "" {
			return name
		}
	}
	if res := r.runner.Run(ctx, "winget", "search", "-e", "--id", id, "--disable-interactivity"); res.OK() && res.Stdout != "" {
		if name := parseTable(res.Stdout, id); name != "" {
			return name
		}
	}
	if res := r.runner.Run(ctx, "winget", "list", "-e", "--id", id, "--disable-interactivity"); res.OK() && res.Stdout != "" {
		if name := parseTable(res.Stdout, id); name != "" {
			return name
		}
	}
	return ""
}
