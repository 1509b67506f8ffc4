package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/kakehashi-inc/app-backup-restore/internal/config"
	"github.com/kakehashi-inc/app-backup-restore/internal/history"
	"github.com/kakehashi-inc/app-backup-restore/internal/ui"
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// sourceArg returns the source named by args[0], prompting for an available
// source when none was given.
func sourceArg(ctx context.Context, args []string) (manager.ID, error) {
	if len(args) > 0 {
		return manager.ParseID(args[0])
	}
	if !ui.Interactive() {
		return "", ErrNoSource
	}

	detected := service().DetectAvailableSources(ctx)
	var names []string
	for _, m := range service().Sources() {
		if detected[m.ID()] {
			names = append(names, string(m.ID()))
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: no source is available on this system", ErrNoSource)
	}

	choice, err := ui.Select("Source", names)
	if err != nil {
		return "", err
	}
	return manager.ID(choice), nil
}

// parseIDs converts source names to ids.
func parseIDs(names []string) ([]manager.ID, error) {
	ids := make([]manager.ID, 0, len(names))
	for _, name := range names {
		id, err := manager.ParseID(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseVersions parses id=version pairs.
func parseVersions(pairs []string) (map[string]string, error) {
	versions := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		id, version, ok := strings.Cut(pair, "=")
		id = strings.TrimSpace(id)
		version = strings.TrimSpace(version)
		if !ok || id == "" || version == "" {
			return nil, fmt.Errorf("invalid version %q (want id=version)", pair)
		}
		versions[id] = version
	}
	return versions, nil
}

// splitList flattens comma-separated flag values and drops blanks.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// recordHistory appends entry to the run history. Failures only log.
func recordHistory(entry *history.Entry) {
	if err := config.EnsureDataDir(); err != nil {
		log.Warn().Err(err).Msg("history unavailable")
		return
	}
	store, err := history.Open(config.HistoryPath())
	if err != nil {
		log.Warn().Err(err).Msg("history unavailable")
		return
	}
	defer store.Close()

	if err := store.Record(entry); err != nil {
		log.Warn().Err(err).Msg("failed to record history")
	}
}

var (
	spinnerMu     sync.Mutex
	activeSpinner *ui.Spinner
)

// startSpinner shows message until the returned stop function is called.
// Display-name lookups report progress on it while it runs.
func startSpinner(message string) (*ui.Spinner, func()) {
	sp := ui.NewSpinner(message)
	sp.Start()

	spinnerMu.Lock()
	activeSpinner = sp
	spinnerMu.Unlock()

	return sp, func() {
		spinnerMu.Lock()
		activeSpinner = nil
		spinnerMu.Unlock()
		sp.Stop()
	}
}

// nameProgress feeds display-name resolution progress to the active spinner.
func nameProgress(done, total int, id string) {
	spinnerMu.Lock()
	defer spinnerMu.Unlock()
	if activeSpinner != nil {
		activeSpinner.Progress("Resolving names", done, total)
	}
}
