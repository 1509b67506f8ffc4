// Package restore turns a selection of identifiers into install commands and
// either runs them or writes them out as a script.
package restore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// ErrEmptyRequest is returned for a request without identifiers.
var ErrEmptyRequest = errors.New("restore request has no identifiers")

// Request selects what to reinstall on one target.
type Request struct {
	Target      manager.ID        `json:"target"`
	Identifiers []string          `json:"identifiers"`
	Versions    map[string]string `json:"versions,omitempty"`
	// WSL restores the WSL track of an extension host.
	WSL bool `json:"wsl,omitempty"`
}

// Validate checks the request shape.
func (r Request) Validate() error {
	if _, ok := manager.Lookup(r.Target); !ok {
		return fmt.Errorf("%w: %q", manager.ErrUnknownSource, r.Target)
	}
	if len(r.Identifiers) == 0 {
		return ErrEmptyRequest
	}
	for _, id := range r.Identifiers {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: blank identifier", ErrEmptyRequest)
		}
	}
	if r.WSL && !r.Target.IsHost() {
		return fmt.Errorf("%s has no WSL track", r.Target)
	}
	return nil
}

// CommandBuilder builds the install command for one identifier.
// Every manager adapter satisfies it.
type CommandBuilder interface {
	InstallCommand(identifier, version string) manager.Command
}

// Commands builds one command per identifier in the order they were given.
func Commands(req Request, b CommandBuilder) ([]manager.Command, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	cmds := make([]manager.Command, 0, len(req.Identifiers))
	for _, id := range req.Identifiers {
		cmds = append(cmds, b.InstallCommand(id, req.Versions[id]))
	}
	return cmds, nil
}
