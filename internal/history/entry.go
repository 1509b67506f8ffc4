// Package history records backup and restore runs with BoltDB.
package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Operation represents the kind of run.
type Operation string

const (
	OpBackup          Operation = "backup"
	OpRestore         Operation = "restore"
	OpScript          Operation = "script"
	OpSettingsBackup  Operation = "settings-backup"
	OpSettingsRestore Operation = "settings-restore"
	OpFilesBackup     Operation = "files-backup"
	OpFilesRestore    Operation = "files-restore"
)

// Item statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// ItemOutcome is the result for one identifier, source or file within a run.
type ItemOutcome struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Entry represents a single run in the history.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Operation Operation     `json:"operation"`
	Target    string        `json:"target"` // Source, host or config app; empty for multi-source backups
	WSL       bool          `json:"wsl,omitempty"`
	Items     []ItemOutcome `json:"items"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// NewEntry creates a new history entry.
func NewEntry(op Operation, target string) *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Operation: op,
		Target:    target,
		Items:     []ItemOutcome{},
		Success:   false, // Will be updated after the run completes
	}
}

// AddOutcome appends the result for one item.
func (e *Entry) AddOutcome(name string, err error) {
	o := ItemOutcome{Name: name, Status: StatusOK}
	if err != nil {
		o.Status = StatusFailed
		o.Message = err.Error()
	}
	e.Items = append(e.Items, o)
}

// AddStatus appends an item with an explicit status.
func (e *Entry) AddStatus(name, status, message string) {
	e.Items = append(e.Items, ItemOutcome{Name: name, Status: status, Message: message})
}

// Finish marks the entry successful when no item failed.
func (e *Entry) Finish() {
	e.Success = e.FailedCount() == 0
}

// MarkSuccess marks the entry as successful.
func (e *Entry) MarkSuccess() {
	e.Success = true
}

// MarkFailed marks the entry as failed with an error message.
func (e *Entry) MarkFailed(err error) {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
}

// FailedCount returns how many items did not succeed.
func (e *Entry) FailedCount() int {
	n := 0
	for _, it := range e.Items {
		if it.Status != StatusOK {
			n++
		}
	}
	return n
}

// FormatTime returns a human-readable timestamp.
func (e *Entry) FormatTime() string {
	return e.Timestamp.Format("2006-01-02 15:04:05")
}

// Summary returns a brief summary of the run.
func (e *Entry) Summary() string {
	status := "success"
	if !e.Success {
		status = "failed"
	}

	target := e.Target
	if target == "" {
		target = "all"
	}
	if e.WSL {
		target += " (wsl)"
	}

	if len(e.Items) == 0 {
		return fmt.Sprintf("%s %s %s (%s)", e.FormatTime(), e.Operation, target, status)
	}
	return fmt.Sprintf("%s %s %s %d/%d ok (%s)",
		e.FormatTime(), e.Operation, target, len(e.Items)-e.FailedCount(), len(e.Items), status)
}
