// Package history records the package operations apttool ran, in a BoltDB
// file under the data directory.
package history

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Operation represents the type of package operation.
type Operation string

const (
	OpInstall Operation = "install"
	OpRemove  Operation = "remove"
	OpPurge   Operation = "purge"
	OpUpdate  Operation = "update"
)

// Entry represents a single operation in the history.
type Entry struct {
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Operation Operation `json:"operation" yaml:"operation"`
	Frontend  string    `json:"frontend" yaml:"frontend"` // apt-get or nala
	Packages  []string  `json:"packages" yaml:"packages"`
	Success   bool      `json:"success" yaml:"success"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewEntry creates a new history entry.
func NewEntry(op Operation, frontend string, packages []string) *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Operation: op,
		Frontend:  frontend,
		Packages:  packages,
	}
}

// MarkSuccess marks the entry as successful.
func (e *Entry) MarkSuccess() {
	e.Success = true
	e.Error = ""
}

// MarkFailed marks the entry as failed with an error message.
func (e *Entry) MarkFailed(err error) {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
}

// Finish marks the entry from the outcome of the operation.
func (e *Entry) Finish(err error) {
	if err != nil {
		e.MarkFailed(err)
		return
	}
	e.MarkSuccess()
}

// ShortID returns the first block of the ID.
func (e *Entry) ShortID() string {
	if i := strings.IndexByte(e.ID, '-'); i > 0 {
		return e.ID[:i]
	}
	return e.ID
}

// FormatTime returns a human-readable timestamp.
func (e *Entry) FormatTime() string {
	return e.Timestamp.Format("2006-01-02 15:04:05")
}

// Summary returns a brief summary of the operation.
func (e *Entry) Summary() string {
	status := "success"
	if !e.Success {
		status = "failed"
	}

	line := e.FormatTime() + " " + string(e.Operation)
	if len(e.Packages) > 0 {
		line += " " + strings.Join(e.Packages, " ")
	}
	return line + " [" + e.Frontend + "] (" + status + ")"
}
