// Package audit provides an append-only JSONL log of migrations applied to
// prefab files, written alongside the target tree.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry records one processed prefab.
type Entry struct {
	Timestamp   time.Time `json:"ts"`
	Op          string    `json:"op"` // migrate, plan
	File        string    `json:"file"`
	Applied     int       `json:"applied"`
	Skipped     int       `json:"skipped"`
	Removed     int       `json:"removed"`
	Substituted int       `json:"substituted"`
	DryRun      bool      `json:"dry_run,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// Logger appends entries to the audit log. A disabled logger is a no-op, so
// callers never branch on configuration.
type Logger struct {
	path    string
	enabled bool
	mu      sync.Mutex
}

// New creates an audit logger writing under root/.prefabmig/audit.log.
func New(root string, enabled bool) *Logger {
	if !enabled {
		return &Logger{}
	}
	return &Logger{
		path:    filepath.Join(root, ".prefabmig", "audit.log"),
		enabled: true,
	}
}

// Log appends one entry. The timestamp is filled in when zero.
func (l *Logger) Log(entry Entry) error {
	if !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create audit directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}
	return nil
}
