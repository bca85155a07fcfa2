package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// record is the on-disk format. last_sync is authoritative; the readable
// copy exists for humans inspecting the repository.
type record struct {
	LastSync         string `json:"last_sync"`
	LastSyncReadable string `json:"last_sync_readable"`
}

// Store persists the timestamp of the last successful sync in a small JSON
// file. It is the only durable mutable state the pipeline owns.
type Store struct {
	path   string
	logger *slog.Logger
}

func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger.With("component", "state")}
}

// Read returns the last sync time. A missing, unreadable, or malformed file
// reads as "never synced"; Read never fails.
func (s *Store) Read() (time.Time, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("read sync state", "error", err)
		}
		return time.Time{}, false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("parse sync state", "error", err)
		return time.Time{}, false
	}
	if rec.LastSync == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339, rec.LastSync)
	if err != nil {
		s.logger.Warn("parse sync state timestamp", "value", rec.LastSync, "error", err)
		return time.Time{}, false
	}
	return t, true
}

// Write persists the timestamp durably: temp file, fsync, rename.
func (s *Store) Write(t time.Time) error {
	rec := record{
		LastSync:         t.UTC().Format(time.RFC3339),
		LastSyncReadable: t.Format("2006-01-02 15:04:05"),
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sync state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".sync_state-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write sync state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("flush sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close sync state: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace sync state: %w", err)
	}
	return nil
}
