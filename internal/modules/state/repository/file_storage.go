package repository

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/herald-rss/herald/internal/modules/state/domain"
	"github.com/samber/oops"
)

// FileStorage implements state.Repository on a single JSON file mapping
// feed name to its seen ids, pretty-printed for human inspection.
type FileStorage struct {
	path string
}

// NewFileStorage creates a new file-based state repository
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads the persisted state. A missing or corrupt file yields an
// empty state rather than an error: losing dedup history means
// re-announcing at worst, while failing here would block the run.
func (s *FileStorage) Load() domain.State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read state file, starting empty", "path", s.path, "error", err)
		}
		return domain.State{}
	}

	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		slog.Warn("Failed to parse state file, starting empty", "path", s.path, "error", err)
		return domain.State{}
	}
	if state == nil {
		state = domain.State{}
	}
	return state
}

// Save writes the full state, replacing the previous file. The write
// goes through a temp file and rename to avoid partial writes.
func (s *FileStorage) Save(state domain.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return oops.With("path", s.path, "context", "failed to marshal state").Wrap(err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return oops.With("path", s.path, "context", "failed to create temp state file").Wrap(err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return oops.With("path", s.path, "context", "failed to write state").Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return oops.With("path", s.path, "context", "failed to close temp state file").Wrap(err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return oops.With("path", s.path, "context", "failed to replace state file").Wrap(err)
	}
	return nil
}
