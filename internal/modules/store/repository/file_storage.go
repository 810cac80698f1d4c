package repository

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/domain"
	"github.com/samber/oops"
)

// FileStorage implements Repository on a single JSON file.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

// NewFileStorage creates a file-based record repository at path, creating the
// parent directory if needed.
func NewFileStorage(path string) (Repository, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, oops.With("path", path, "context", "failed to create storage directory").Wrap(err)
		}
	}
	return &FileStorage{path: path}, nil
}

func (s *FileStorage) Load() (*domain.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("Failed to read record file, starting from defaults", "path", s.path, "error", err)
		}
		return domain.NewRecord(), false
	}

	record := domain.NewRecord()
	if err := json.Unmarshal(data, record); err != nil {
		slog.Error("Record file is corrupt, starting from defaults", "path", s.path, "error", err)
		return domain.NewRecord(), false
	}

	return record, true
}

func (s *FileStorage) Save(record *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return oops.With("path", s.path, "context", "failed to marshal record").Wrap(err)
	}

	// Write to a temp file and rename so a crash mid-write cannot leave a
	// truncated record behind.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return oops.With("path", s.path, "context", "failed to write record").Wrap(err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return oops.With("path", s.path, "context", "failed to replace record").Wrap(err)
	}

	return nil
}
