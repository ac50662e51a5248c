package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/evergreen-hs/hallpass-api/internal/models"
)

// PassLogRepository persists the per-student pass event log as a single JSON
// document, the same shape the legacy system wrote. The in-memory registry
// owns the live log; this store only loads it at startup and rewrites it
// after each release.
type PassLogRepository struct {
	path string
}

// NewPassLogRepository binds the store to its file path.
func NewPassLogRepository(path string) *PassLogRepository {
	return &PassLogRepository{path: path}
}

// Load reads the full log. A missing or corrupt file yields an empty log;
// persistence problems must never stop the service from starting.
func (r *PassLogRepository) Load() (map[int64][]models.PassEvent, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[int64][]models.PassEvent{}, nil
		}
		return map[int64][]models.PassEvent{}, fmt.Errorf("read pass log: %w", err)
	}

	log := map[int64][]models.PassEvent{}
	if err := json.Unmarshal(data, &log); err != nil {
		return map[int64][]models.PassEvent{}, fmt.Errorf("decode pass log: %w", err)
	}
	return log, nil
}

// Save rewrites the whole log atomically (temp file plus rename).
func (r *PassLogRepository) Save(log map[int64][]models.PassEvent) error {
	data, err := json.MarshalIndent(log, "", "    ")
	if err != nil {
		return fmt.Errorf("encode pass log: %w", err)
	}
	return writeFileAtomic(r.path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
