package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/evergreen-hs/hallpass-api/internal/models"
)

// AuditLogRepository persists the append-only trail of rejected pass
// requests as a JSON array, matching the legacy audit log file.
type AuditLogRepository struct {
	path string
}

// NewAuditLogRepository binds the store to its file path.
func NewAuditLogRepository(path string) *AuditLogRepository {
	return &AuditLogRepository{path: path}
}

// Load reads the trail; missing or corrupt files fall back to empty.
func (r *AuditLogRepository) Load() ([]models.AuditEntry, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.AuditEntry{}, nil
		}
		return []models.AuditEntry{}, fmt.Errorf("read audit log: %w", err)
	}

	var entries []models.AuditEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return []models.AuditEntry{}, fmt.Errorf("decode audit log: %w", err)
	}
	return entries, nil
}

// Save rewrites the trail atomically.
func (r *AuditLogRepository) Save(entries []models.AuditEntry) error {
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("encode audit log: %w", err)
	}
	return writeFileAtomic(r.path, data)
}
