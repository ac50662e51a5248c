package repository

import (
	"encoding/json"
	"fmt"
	"os"
)

type credentialFile struct {
	AdminPassword string `json:"admin_password"`
}

// CredentialRepository persists the single admin credential. The stored
// value is normally a bcrypt hash; legacy files holding a plaintext password
// still load and are upgraded on the next successful login.
type CredentialRepository struct {
	path string
}

// NewCredentialRepository binds the store to its file path.
func NewCredentialRepository(path string) *CredentialRepository {
	return &CredentialRepository{path: path}
}

// Load returns the stored secret, or ErrNotFound when no file exists yet.
func (r *CredentialRepository) Load() (string, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read credentials: %w", err)
	}

	var file credentialFile
	if err := json.Unmarshal(data, &file); err != nil {
		return "", fmt.Errorf("decode credentials: %w", err)
	}
	if file.AdminPassword == "" {
		return "", ErrNotFound
	}
	return file.AdminPassword, nil
}

// Save stores the secret.
func (r *CredentialRepository) Save(secret string) error {
	data, err := json.MarshalIndent(credentialFile{AdminPassword: secret}, "", "    ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	return writeFileAtomic(r.path, data)
}
