package telegram

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gotd/td/session"
)

// FileSessionStorage persists the MTProto session on disk so the account does
// not have to re-authenticate on every start. One file per phone number; the
// phone is hashed into the filename to keep it out of directory listings.
type FileSessionStorage struct {
	path string
}

// NewFileSessionStorage creates the session directory and returns a storage
// bound to the given phone number.
func NewFileSessionStorage(dir, phoneNumber string) (*FileSessionStorage, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	sum := sha256.Sum256([]byte(phoneNumber))
	name := fmt.Sprintf("session_%s.json", hex.EncodeToString(sum[:8]))
	return &FileSessionStorage{path: filepath.Join(dir, name)}, nil
}

// LoadSession implements session.Storage.
func (s *FileSessionStorage) LoadSession(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	if len(data) == 0 {
		return nil, session.ErrNotFound
	}
	return data, nil
}

// StoreSession implements session.Storage.
func (s *FileSessionStorage) StoreSession(_ context.Context, data []byte) error {
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Path returns the session file location.
func (s *FileSessionStorage) Path() string {
	return s.path
}
