// Package identity answers "who is using this client". The session core
// only reads it; login and logout write it.
package identity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-yaml"
)

// Provider returns the current user's opaque identifier, or false when no
// one is logged in.
type Provider interface {
	UserID() (string, bool)
}

// Static is a fixed identity. The empty value is unauthenticated.
type Static string

func (s Static) UserID() (string, bool) {
	id := strings.TrimSpace(string(s))
	return id, id != ""
}

// Credentials are what a successful login leaves behind.
type Credentials struct {
	UserID    string    `yaml:"user_id"`
	AuthToken string    `yaml:"auth_token"`
	SavedAt   time.Time `yaml:"saved_at"`
}

// Authenticated mirrors the browser gate: a stored token means logged in.
func (c *Credentials) Authenticated() bool {
	return c != nil && c.AuthToken != ""
}

// FileStore keeps credentials in a YAML file readable only by the owner.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created lazily.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the stored credentials. A missing file yields empty
// credentials and no error.
func (s *FileStore) Load() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Credentials{}, nil
		}
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse identity file: %w", err)
	}
	return &creds, nil
}

// Save replaces the stored credentials.
func (s *FileStore) Save(creds *Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if creds.SavedAt.IsZero() {
		creds.SavedAt = time.Now().UTC()
	}
	data, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create identity directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write identity file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace identity file: %w", err)
	}
	return nil
}

// Clear removes both the token and the user id.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove identity file: %w", err)
	}
	return nil
}

// UserID implements Provider. Unreadable files and files without a token
// count as logged out.
func (s *FileStore) UserID() (string, bool) {
	creds, err := s.Load()
	if err != nil || !creds.Authenticated() {
		return "", false
	}
	return Static(creds.UserID).UserID()
}
