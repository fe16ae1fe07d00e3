package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cocktail-odyssey/internal/models"
)

// Storage keys, fixed names shared with the browser front end's localStorage.
const (
	storeKeyToken = "token"
	storeKeyUser  = "user"
)

// CredentialStore persists the bearer token and the signed-in user profile
// as a small key/value JSON file, the CLI-side stand-in for localStorage.
type CredentialStore struct {
	path string
}

func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

func (s *CredentialStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read credential store %q: %w", s.path, err)
	}
	kv := map[string]string{}
	if err := json.Unmarshal(raw, &kv); err != nil {
		return nil, fmt.Errorf("parse credential store %q: %w", s.path, err)
	}
	return kv, nil
}

func (s *CredentialStore) save(kv map[string]string) error {
	raw, err := json.Marshal(kv)
	if err != nil {
		return fmt.Errorf("encode credential store: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create credential store dir %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write credential store %q: %w", s.path, err)
	}
	return nil
}

// SetCredentials stores the token and user profile returned by register/login.
func (s *CredentialStore) SetCredentials(token string, user models.UserView) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user profile: %w", err)
	}
	return s.save(map[string]string{
		storeKeyToken: token,
		storeKeyUser:  string(userJSON),
	})
}

// Token returns the persisted bearer token, "" when signed out.
func (s *CredentialStore) Token() string {
	kv, err := s.load()
	if err != nil {
		return ""
	}
	return kv[storeKeyToken]
}

// User returns the persisted profile; ok is false when signed out.
func (s *CredentialStore) User() (models.UserView, bool) {
	kv, err := s.load()
	if err != nil {
		return models.UserView{}, false
	}
	raw, present := kv[storeKeyUser]
	if !present || raw == "" {
		return models.UserView{}, false
	}
	var u models.UserView
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return models.UserView{}, false
	}
	return u, true
}

// Clear signs the client out by removing the store file.
func (s *CredentialStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear credential store %q: %w", s.path, err)
	}
	return nil
}
