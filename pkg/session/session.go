// Package session holds the authenticated user for client-side flows. The
// store is constructed once at process start, read from a durable JSON
// file, and written back on login/logout. Flow controllers receive it by
// injection and only ever read from it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// User is the session snapshot: identity plus the bearer token used for
// authenticated calls.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type Store struct {
	mu   sync.RWMutex
	path string
	user *User
}

// Open loads the persisted session, if any. A missing or unreadable file
// starts an anonymous session rather than failing.
func Open(path string) *Store {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil || u.Token == "" {
		return s
	}
	s.user = &u
	return s
}

// Current returns the authenticated user, or nil for anonymous sessions.
func (s *Store) Current() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the bearer token of the current user, empty when anonymous.
// It satisfies the client.TokenSource signature.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Token
}

// Login records the user and persists the session.
func (s *Store) Login(u User) error {
	if u.Token == "" {
		return errors.New("session: login requires a bearer token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	return s.persist()
}

// Logout clears the user and removes the persisted session.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: failed to remove session file: %w", err)
	}
	return nil
}

func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.user, "", "  ")
	if err != nil {
		return fmt.Errorf("session: failed to encode session: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("session: failed to create session dir: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: failed to write session file: %w", err)
	}
	return nil
}
