// Package apiclient is the Go client for the medvault backend. It persists
// the session token pair, attaches the bearer token to outgoing requests,
// and transparently refreshes an expired access token once per request.
package apiclient

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// TokenPair is the access/refresh credential pair issued by the backend.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenStore holds the current session credentials.
type TokenStore interface {
	Get() (TokenPair, bool)
	Set(pair TokenPair) error
	Clear() error
}

// MemoryTokenStore keeps the pair in memory only.
type MemoryTokenStore struct {
	mu   sync.RWMutex
	pair *TokenPair
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Get() (TokenPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pair == nil {
		return TokenPair{}, false
	}
	return *s.pair, true
}

func (s *MemoryTokenStore) Set(pair TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = &pair
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = nil
	return nil
}

// FileTokenStore persists the pair as JSON so sessions survive restarts.
// The file is created with 0600 permissions.
type FileTokenStore struct {
	mu   sync.RWMutex
	path string
	pair *TokenPair
}

func NewFileTokenStore(path string) (*FileTokenStore, error) {
	s := &FileTokenStore{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	var pair TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		// A corrupt token file means a fresh login, not a dead client.
		return s, nil
	}
	if pair.AccessToken != "" || pair.RefreshToken != "" {
		s.pair = &pair
	}
	return s, nil
}

func (s *FileTokenStore) Get() (TokenPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pair == nil {
		return TokenPair{}, false
	}
	return *s.pair, true
}

func (s *FileTokenStore) Set(pair TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(pair)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return err
	}
	s.pair = &pair
	return nil
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
