// Package storage provides persistence backends for skill profiles.
// Supported backends: JSON file and in-memory.
package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"infra-review/core/skills"
	"infra-review/internal/errors"
)

// Backend is a storage backend type
type Backend string

const (
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

// FileStore keeps the profile in a single JSON file.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore creates a file store at path, creating parent directories.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Storage("failed to create storage directory", err)
	}
	return &FileStore{path: path}, nil
}

// Load reads the stored profile. A missing file yields a fresh profile, and
// fields absent from older files keep their zero values.
func (s *FileStore) Load(ctx context.Context) (*skills.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return skills.NewProfile(), nil
		}
		return nil, errors.Storage("failed to read profile", err)
	}

	profile := skills.NewProfile()
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, errors.Storage("failed to unmarshal profile", err)
	}
	if profile.Skills == nil {
		profile.Skills = map[string]skills.SkillState{}
	}
	return profile, nil
}

// Save writes the profile through a temp file and rename so a crash never
// leaves a half-written profile behind.
func (s *FileStore) Save(ctx context.Context, profile *skills.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return errors.Storage("failed to marshal profile", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Storage("failed to write profile", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Storage("failed to replace profile", err)
	}
	return nil
}

// MemoryStore keeps the profile in memory (for testing).
type MemoryStore struct {
	profile *skills.Profile
	mu      sync.RWMutex
}

// NewMemoryStore creates a memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*skills.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.profile == nil {
		return skills.NewProfile(), nil
	}
	return s.profile, nil
}

func (s *MemoryStore) Save(ctx context.Context, profile *skills.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = profile
	return nil
}

// StoreFactory creates stores by backend type
func StoreFactory(backend Backend, path string) (skills.Store, error) {
	switch backend {
	case BackendFile:
		if path == "" {
			path = filepath.Join(".infra-review", "profile.json")
		}
		return NewFileStore(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.Newf(errors.TypeInput, "unsupported backend: %s", backend)
	}
}

// Ensure the skills port is implemented
var _ skills.Store = (*FileStore)(nil)
var _ skills.Store = (*MemoryStore)(nil)
