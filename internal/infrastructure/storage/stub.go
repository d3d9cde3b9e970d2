package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	supplyapp "github.com/agrisupply/backend/internal/application/supply"
)

// Ensure StubObjectStorage implements ObjectStorageService
var _ supplyapp.ObjectStorageService = (*StubObjectStorage)(nil)

// StubObjectStorage is an in-memory ObjectStorageService for local
// development and tests. URLs it returns are not usable, only inspectable.
type StubObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]bool
}

// NewStubObjectStorage creates a new in-memory object storage stub
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{objects: make(map[string]bool)}
}

// GenerateUploadURL returns a fake upload URL and marks the key as present
func (s *StubObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	s.mu.Lock()
	s.objects[storageKey] = true
	s.mu.Unlock()
	return fmt.Sprintf("https://storage.invalid/upload/%s", storageKey), time.Now().Add(expiresIn), nil
}

// GenerateDownloadURL returns a fake download URL
func (s *StubObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return fmt.Sprintf("https://storage.invalid/download/%s", storageKey), time.Now().Add(expiresIn), nil
}

// DeleteObject removes a key from the stub
func (s *StubObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	s.mu.Lock()
	delete(s.objects, storageKey)
	s.mu.Unlock()
	return nil
}

// ObjectExists reports whether a key was uploaded through this stub
func (s *StubObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects[storageKey], nil
}
