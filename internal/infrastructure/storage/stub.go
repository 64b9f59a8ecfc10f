package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	signingapp "github.com/signly/backend/internal/application/signing"
)

// MemoryObjectStorage is an in-memory implementation of ObjectStorageService.
// Uploaded objects live in a map; download URLs are synthetic. Use it for
// development and tests until a real S3 backend is configured.
type MemoryObjectStorage struct {
	// BaseURL is the base URL for generated download URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryObjectStorage creates a new MemoryObjectStorage
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Ensure MemoryObjectStorage implements ObjectStorageService
var _ signingapp.ObjectStorageService = (*MemoryObjectStorage)(nil)

// Upload stores the object bytes in memory
func (s *MemoryObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[storageKey] = buf
	return nil
}

// GenerateDownloadURL generates a synthetic download URL for a stored object
func (s *MemoryObjectStorage) GenerateDownloadURL(
	ctx context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/download/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// DeleteObject removes the object from memory; deleting a missing key succeeds
func (s *MemoryObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// ObjectExists reports whether the key has been uploaded
func (s *MemoryObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

// Get returns the stored bytes for a key, for test assertions
func (s *MemoryObjectStorage) Get(storageKey string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[storageKey]
	return data, ok
}
