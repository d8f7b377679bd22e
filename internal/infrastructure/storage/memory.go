package storage

import (
	"context"
	"sync"
	"time"
)

// Ensure MemoryObjectStorage implements ObjectStorage
var _ ObjectStorage = (*MemoryObjectStorage)(nil)

// MemoryObjectStorage keeps objects in a map. For development and tests; the
// presigned URLs it mints are not routable.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// BaseURL prefixes the fake presigned URLs
	BaseURL string
}

// NewMemoryObjectStorage creates an empty in-memory store
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		objects: make(map[string][]byte),
		BaseURL: "https://storage.invalid",
	}
}

// GenerateUploadURL returns a fake presigned PUT URL
func (m *MemoryObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrObjectNotFound
	}
	expiresAt := time.Now().Add(expiresIn)
	return m.BaseURL + "/upload/" + storageKey, expiresAt, nil
}

// GenerateDownloadURL returns a fake presigned GET URL
func (m *MemoryObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrObjectNotFound
	}
	expiresAt := time.Now().Add(expiresIn)
	return m.BaseURL + "/download/" + storageKey, expiresAt, nil
}

// Upload stores the object in memory
func (m *MemoryObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[storageKey] = buf
	return nil
}

// Download fetches a stored object
func (m *MemoryObjectStorage) Download(ctx context.Context, storageKey string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[storageKey]
	if !ok {
		return nil, ErrObjectNotFound
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// DeleteObject removes an object; deleting a missing key succeeds
func (m *MemoryObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, storageKey)
	return nil
}

// ObjectExists reports whether the key holds an object
func (m *MemoryObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[storageKey]
	return ok, nil
}
