package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/nimbusconsole/apiserver/internal/store"
)

// MemoryStorage keeps objects in process memory. It is the default
// backend so report exports work without an object store; contents are
// lost on restart.
type MemoryStorage struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string][]byte
}

func NewMemoryStorage(bucket string) *MemoryStorage {
	return &MemoryStorage{
		bucket:  bucket,
		objects: make(map[string][]byte),
	}
}

// EnsureBucket is a no-op for the in-memory backend.
func (m *MemoryStorage) EnsureBucket(ctx context.Context) error {
	return nil
}

// Put stores a copy of the object contents.
func (m *MemoryStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

// Get opens a reader over the stored object.
func (m *MemoryStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the object if present.
func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Bucket returns the configured bucket name.
func (m *MemoryStorage) Bucket() string {
	return m.bucket
}
