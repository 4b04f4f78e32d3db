package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
)

// MemoryBlobs is an in-memory blob store for tests.
type MemoryBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailUpload makes the next uploads fail with this error.
	FailUpload error
}

// NewMemoryBlobs returns an empty MemoryBlobs.
func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{objects: make(map[string][]byte)}
}

// Upload stores body under path.
func (m *MemoryBlobs) Upload(ctx context.Context, path string, body io.Reader, contentType string) (string, error) {
	if m.FailUpload != nil {
		return "", m.FailUpload
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = data
	return path, nil
}

// DownloadURL returns a fake URL for a stored object.
func (m *MemoryBlobs) DownloadURL(ctx context.Context, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[path]; !ok {
		return "", errors.New("object not found")
	}
	return "memory://" + path, nil
}

// Delete removes an object.
func (m *MemoryBlobs) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

// Has reports whether path holds content equal to want.
func (m *MemoryBlobs) Has(path string, want []byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	got, ok := m.objects[path]
	return ok && bytes.Equal(got, want)
}

// Len counts stored objects.
func (m *MemoryBlobs) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
