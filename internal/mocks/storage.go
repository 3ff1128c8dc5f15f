package mocks

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/content-modeling-api/internal/storage"
)

var _ storage.BlobStore = (*MockBlobStore)(nil)

// MockBlobStore keeps objects in memory
type MockBlobStore struct {
	mu sync.Mutex

	Objects  map[string][]byte
	Types    map[string]string
	PutError error
}

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{
		Objects: make(map[string][]byte),
		Types:   make(map[string]string),
	}
}

func (m *MockBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.PutError != nil {
		return m.PutError
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	m.Types[key] = contentType
	return nil
}

func (m *MockBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(m.Objects, key)
	delete(m.Types, key)
	return nil
}
