// mocks.go - Mock collaborators for testing
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jordaneaster/sb-generator/internal/components"
	"github.com/jordaneaster/sb-generator/internal/models"
	"github.com/jordaneaster/sb-generator/internal/storage"
)

// MockRepository implements components.Repository over in-memory maps
type MockRepository struct {
	mu    sync.RWMutex
	lists map[string][]models.ComponentDescriptor
	data  map[string][]byte

	// Error injection
	ListErr  error
	FetchErr error
}

// NewMockRepository creates an empty mock component repository
func NewMockRepository() *MockRepository {
	return &MockRepository{
		lists: make(map[string][]models.ComponentDescriptor),
		data:  make(map[string][]byte),
	}
}

func listKey(species, category string) string {
	return species + "/" + category
}

// AddComponent registers a component and its bytes under species/category
func (m *MockRepository) AddComponent(species, category, name string, data []byte) models.ComponentDescriptor {
	m.mu.Lock()
	defer m.mu.Unlock()

	locator := species + "/" + category + "/" + name
	d := models.ComponentDescriptor{
		Locator:     locator,
		DisplayName: name,
		Kind:        models.KindForName(name),
	}
	key := listKey(species, category)
	m.lists[key] = append(m.lists[key], d)
	m.data[locator] = data
	return d
}

func (m *MockRepository) List(ctx context.Context, species, category string) ([]models.ComponentDescriptor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}
	list := m.lists[listKey(species, category)]
	return append([]models.ComponentDescriptor(nil), list...), nil
}

func (m *MockRepository) Fetch(ctx context.Context, locator string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	data, ok := m.data[locator]
	if !ok {
		return nil, errors.New("component not found: " + locator)
	}
	return data, nil
}

// Ensure MockRepository implements components.Repository
var _ components.Repository = (*MockRepository)(nil)

// MockStore implements storage.Store recording every Put
type MockStore struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// Error injection
	PutErr error
}

// NewMockStore creates an empty mock artifact store
func NewMockStore() *MockStore {
	return &MockStore{objects: make(map[string][]byte)}
}

func (m *MockStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PutErr != nil {
		return "", m.PutErr
	}
	m.objects[key] = append([]byte(nil), data...)
	return m.URL(key), nil
}

func (m *MockStore) URL(key string) string {
	return "mock://" + key
}

// Ensure MockStore implements storage.Store
var _ storage.Store = (*MockStore)(nil)

// Object returns the stored bytes for a key
func (m *MockStore) Object(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	return data, ok
}

// Keys returns all stored keys, sorted
func (m *MockStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of stored objects
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
