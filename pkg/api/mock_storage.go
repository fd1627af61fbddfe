package api

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dreamcatcher45/jserve/pkg/domain"
)

var _ domain.StorageEngine = (*MockStorageEngine)(nil)

// MockStorageEngine provides a mock implementation of domain.StorageEngine for testing
type MockStorageEngine struct {
	mu          sync.RWMutex
	collections map[string][]domain.Record
	nextID      int
	insertCalls int
	findCalls   int

	// SaveErr, when set, is returned wrapped in domain.ErrPersist by every
	// mutation after the change has been applied.
	SaveErr error
}

// NewMockStorageEngine creates a new mock storage engine
func NewMockStorageEngine() *MockStorageEngine {
	return &MockStorageEngine{
		collections: make(map[string][]domain.Record),
	}
}

func (m *MockStorageEngine) persistErr() error {
	if m.SaveErr != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersist, m.SaveErr)
	}
	return nil
}

func (m *MockStorageEngine) find(collName, id string) ([]domain.Record, int, error) {
	records, ok := m.collections[collName]
	if !ok {
		return nil, -1, domain.ErrCollectionNotFound
	}
	for i, rec := range records {
		if recID, ok := rec.ID(); ok && recID == id {
			return records, i, nil
		}
	}
	return records, -1, domain.ErrItemNotFound
}

// FindAll returns every record in a collection
func (m *MockStorageEngine) FindAll(collName string) ([]domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.findCalls++
	records, ok := m.collections[collName]
	if !ok {
		return nil, domain.ErrCollectionNotFound
	}
	out := make([]domain.Record, len(records))
	copy(out, records)
	return out, nil
}

// GetById retrieves a record by id
func (m *MockStorageEngine) GetById(collName, id string) (domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records, pos, err := m.find(collName, id)
	if err != nil {
		return nil, err
	}
	return records[pos], nil
}

// Insert adds a record to a collection, assigning a sequential id when absent
func (m *MockStorageEngine) Insert(collName string, payload interface{}) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insertCalls++
	rec, ok := domain.AsRecord(payload)
	if !ok {
		return "", domain.ErrInvalidPayload
	}
	rec = rec.Clone()

	raw, present := rec[domain.IDField]
	id, isString := raw.(string)
	if present && !isString {
		return "", domain.ErrInvalidPayload
	}
	if !present {
		m.nextID++
		id = fmt.Sprintf("%d", m.nextID)
		rec[domain.IDField] = id
	} else if _, _, err := m.find(collName, id); err == nil {
		return "", domain.ErrDuplicateID
	}

	m.collections[collName] = append(m.collections[collName], rec)
	return id, m.persistErr()
}

// ReplaceById replaces a record, keeping the path id
func (m *MockStorageEngine) ReplaceById(collName, id string, payload interface{}) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := domain.AsRecord(payload)
	if !ok {
		return "", domain.ErrInvalidPayload
	}
	records, pos, err := m.find(collName, id)
	if err != nil {
		return "", err
	}
	rec = rec.Clone()
	rec[domain.IDField] = id
	records[pos] = rec
	return id, m.persistErr()
}

// DeleteById removes a record and returns it
func (m *MockStorageEngine) DeleteById(collName, id string) (domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records, pos, err := m.find(collName, id)
	if err != nil {
		return nil, err
	}
	removed := records[pos]
	m.collections[collName] = append(records[:pos:pos], records[pos+1:]...)
	return removed, m.persistErr()
}

// ListCollections returns the collection names in sorted order
func (m *MockStorageEngine) ListCollections() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InsertCalls returns how many times Insert was called
func (m *MockStorageEngine) InsertCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.insertCalls
}

// FindCalls returns how many times FindAll was called
func (m *MockStorageEngine) FindCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findCalls
}
