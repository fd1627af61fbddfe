package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dreamcatcher45/jserve/pkg/domain"
)

var _ domain.StorageEngine = (*StorageEngine)(nil)

// StorageEngine owns the in-memory database and the backing file it mirrors
type StorageEngine struct {
	mu sync.RWMutex
	db *Database

	// version counts applied mutations; guarded by mu
	version uint64

	// saveMu serializes file writes so an older encoding never overwrites a newer one
	saveMu           sync.Mutex
	persistedVersion uint64

	// Configuration
	dataFile         string
	newID            func() string
	snapshotFile     string
	snapshotInterval time.Duration

	// Background workers
	backgroundWg    sync.WaitGroup
	stopChan        chan struct{}
	stopOnce        sync.Once
	snapshotVersion uint64
}

// NewStorageEngine creates a new storage engine holding an empty database
func NewStorageEngine(options ...StorageOption) *StorageEngine {
	engine := &StorageEngine{
		newID:    uuid.NewString,
		stopChan: make(chan struct{}),
	}

	// Apply options
	for _, option := range options {
		option(engine)
	}

	engine.db = NewDatabase(engine.newID)
	return engine
}

// withRead executes fn while holding shared access to the database
func (se *StorageEngine) withRead(fn func() error) error {
	se.mu.RLock()
	defer se.mu.RUnlock()
	return fn()
}

// withWrite executes fn while holding exclusive access to the database
func (se *StorageEngine) withWrite(fn func() error) error {
	se.mu.Lock()
	defer se.mu.Unlock()
	return fn()
}

// DataFile returns the path of the backing file, if any
func (se *StorageEngine) DataFile() string {
	return se.dataFile
}

// ListCollections returns the names of all collections in sorted order
func (se *StorageEngine) ListCollections() []string {
	var names []string
	se.withRead(func() error {
		names = se.db.Names()
		return nil
	})
	return names
}
