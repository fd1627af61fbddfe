package storage

import "time"

type StorageOption func(*StorageEngine)

// WithDataFile sets the backing file every mutation is persisted to.
// Without it the engine keeps its data in memory only.
func WithDataFile(path string) StorageOption {
	return func(engine *StorageEngine) {
		engine.dataFile = path
	}
}

// WithIDGenerator replaces the UUID generator used for records created without an id
func WithIDGenerator(gen func() string) StorageOption {
	return func(engine *StorageEngine) {
		engine.newID = gen
	}
}

// WithSnapshotFile sets the path compressed snapshots are written to
func WithSnapshotFile(path string) StorageOption {
	return func(engine *StorageEngine) {
		engine.snapshotFile = path
	}
}

// WithBackgroundSnapshot enables a worker writing a snapshot every interval
func WithBackgroundSnapshot(path string, interval time.Duration) StorageOption {
	return func(engine *StorageEngine) {
		engine.snapshotFile = path
		engine.snapshotInterval = interval
	}
}
