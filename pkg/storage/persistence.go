package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dreamcatcher45/jserve/pkg/domain"
)

const filePerm = 0644

// EnsureExists writes an empty JSON object to path when no file exists there
func EnsureExists(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat database file: %w", err)
	}
	if err := os.WriteFile(path, []byte("{}"), filePerm); err != nil {
		return fmt.Errorf("failed to create initial JSON file: %w", err)
	}
	log.Printf("INFO: Created empty database file %s", path)
	return nil
}

// Load reads and validates the backing file at path
func Load(path string, newID func() string) (*Database, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read database file: %w", err)
	}
	raw, err := domain.DecodeJSON(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptFile, err)
	}
	return decodeDatabase(raw, newID)
}

// Save writes the whole database to path as pretty-printed JSON
func Save(db *Database, path string) error {
	data, err := encodeDatabase(db)
	if err != nil {
		return err
	}
	return atomicWriteFile(path, data, filePerm)
}

// encodeDatabase renders the database in the on-disk JSON form. Collection
// names come out sorted, records in collection order.
func encodeDatabase(db *Database) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(db.export()); err != nil {
		return nil, fmt.Errorf("failed to serialize database to JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeDatabase validates a decoded document and builds a database from it.
// A lone object under a collection name is treated as a one-element array.
func decodeDatabase(raw interface{}, newID func() string) (*Database, error) {
	top, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: expected top-level object with arrays", domain.ErrCorruptFile)
	}

	db := NewDatabase(newID)
	for name, value := range top {
		var entries []interface{}
		switch v := value.(type) {
		case map[string]interface{}:
			entries = []interface{}{v}
		case []interface{}:
			entries = v
		default:
			return nil, fmt.Errorf("%w: collection %q: expected an array of objects", domain.ErrCorruptFile, name)
		}

		records := make([]domain.Record, 0, len(entries))
		seen := make(map[string]struct{}, len(entries))
		for i, entry := range entries {
			rec, ok := domain.AsRecord(entry)
			if !ok {
				return nil, fmt.Errorf("%w: collection %q at index %d: expected JSON object", domain.ErrCorruptFile, name, i)
			}
			id, ok := rec.ID()
			if !ok {
				return nil, fmt.Errorf("%w: collection %q at index %d: missing or invalid 'id' field", domain.ErrCorruptFile, name, i)
			}
			if _, dup := seen[id]; dup {
				return nil, fmt.Errorf("%w: collection %q at index %d: duplicate id %q", domain.ErrCorruptFile, name, i, id)
			}
			seen[id] = struct{}{}
			records = append(records, rec)
		}
		db.collections[name] = newCollectionFromRecords(name, records)
	}
	return db, nil
}

// Open creates the backing file if needed, loads it and makes it the file
// every later mutation is persisted to
func (se *StorageEngine) Open(filename string) error {
	if err := EnsureExists(filename); err != nil {
		return err
	}
	db, err := Load(filename, se.newID)
	if err != nil {
		return err
	}

	se.withWrite(func() error {
		se.db = db
		se.dataFile = filename
		se.version = 0
		se.snapshotVersion = 0
		return nil
	})
	se.saveMu.Lock()
	se.persistedVersion = 0
	se.saveMu.Unlock()

	for _, name := range db.Names() {
		coll, _ := db.Collection(name)
		log.Printf("INFO: Loaded collection '%s' with %d records", name, len(coll.Records))
	}
	return nil
}

// encodeLocked bumps the version and encodes the database; the caller must
// hold the write lock
func (se *StorageEngine) encodeLocked() ([]byte, uint64, error) {
	se.version++
	if se.dataFile == "" {
		return nil, se.version, nil
	}
	data, err := encodeDatabase(se.db)
	if err != nil {
		return nil, se.version, fmt.Errorf("%w: %w", domain.ErrPersist, err)
	}
	return data, se.version, nil
}

// persist writes an encoding produced by encodeLocked. Encodings older than
// the last one written are dropped, the file already holds a later state.
func (se *StorageEngine) persist(data []byte, version uint64) error {
	if se.dataFile == "" {
		return nil
	}
	se.saveMu.Lock()
	defer se.saveMu.Unlock()

	if version <= se.persistedVersion {
		return nil
	}
	if err := atomicWriteFile(se.dataFile, data, filePerm); err != nil {
		log.Printf("ERROR: Could not save database to %s: %v", se.dataFile, err)
		return fmt.Errorf("%w: %w", domain.ErrPersist, err)
	}
	se.persistedVersion = version
	return nil
}
