package storage

import (
	"fmt"
	"sort"

	"github.com/dreamcatcher45/jserve/pkg/domain"
)

// maxIDAttempts bounds how often a generated id is retried when it collides
const maxIDAttempts = 3

// Database is the in-memory mirror of the backing file. It performs no
// locking and no I/O; StorageEngine guards every access.
//
// Stored records are never modified in place: updates swap the whole record
// and deletes remove it, so a record returned by a read may be used after
// the lock protecting the database has been released.
type Database struct {
	collections map[string]*Collection
	newID       func() string
}

// NewDatabase creates an empty database that assigns ids with newID
func NewDatabase(newID func() string) *Database {
	return &Database{
		collections: make(map[string]*Collection),
		newID:       newID,
	}
}

// Names returns the collection names in sorted order
func (db *Database) Names() []string {
	names := make([]string, 0, len(db.collections))
	for name := range db.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Collection returns the named collection
func (db *Database) Collection(name string) (*Collection, bool) {
	coll, ok := db.collections[name]
	return coll, ok
}

func (db *Database) collection(name string) (*Collection, error) {
	coll, ok := db.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %q: %w", name, domain.ErrCollectionNotFound)
	}
	return coll, nil
}

// ListAll returns the collection's records in insertion order
func (db *Database) ListAll(collName string) ([]domain.Record, error) {
	coll, err := db.collection(collName)
	if err != nil {
		return nil, err
	}
	return coll.snapshot(), nil
}

// GetById returns the record whose id equals id exactly
func (db *Database) GetById(collName, id string) (domain.Record, error) {
	coll, err := db.collection(collName)
	if err != nil {
		return nil, err
	}
	pos, ok := coll.position(id)
	if !ok {
		return nil, fmt.Errorf("id %q in collection %q: %w", id, collName, domain.ErrItemNotFound)
	}
	return coll.Records[pos], nil
}

// Create appends candidate to the collection, creating the collection if
// needed. A candidate without an id gets a generated one.
func (db *Database) Create(collName string, candidate interface{}) (domain.Record, error) {
	rec, ok := domain.AsRecord(candidate)
	if !ok {
		return nil, domain.ErrInvalidPayload
	}

	coll, exists := db.collections[collName]

	raw, hasID := rec[domain.IDField]
	var id string
	if hasID {
		s, isString := raw.(string)
		if !isString {
			return nil, fmt.Errorf("field %q must be a string: %w", domain.IDField, domain.ErrInvalidPayload)
		}
		id = s
		if exists {
			if _, dup := coll.position(id); dup {
				return nil, fmt.Errorf("id %q in collection %q: %w", id, collName, domain.ErrDuplicateID)
			}
		}
	} else {
		var err error
		id, err = db.generateID(coll)
		if err != nil {
			return nil, err
		}
		rec[domain.IDField] = id
	}

	if !exists {
		coll = NewCollection(collName)
		db.collections[collName] = coll
	}
	coll.append(id, rec)
	return rec, nil
}

func (db *Database) generateID(coll *Collection) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := db.newID()
		if coll == nil {
			return id, nil
		}
		if _, taken := coll.position(id); !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a free id in collection %q: %w", coll.Name, domain.ErrDuplicateID)
}

// Update replaces the record with the given id wholesale. The stored record
// always carries the path id.
func (db *Database) Update(collName, id string, replacement interface{}) (string, error) {
	rec, ok := domain.AsRecord(replacement)
	if !ok {
		return "", domain.ErrInvalidPayload
	}
	coll, err := db.collection(collName)
	if err != nil {
		return "", err
	}
	pos, found := coll.position(id)
	if !found {
		return "", fmt.Errorf("id %q in collection %q: %w", id, collName, domain.ErrItemNotFound)
	}
	rec[domain.IDField] = id
	coll.replace(pos, rec)
	return id, nil
}

// Delete removes and returns the record with the given id
func (db *Database) Delete(collName, id string) (domain.Record, error) {
	coll, err := db.collection(collName)
	if err != nil {
		return nil, err
	}
	pos, found := coll.position(id)
	if !found {
		return nil, fmt.Errorf("id %q in collection %q: %w", id, collName, domain.ErrItemNotFound)
	}
	return coll.removeAt(pos, id), nil
}

// export returns the database as a plain map for serialization
func (db *Database) export() map[string][]domain.Record {
	out := make(map[string][]domain.Record, len(db.collections))
	for name, coll := range db.collections {
		out[name] = coll.Records
	}
	return out
}
