package storage

import (
	"fmt"

	"github.com/dreamcatcher45/jserve/pkg/domain"
)

// FindAll returns every record of a collection in insertion order
func (se *StorageEngine) FindAll(collName string) ([]domain.Record, error) {
	if collName == "" {
		return nil, fmt.Errorf("collection name cannot be empty: %w", domain.ErrCollectionNotFound)
	}
	var records []domain.Record
	err := se.withRead(func() error {
		var err error
		records, err = se.db.ListAll(collName)
		return err
	})
	return records, err
}

// GetById retrieves a specific record by its id
func (se *StorageEngine) GetById(collName, id string) (domain.Record, error) {
	if err := validateNames(collName, id); err != nil {
		return nil, err
	}
	var rec domain.Record
	err := se.withRead(func() error {
		var err error
		rec, err = se.db.GetById(collName, id)
		return err
	})
	return rec, err
}

// Insert stores payload as a new record and persists the database.
// On a persistence failure the record stays in memory and its id is
// returned together with an error wrapping domain.ErrPersist.
func (se *StorageEngine) Insert(collName string, payload interface{}) (string, error) {
	if collName == "" {
		return "", fmt.Errorf("collection name cannot be empty: %w", domain.ErrCollectionNotFound)
	}
	candidate, ok := domain.AsRecord(payload)
	if !ok {
		return "", domain.ErrInvalidPayload
	}
	candidate = candidate.Clone()

	var (
		id      string
		encoded []byte
		version uint64
	)
	err := se.withWrite(func() error {
		rec, err := se.db.Create(collName, candidate)
		if err != nil {
			return err
		}
		id, _ = rec.ID()
		encoded, version, err = se.encodeLocked()
		return err
	})
	if err != nil {
		return id, err
	}
	return id, se.persist(encoded, version)
}

// ReplaceById replaces a whole record and persists the database
func (se *StorageEngine) ReplaceById(collName, id string, payload interface{}) (string, error) {
	if err := validateNames(collName, id); err != nil {
		return "", err
	}
	replacement, ok := domain.AsRecord(payload)
	if !ok {
		return "", domain.ErrInvalidPayload
	}
	replacement = replacement.Clone()

	var (
		encoded []byte
		version uint64
	)
	err := se.withWrite(func() error {
		if _, err := se.db.Update(collName, id, replacement); err != nil {
			return err
		}
		var err error
		encoded, version, err = se.encodeLocked()
		return err
	})
	if err != nil {
		return "", err
	}
	return id, se.persist(encoded, version)
}

// DeleteById removes a record, persists the database and returns the removed record
func (se *StorageEngine) DeleteById(collName, id string) (domain.Record, error) {
	if err := validateNames(collName, id); err != nil {
		return nil, err
	}

	var (
		removed domain.Record
		encoded []byte
		version uint64
	)
	err := se.withWrite(func() error {
		var err error
		removed, err = se.db.Delete(collName, id)
		if err != nil {
			return err
		}
		encoded, version, err = se.encodeLocked()
		return err
	})
	if err != nil {
		return removed, err
	}
	return removed, se.persist(encoded, version)
}

func validateNames(collName, id string) error {
	if collName == "" {
		return fmt.Errorf("collection name cannot be empty: %w", domain.ErrCollectionNotFound)
	}
	if id == "" {
		return fmt.Errorf("id cannot be empty: %w", domain.ErrItemNotFound)
	}
	return nil
}
