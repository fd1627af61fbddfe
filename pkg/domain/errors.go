package domain

import "errors"

var (
	// ErrCollectionNotFound is returned when the named collection does not exist.
	ErrCollectionNotFound = errors.New("resource not found")

	// ErrItemNotFound is returned when a collection exists but has no record with the id.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidPayload is returned when a request body is not a JSON object
	// or carries an id that is not a string.
	ErrInvalidPayload = errors.New("expected JSON object")

	// ErrDuplicateID is returned when a create collides with an existing id.
	ErrDuplicateID = errors.New("duplicate ID")

	// ErrCorruptFile is returned when the backing file or a snapshot does not
	// have the expected structure.
	ErrCorruptFile = errors.New("invalid database file")

	// ErrPersist is returned when a mutation was applied in memory but could
	// not be written to disk.
	ErrPersist = errors.New("failed to persist database")
)

// IsNotFound reports whether err means the collection or the item is missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCollectionNotFound) || errors.Is(err, ErrItemNotFound)
}
