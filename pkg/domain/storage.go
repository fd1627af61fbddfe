package domain

// StorageEngine defines the interface for storage operations
// This is the core business interface that implementations must conform to
type StorageEngine interface {
	FindAll(collName string) ([]Record, error)
	GetById(collName, id string) (Record, error)
	// Insert stores a new record and returns the id it was stored under.
	Insert(collName string, payload interface{}) (string, error)
	// ReplaceById replaces the whole record and returns the path id.
	ReplaceById(collName, id string, payload interface{}) (string, error)
	DeleteById(collName, id string) (Record, error)
	ListCollections() []string
}
