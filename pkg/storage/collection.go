package storage

import (
	"github.com/dreamcatcher45/jserve/pkg/domain"
	"github.com/dreamcatcher45/jserve/pkg/indexing"
)

// Collection is an ordered sequence of records with unique string ids
type Collection struct {
	Name    string
	Records []domain.Record
	index   domain.IDIndex
}

// NewCollection creates an empty collection
func NewCollection(name string) *Collection {
	return &Collection{
		Name:    name,
		Records: make([]domain.Record, 0),
		index:   indexing.NewIndex(),
	}
}

// newCollectionFromRecords builds a collection from already-validated records
func newCollectionFromRecords(name string, records []domain.Record) *Collection {
	return &Collection{
		Name:    name,
		Records: records,
		index:   indexing.BuildIndex(records),
	}
}

// position returns the slice position of the record with id
func (c *Collection) position(id string) (int, bool) {
	return c.index.Lookup(id)
}

func (c *Collection) append(id string, rec domain.Record) {
	c.Records = append(c.Records, rec)
	c.index.Add(id, len(c.Records)-1)
}

// replace swaps the record at pos; the id at pos must not change
func (c *Collection) replace(pos int, rec domain.Record) {
	c.Records[pos] = rec
}

func (c *Collection) removeAt(pos int, id string) domain.Record {
	rec := c.Records[pos]
	copy(c.Records[pos:], c.Records[pos+1:])
	c.Records[len(c.Records)-1] = nil
	c.Records = c.Records[:len(c.Records)-1]
	c.index.Remove(id)
	c.index.Shift(pos)
	return rec
}

// snapshot returns a copy of the record slice so callers can iterate it
// after the lock is released
func (c *Collection) snapshot() []domain.Record {
	out := make([]domain.Record, len(c.Records))
	copy(out, c.Records)
	return out
}
