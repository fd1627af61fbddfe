package indexing

import (
	"github.com/dreamcatcher45/jserve/pkg/domain"
)

// Index stores a mapping from a record's id to its position in the collection.
type Index struct {
	positions map[string]int
}

var _ domain.IDIndex = (*Index)(nil)

// NewIndex creates an empty id index.
func NewIndex() *Index {
	return &Index{
		positions: make(map[string]int),
	}
}

// BuildIndex indexes all records of a collection by their id field.
// Records without a string id are skipped.
func BuildIndex(records []domain.Record) *Index {
	idx := NewIndex()
	idx.Rebuild(records)
	return idx
}

// Lookup returns the position of the record with the given id.
func (idx *Index) Lookup(id string) (int, bool) {
	pos, ok := idx.positions[id]
	return pos, ok
}

// Add records that id lives at pos.
func (idx *Index) Add(id string, pos int) {
	idx.positions[id] = pos
}

// Remove forgets id. Positions of other records are not adjusted; callers
// that shift the underlying slice must Rebuild or Shift.
func (idx *Index) Remove(id string) {
	delete(idx.positions, id)
}

// Shift decrements every position greater than pos, after the record at pos
// has been removed from the collection.
func (idx *Index) Shift(pos int) {
	for id, p := range idx.positions {
		if p > pos {
			idx.positions[id] = p - 1
		}
	}
}

// Rebuild discards the index and re-indexes records.
func (idx *Index) Rebuild(records []domain.Record) {
	idx.positions = make(map[string]int, len(records))
	for i, rec := range records {
		if id, ok := rec.ID(); ok {
			idx.positions[id] = i
		}
	}
}

// Len returns the number of indexed ids.
func (idx *Index) Len() int {
	return len(idx.positions)
}
