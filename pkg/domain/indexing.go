package domain

// IDIndex maps record ids to their position in a collection
type IDIndex interface {
	Lookup(id string) (int, bool)
	Add(id string, pos int)
	Remove(id string)
	// Shift moves every position after pos down by one
	Shift(pos int)
	Rebuild(records []Record)
	Len() int
}
