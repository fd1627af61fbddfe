package domain

// IDField is the name of the field that keys a record within its collection.
const IDField = "id"

// Record represents a single JSON object stored in a collection
type Record map[string]interface{}

// ID returns the record's string id and whether it has one
func (r Record) ID() (string, bool) {
	id, ok := r[IDField].(string)
	return id, ok
}

// Clone returns a copy of the record that shares no maps or slices with it
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return cloneValue(map[string]interface{}(r)).(map[string]interface{})
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case Record:
		return Record(cloneValue(map[string]interface{}(t)).(map[string]interface{}))
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}

// AsRecord validates that a decoded JSON value is an object and converts it.
// Arrays, scalars and null are rejected.
func AsRecord(v interface{}) (Record, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return Record(t), true
	case Record:
		return t, true
	default:
		return nil, false
	}
}
