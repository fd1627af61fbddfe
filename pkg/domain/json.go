package domain

import (
	"encoding/json"
	"errors"
	"io"
)

// ErrTrailingData is returned when a JSON document has content after its first value.
var ErrTrailingData = errors.New("unexpected data after JSON value")

// DecodeJSON reads exactly one JSON value from r. Numbers are kept as
// json.Number so integers beyond 2^53 are written back unchanged.
func DecodeJSON(r io.Reader) (interface{}, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, ErrTrailingData
	}
	return v, nil
}
