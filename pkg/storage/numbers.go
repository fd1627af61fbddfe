package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/dreamcatcher45/jserve/pkg/domain"
)

// snapshotCollections converts the exported database into plain values
// msgpack can encode as native numbers
func snapshotCollections(collections map[string][]domain.Record) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(collections))
	for name, records := range collections {
		items := make([]interface{}, len(records))
		for i, rec := range records {
			v, err := toSnapshotValue(map[string]interface{}(rec))
			if err != nil {
				return nil, fmt.Errorf("collection %q at index %d: %w", name, i, err)
			}
			items[i] = v
		}
		out[name] = items
	}
	return out, nil
}

// toSnapshotValue replaces json.Number with int64, uint64 or float64.
// Integers outside 64 bits are stored as float64.
func toSnapshotValue(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			conv, err := toSnapshotValue(val)
			if err != nil {
				return nil, err
			}
			out[k] = conv
		}
		return out, nil
	case domain.Record:
		return toSnapshotValue(map[string]interface{}(t))
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			conv, err := toSnapshotValue(val)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case json.Number:
		return numberValue(t)
	default:
		return v, nil
	}
}

func numberValue(n json.Number) (interface{}, error) {
	s := string(n)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return nil, fmt.Errorf("number %s does not fit in a snapshot", s)
	}
	return f, nil
}

// fromSnapshotValue turns the numbers msgpack decoded back into
// json.Number, the form Load produces
func fromSnapshotValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			t[k] = fromSnapshotValue(val)
		}
		return t
	case []interface{}:
		for i, val := range t {
			t[i] = fromSnapshotValue(val)
		}
		return t
	case int8:
		return json.Number(strconv.FormatInt(int64(t), 10))
	case int16:
		return json.Number(strconv.FormatInt(int64(t), 10))
	case int32:
		return json.Number(strconv.FormatInt(int64(t), 10))
	case int64:
		return json.Number(strconv.FormatInt(t, 10))
	case uint8:
		return json.Number(strconv.FormatUint(uint64(t), 10))
	case uint16:
		return json.Number(strconv.FormatUint(uint64(t), 10))
	case uint32:
		return json.Number(strconv.FormatUint(uint64(t), 10))
	case uint64:
		return json.Number(strconv.FormatUint(t, 10))
	case float32:
		return floatNumber(float64(t), 32)
	case float64:
		return floatNumber(t, 64)
	default:
		return v
	}
}

// floatNumber formats f the way encoding/json does
func floatNumber(f float64, bits int) json.Number {
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	return json.Number(strconv.FormatFloat(f, format, -1, bits))
}
