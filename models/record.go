package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// IDField is the name of the server-owned identifier field.
const IDField = "id"

// Record is a single task or event. Everything except the id is kept as
// raw JSON so arbitrary client fields survive a round trip unchanged.
type Record struct {
	ID     int64
	Fields map[string]json.RawMessage
}

// NewRecord builds a record from an id and a field set. An "id" key in
// fields is dropped.
func NewRecord(id int64, fields map[string]json.RawMessage) Record {
	r := Record{ID: id, Fields: make(map[string]json.RawMessage, len(fields))}
	for k, v := range fields {
		if k == IDField {
			continue
		}
		r.Fields[k] = v
	}
	return r
}

// Merge returns a copy of r with every top-level field of patch written over
// it. The id is never changed.
func Merge(r Record, patch map[string]json.RawMessage) Record {
	merged := NewRecord(r.ID, r.Fields)
	for k, v := range patch {
		if k == IDField {
			continue
		}
		merged.Fields[k] = v
	}
	return merged
}

// MarshalJSON writes the id first, then the remaining fields in key order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"id":`)
	buf.WriteString(strconv.FormatInt(r.ID, 10))

	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value := r.Fields[k]
		if len(value) == 0 {
			value = json.RawMessage("null")
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object that must carry an integer id.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("record is null")
	}

	raw, ok := fields[IDField]
	if !ok {
		return errors.New("record has no id")
	}
	var id int64
	if err := json.Unmarshal(raw, &id); err != nil {
		return fmt.Errorf("record id %s is not an integer: %w", raw, err)
	}

	*r = NewRecord(id, fields)
	return nil
}
