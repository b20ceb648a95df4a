package formstate

import (
	"iter"
	"strings"
)

// Field is a single named slot of a snapshot.
type Field struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Snapshot is an immutable, insertion-ordered mapping of field name to value.
// The zero value is an empty snapshot.
type Snapshot struct {
	fields []Field
	index  map[string]int
}

// NewSnapshot builds a snapshot from fields in the given order. Blank names are
// dropped; a repeated name keeps its first position and its last value.
func NewSnapshot(fields ...Field) Snapshot {
	var s Snapshot
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		s = s.set(name, field.Value)
	}
	return s
}

// Len reports the number of fields.
func (s Snapshot) Len() int {
	return len(s.fields)
}

// Names returns field names in snapshot order.
func (s Snapshot) Names() []string {
	if len(s.fields) == 0 {
		return nil
	}
	out := make([]string, len(s.fields))
	for i, field := range s.fields {
		out[i] = field.Name
	}
	return out
}

// Get returns the value stored under name.
func (s Snapshot) Get(name string) (any, bool) {
	idx, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.fields[idx].Value, true
}

// Has reports whether name is part of the snapshot.
func (s Snapshot) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// All iterates fields in snapshot order.
func (s Snapshot) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, field := range s.fields {
			if !yield(field.Name, field.Value) {
				return
			}
		}
	}
}

// Fields returns a copy of the ordered field list.
func (s Snapshot) Fields() []Field {
	if len(s.fields) == 0 {
		return nil
	}
	return append([]Field(nil), s.fields...)
}

// With returns a copy of the snapshot where name holds value. Existing fields
// keep their position; new fields are appended.
func (s Snapshot) With(name string, value any) Snapshot {
	name = strings.TrimSpace(name)
	if name == "" {
		return s
	}
	clone := Snapshot{
		fields: append([]Field(nil), s.fields...),
		index:  make(map[string]int, len(s.index)+1),
	}
	for key, idx := range s.index {
		clone.index[key] = idx
	}
	return clone.set(name, value)
}

// Map flattens the snapshot into an unordered map.
func (s Snapshot) Map() map[string]any {
	out := make(map[string]any, len(s.fields))
	for _, field := range s.fields {
		out[field.Name] = field.Value
	}
	return out
}

// set mutates the receiver's backing storage; callers own the copy.
func (s Snapshot) set(name string, value any) Snapshot {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if idx, ok := s.index[name]; ok {
		s.fields[idx].Value = value
		return s
	}
	s.index[name] = len(s.fields)
	s.fields = append(s.fields, Field{Name: name, Value: value})
	return s
}
