package form

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Draft is the in-progress, unsaved state of a form: raw input values keyed
// by field key. Text inputs (including numbers) hold strings, toggles hold bools.
type Draft map[string]any

// Clone returns a shallow copy. Draft values are scalars, so it is a full copy.
func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// String returns the text form of a draft value.
func (d Draft) String(key string) string {
	return toString(d[key])
}

// Values is the typed output of a successful Validate, ready to submit.
type Values map[string]any

// Decode copies validated values into a typed record.
func Decode(values Values, out any) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("decode values: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode values: %w", err)
	}
	return nil
}

// DraftFrom renders a stored record as a draft: every schema key is present,
// integers become text, missing values fall back to the field default.
func (s *Schema) DraftFrom(record any) (Draft, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("draft from %s: %w", s.Entity, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("draft from %s: %w", s.Entity, err)
	}

	d := s.Defaults()
	for _, f := range s.Fields {
		for _, k := range f.Keys() {
			v, ok := m[k]
			if !ok || v == nil {
				continue
			}
			if f.Kind == KindBool {
				if b, ok := v.(bool); ok {
					d[k] = b
				}
				continue
			}
			d[k] = toString(v)
		}
	}
	return d, nil
}

// ========================================
// REFERENCES
// ========================================

// References holds the ids of the currently loaded lookup lists
// (categories, authors) that foreign keys must point into.
type References map[string]map[int64]struct{}

// NewReferences returns an empty reference set.
func NewReferences() References {
	return make(References)
}

// Add marks ids as present in set. Calling it with no ids marks the set as
// loaded but empty.
func (r References) Add(set string, ids ...int64) References {
	m, ok := r[set]
	if !ok {
		m = make(map[int64]struct{}, len(ids))
		r[set] = m
	}
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return r
}

// Has reports whether id is in the loaded set. Unloaded sets contain nothing.
func (r References) Has(set string, id int64) bool {
	if r == nil {
		return false
	}
	_, ok := r[set][id]
	return ok
}
