// Package favorites keeps the set of favorite book ids and persists it to
// local key-value storage.
package favorites

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Set is an unordered set of record ids. The nil Set is empty.
type Set map[string]struct{}

// NewSet builds a set from ids, dropping duplicates.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership. Ids that no longer exist in the catalog are simply
// members that never match a record.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids.
func (s Set) Len() int { return len(s) }

// IDs returns the members in sorted order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	maps.Copy(out, s)
	return out
}

// Equal reports whether both sets hold the same ids.
func (s Set) Equal(o Set) bool {
	return maps.Equal(s, o)
}

// Toggle returns a copy of s with id flipped: removed if present, added otherwise.
// Toggle(Toggle(s, id), id) equals s.
func Toggle(s Set, id string) Set {
	out := s.Clone()
	if out.Has(id) {
		delete(out, id)
	} else {
		out[id] = struct{}{}
	}
	return out
}

// Encode serializes s as a JSON array of ids.
func Encode(s Set) ([]byte, error) {
	data, err := json.Marshal(s.IDs())
	if err != nil {
		return nil, fmt.Errorf("encode favorites: %w", err)
	}
	return data, nil
}

// Decode parses a JSON array of ids. Anything else returns ErrMalformed.
func Decode(data []byte) (Set, error) {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if ids == nil {
		return nil, fmt.Errorf("%w: not an array", ErrMalformed)
	}
	return NewSet(ids...), nil
}
