// Package linkmap loads the table that maps upstream path fragments to
// cross-reference ids.
//
// A LinkMap keeps entries in first-insertion order. Loading the same table twice
// yields the same order, which keeps rewrites deterministic when two fragments
// overlap (for example "types.md" and "types.md#tuples").
package linkmap

import (
	"errors"
	"sort"
)

var (
	// ErrEmptyMap indicates the mapping source contained no entries.
	ErrEmptyMap = errors.New("mapping table is empty")

	// ErrMalformedRow indicates a row that does not have exactly two columns.
	ErrMalformedRow = errors.New("mapping row must have exactly two columns")

	// ErrUnsupportedFormat indicates a mapping location with an unknown format.
	ErrUnsupportedFormat = errors.New("unsupported mapping format")
)

// Entry is one row of the table.
type Entry struct {
	Fragment string
	ID       string
}

// LinkMap maps a path fragment (e.g. "Expressions/README.md") to a
// cross-reference id (e.g. "microsoft.quantum.qsharp.expressions-overview").
type LinkMap struct {
	ids  map[string]string
	keys []string
}

// New returns an empty LinkMap.
func New() *LinkMap {
	return &LinkMap{ids: make(map[string]string)}
}

// FromMap builds a LinkMap from a Go map. Entries are ordered by fragment.
func FromMap(m map[string]string) *LinkMap {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lm := New()
	for _, k := range keys {
		lm.Set(k, m[k])
	}
	return lm
}

// Set adds or overwrites an entry. Overwriting keeps the original position.
func (m *LinkMap) Set(fragment, id string) {
	if _, exists := m.ids[fragment]; !exists {
		m.keys = append(m.keys, fragment)
	}
	m.ids[fragment] = id
}

// Get returns the id for a fragment.
func (m *LinkMap) Get(fragment string) (string, bool) {
	id, ok := m.ids[fragment]
	return id, ok
}

// Len returns the number of entries.
func (m *LinkMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the fragments in table order.
func (m *LinkMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Entries returns the rows in table order.
func (m *LinkMap) Entries() []Entry {
	out := make([]Entry, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, Entry{Fragment: k, ID: m.ids[k]})
	}
	return out
}
