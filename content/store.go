// Package content holds parsed content keyed by identifier for the lifetime
// of the running site, so revisiting a route does not fetch again.
package content

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Store is an in-memory map from identifier to parsed content, optionally
// written through to a Mirror. Entries are never evicted.
//
// Store is not safe for concurrent use. The site only touches it from its
// event loop, which serializes every read and write.
type Store[V any] struct {
	namespace string
	entries   map[string]V
	mirror    Mirror
}

// NewStore creates a store for namespace. When mirror is non-nil the entries
// it already holds for namespace are loaded.
func NewStore[V any](namespace string, mirror Mirror) (*Store[V], error) {
	s := &Store[V]{
		namespace: namespace,
		entries:   make(map[string]V),
		mirror:    mirror,
	}
	if mirror == nil {
		return s, nil
	}
	raw, err := mirror.Load(namespace)
	if err != nil {
		return nil, fmt.Errorf("content: load %s: %w", namespace, err)
	}
	for key, b := range raw {
		var v V
		if err := json.Unmarshal(b, &v); err != nil {
			// An entry written by an older shape of V is dropped rather than served.
			if err := mirror.Delete(namespace, key); err != nil {
				return nil, fmt.Errorf("content: drop %s/%s: %w", namespace, key, err)
			}
			continue
		}
		s.entries[key] = v
	}
	return s, nil
}

// Get returns the content stored under key.
func (s *Store[V]) Get(key string) (V, bool) {
	v, ok := s.entries[key]
	return v, ok
}

// Set stores v under key, replacing any previous value. The in-memory entry
// is always updated; the returned error only reports a mirror failure.
func (s *Store[V]) Set(key string, v V) error {
	s.entries[key] = v
	if s.mirror == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("content: encode %s/%s: %w", s.namespace, key, err)
	}
	return s.mirror.Put(s.namespace, key, b)
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store[V]) Remove(key string) error {
	delete(s.entries, key)
	if s.mirror == nil {
		return nil
	}
	return s.mirror.Delete(s.namespace, key)
}

// Clear removes every entry. Entries that fail to leave the mirror are
// still dropped from memory; the first such error is returned.
func (s *Store[V]) Clear() error {
	var first error
	for _, key := range s.Keys() {
		if err := s.Remove(key); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Len returns the number of entries.
func (s *Store[V]) Len() int {
	return len(s.entries)
}

// Keys returns the stored identifiers in sorted order.
func (s *Store[V]) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
