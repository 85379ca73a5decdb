// Package store holds the property values of a single model instance.
//
// A Store keeps two namespaces. Public values are addressed by property name
// and are what serialization sees. Internal values live under a Slot derived
// from the property name; a Slot cannot be produced from a name except
// through SlotFor, so public reads and writes never reach internal values
// and vice versa.
package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Slot is the storage key of an internally-set property.
type Slot struct {
	name string
	id   uuid.UUID
}

func (s Slot) String() string { return s.name + "#" + s.id.String() }

var (
	// namespace is drawn once per process so slot ids cannot be precomputed.
	namespace = uuid.New()
	slots     sync.Map // string -> Slot
)

// SlotFor returns the internal slot of a property name. Derivation is
// deterministic within a process and memoized: every Store shares the result.
func SlotFor(name string) Slot {
	if s, ok := slots.Load(name); ok {
		return s.(Slot)
	}
	s, _ := slots.LoadOrStore(name, Slot{name: name, id: uuid.NewSHA1(namespace, []byte(name))})
	return s.(Slot)
}

// Store is not safe for concurrent mutation.
type Store struct {
	public  map[string]any
	private map[Slot]any
}

// Get returns the value stored for name in the requested namespace.
func (s *Store) Get(name string, internal bool) (any, bool) {
	if internal {
		v, ok := s.private[SlotFor(name)]
		return v, ok
	}
	v, ok := s.public[name]
	return v, ok
}

// Set writes every entry of data into the requested namespace.
func (s *Store) Set(data map[string]any, internal bool) {
	if len(data) == 0 {
		return
	}
	if internal {
		if s.private == nil {
			s.private = make(map[Slot]any, len(data))
		}
		for k, v := range data {
			s.private[SlotFor(k)] = v
		}
		return
	}
	if s.public == nil {
		s.public = make(map[string]any, len(data))
	}
	for k, v := range data {
		s.public[k] = v
	}
}

// Keys returns the sorted names of publicly stored properties.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.public))
	for k := range s.public {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
