package blueprint

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Handle is a resolved blueprint: the unit the explorer displays.
type Handle struct {
	ID   uuid.UUID
	Name string
	Type string
	Data json.RawMessage

	// BackReferences lists the blueprints whose data links to this one,
	// in index order.
	BackReferences []uuid.UUID
}

// GUIDText returns the canonical text form of the blueprint identifier.
func (h *Handle) GUIDText() string {
	return h.ID.String()
}

// Store resolves blueprint identifiers to handles.
type Store interface {
	Resolve(id uuid.UUID) (*Handle, bool)
}

// IntegrityError reports an identifier the index refers to but cannot resolve.
// It indicates a corrupt index, not a user mistake.
type IntegrityError struct {
	ID uuid.UUID
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("blueprint index is corrupt: %s is referenced but not stored", e.ID)
}

// MustResolve resolves id or panics with an *IntegrityError.
func MustResolve(s Store, id uuid.UUID) *Handle {
	h, ok := s.Resolve(id)
	if !ok {
		panic(&IntegrityError{ID: id})
	}
	return h
}

// MemStore is an in-memory Store that keeps insertion order.
type MemStore struct {
	byID  map[uuid.UUID]*Handle
	order []*Handle
}

// NewMemStore creates a store holding the given handles.
func NewMemStore(handles ...*Handle) *MemStore {
	s := &MemStore{byID: make(map[uuid.UUID]*Handle, len(handles))}
	for _, h := range handles {
		s.Add(h)
	}
	return s
}

// Add stores h, replacing any handle with the same ID.
func (s *MemStore) Add(h *Handle) {
	if old, ok := s.byID[h.ID]; ok {
		for i, o := range s.order {
			if o == old {
				s.order[i] = h
				break
			}
		}
	} else {
		s.order = append(s.order, h)
	}
	s.byID[h.ID] = h
}

// Resolve implements Store.
func (s *MemStore) Resolve(id uuid.UUID) (*Handle, bool) {
	h, ok := s.byID[id]
	return h, ok
}

// All returns the stored handles in insertion order.
func (s *MemStore) All() []*Handle {
	result := make([]*Handle, len(s.order))
	copy(result, s.order)
	return result
}

// Len returns the number of stored handles.
func (s *MemStore) Len() int {
	return len(s.order)
}
