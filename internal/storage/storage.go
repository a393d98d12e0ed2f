package storage

import (
	"maps"
	"sync"
)

// Storage holds the lists fetched during a run.
type Storage interface {
	Schemes() map[string]string
	SetSchemes(list map[string]string)
	Templates() map[string]string
	SetTemplates(list map[string]string)
}

// MemoryStorage keeps the fetched lists in-memory and guards access with a RWMutex.
// Nothing outlives the process.
type MemoryStorage struct {
	mu        sync.RWMutex
	schemes   map[string]string
	templates map[string]string
}

// NewMemoryStorage initialises storage with empty lists.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		schemes:   map[string]string{},
		templates: map[string]string{},
	}
}

// Schemes returns a copy of the schemes list.
func (s *MemoryStorage) Schemes() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.schemes)
}

// SetSchemes stores a copy of the schemes list.
func (s *MemoryStorage) SetSchemes(list map[string]string) {
	cloned := clone(list)

	s.mu.Lock()
	s.schemes = cloned
	s.mu.Unlock()
}

// Templates returns a copy of the templates list.
func (s *MemoryStorage) Templates() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.templates)
}

// SetTemplates stores a copy of the templates list.
func (s *MemoryStorage) SetTemplates(list map[string]string) {
	cloned := clone(list)

	s.mu.Lock()
	s.templates = cloned
	s.mu.Unlock()
}

func clone(src map[string]string) map[string]string {
	if len(src) == 0 {
		return map[string]string{}
	}
	return maps.Clone(src)
}
