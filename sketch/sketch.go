// Package sketch defines the annotation payload attached to every syntax tree.
// Tree construction only reads the kind; the rest is filled and consumed by later analysis.
package sketch

import (
	"sort"
	"sync"
)

// Sketch is a mutable named-child bag with a kind.
// Sketch is safe for concurrent use.
type Sketch struct {
	mu         sync.RWMutex
	kind, name string
	components map[string]*Sketch
}

// New creates an empty sketch.
func New() *Sketch {
	return &Sketch{}
}

// Kind returns the kind of the sketch, empty by default.
func (s *Sketch) Kind() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kind
}

func (s *Sketch) SetKind(kind string) *Sketch {
	s.mu.Lock()
	s.kind = kind
	s.mu.Unlock()
	return s
}

func (s *Sketch) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *Sketch) SetName(name string) *Sketch {
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
	return s
}

// Get returns the component stored under key or nil.
func (s *Sketch) Get(key string) *Sketch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.components[key]
}

// Set stores component under key, nil component removes the key.
func (s *Sketch) Set(key string, component *Sketch) *Sketch {
	s.mu.Lock()
	defer s.mu.Unlock()
	if component == nil {
		delete(s.components, key)
		return s
	}

	if s.components == nil {
		s.components = make(map[string]*Sketch)
	}
	s.components[key] = component
	return s
}

// Keys returns sorted component keys.
func (s *Sketch) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]string, 0, len(s.components))
	for k := range s.components {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}
