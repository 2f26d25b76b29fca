package selectmode

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownMode is returned when a mode name is not registered.
var ErrUnknownMode = errors.New("unknown selection mode")

// Registry looks up selection modes by name.
type Registry struct {
	mu    sync.RWMutex
	modes map[string]Mode
}

// NewRegistry creates a registry holding the given modes.
func NewRegistry(modes ...Mode) *Registry {
	r := &Registry{modes: make(map[string]Mode)}
	for _, m := range modes {
		r.Register(m)
	}
	return r
}

// DefaultRegistry returns a registry of the built-in modes.
func DefaultRegistry() *Registry {
	return NewRegistry(Line{})
}

// Register adds a mode. A mode with the same name is replaced.
func (r *Registry) Register(m Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes[strings.ToLower(m.Name())] = m
}

// Lookup returns the mode registered under name, ignoring case.
func (r *Registry) Lookup(name string) (Mode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modes[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownMode)
	}
	return m, nil
}

// Names returns the registered mode names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.modes))
	for _, m := range r.modes {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}
