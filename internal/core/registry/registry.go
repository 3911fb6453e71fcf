// Package registry holds named providers for an engine
package registry

import (
	"reflect"
	"strings"
	"sync"

	"bgg/internal/core/cachegw"
	perr "bgg/internal/platform/errors"
)

// Entry is one named provider, used to seed a registry
type Entry[P any] struct {
	Name     string
	Provider P
}

// Registry is an insertion-ordered set of uniquely named providers
// safe for concurrent use; failed mutations leave it unchanged
type Registry[P any] struct {
	mu    sync.RWMutex
	names []string
	byKey map[string]P
}

// New builds a registry from entries; any invalid or duplicate entry fails construction
func New[P any](entries ...Entry[P]) (*Registry[P], error) {
	r := &Registry[P]{byKey: make(map[string]P, len(entries))}
	for _, e := range entries {
		if err := r.Add(e.Name, e.Provider); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers p under name
func (r *Registry[P]) Add(name string, p P) error {
	if strings.TrimSpace(name) == "" {
		return perr.InvalidArgf("provider name must not be empty")
	}
	if name == cachegw.ScopeAll {
		return perr.WithField(perr.InvalidArgf("provider name [%s] is reserved for the group of all providers", name), name)
	}
	if isNil(p) {
		return perr.WithField(perr.InvalidArgf("provider [%s] is nil", name), name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byKey[name]; ok {
		return perr.AlreadyRegistered(name)
	}
	r.byKey[name] = p
	r.names = append(r.names, name)
	return nil
}

// Remove drops the provider registered under name
func (r *Registry[P]) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byKey[name]; !ok {
		return perr.NotRegistered(name)
	}
	delete(r.byKey, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i:i], r.names[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the provider for name
func (r *Registry[P]) Get(name string) (P, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byKey[name]
	return p, ok
}

// Has reports whether name is registered
func (r *Registry[P]) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns registered names in insertion order
func (r *Registry[P]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

// List returns a snapshot of every entry in insertion order
func (r *Registry[P]) List() []Entry[P] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry[P], 0, len(r.names))
	for _, n := range r.names {
		out = append(out, Entry[P]{Name: n, Provider: r.byKey[n]})
	}
	return out
}

// Len returns the number of providers
func (r *Registry[P]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

// isNil catches nil interfaces as well as typed nil pointers, funcs and maps
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
