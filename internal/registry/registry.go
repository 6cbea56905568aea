// Package registry is the shared key/value store the scripting runtime
// and control channel read configuration and state through. Every value
// carries access flags; client programs go through a Client, which
// enforces per-category permissions, so the store itself stays simple.
package registry

import (
	"errors"
	"sync"
)

// AccessFlags tags how a stored value may be accessed.
type AccessFlags uint8

const (
	// FlagRead allows the value to be read.
	FlagRead AccessFlags = 1 << iota
	// FlagWrite allows the value to be replaced.
	FlagWrite
)

var (
	// ErrKeyNotFound is returned when a registry key does not exist.
	ErrKeyNotFound = errors.New("registry key not found")
)

// Value is one stored entry with its access flags.
type Value struct {
	flags AccessFlags
	data  interface{}
}

// Flags returns the value's access flags.
func (v Value) Flags() AccessFlags { return v.flags }

// Data returns the stored payload.
func (v Value) Data() interface{} { return v.data }

// Registry is the process-shared store, guarded by one RWMutex.
// Construct one per daemon; tests construct their own.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Value
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Value)}
}

// Get returns the flags and data stored under key.
func (r *Registry) Get(key string) (AccessFlags, interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	val, ok := r.entries[key]
	if !ok {
		return 0, nil, ErrKeyNotFound
	}
	return val.flags, val.data, nil
}

// Set stores data under key with the given access flags, replacing any
// previous value.
func (r *Registry) Set(key string, flags AccessFlags, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = Value{flags: flags, data: data}
}

// Contains reports whether key exists.
func (r *Registry) Contains(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Keys returns every stored key, in no particular order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}
