// Package store provides the process-wide key-value state store.
package store

import (
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store holds process-wide values by key.
type Store interface {
	Set(key string, value any)
	Get(key string) (any, bool)
}

// Memory is an in-memory Store. Keys may be dotted paths: "a.b" returns
// field b of the value stored under a, where struct fields are addressed by
// their yaml names.
type Memory struct {
	values map[string]any
	mu     sync.RWMutex
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]any)}
}

// Set stores value under key. Dotted keys are not split on write.
func (m *Memory) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Get returns the value stored under key, descending into it for dotted keys.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	v, ok := m.values[key]
	m.mu.RUnlock()
	if ok {
		return v, true
	}

	root, rest, dotted := strings.Cut(key, ".")
	if !dotted {
		return nil, false
	}
	m.mu.RLock()
	v, ok = m.values[root]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return lookup(v, rest)
}

// lookup walks a dotted path through v's yaml representation.
func lookup(v any, path string) (any, bool) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, false
	}
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, false
	}
	for part := range strings.SplitSeq(path, ".") {
		fields, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		if node, ok = fields[part]; !ok {
			return nil, false
		}
	}
	return node, true
}
