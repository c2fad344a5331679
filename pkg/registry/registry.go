package registry

import (
	"fmt"
	"sync"
)

// Registry holds the table of routable models. Reload replaces the table
// wholesale so readers never observe a partially updated catalog.
type Registry struct {
	mu     sync.RWMutex
	models []ModelDescriptor
	index  map[ModelKey]int
}

// New creates a registry populated from the given source.
func New(src Source) (*Registry, error) {
	r := &Registry{}
	if err := r.Reload(src); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload replaces the registry contents with the source's current set.
// Duplicate (provider, model_id) entries keep the first occurrence.
// Safe to call concurrently with reads; reads see either the old table
// or the new one, never a partial merge.
func (r *Registry) Reload(src Source) error {
	if src == nil {
		return fmt.Errorf("registry source is required")
	}
	loaded, err := src.LoadAll()
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}

	models := make([]ModelDescriptor, 0, len(loaded))
	index := make(map[ModelKey]int, len(loaded))
	for _, d := range loaded {
		key := d.Key()
		if _, exists := index[key]; exists {
			continue
		}
		index[key] = len(models)
		models = append(models, d)
	}

	r.mu.Lock()
	r.models = models
	r.index = index
	r.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current table in registry order.
func (r *Registry) Snapshot() []ModelDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ModelDescriptor, len(r.models))
	copy(out, r.models)
	return out
}

// Lookup returns the descriptor for a (provider, model) pair.
func (r *Registry) Lookup(provider, modelID string) (ModelDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.index[ModelKey{Provider: provider, ModelID: modelID}]
	if !ok {
		return ModelDescriptor{}, false
	}
	return r.models[idx], true
}

// CapabilityFor returns the capability vector for a (provider, model)
// pair, falling back to DefaultCapability for unknown pairs so callers
// always get a usable vector.
func (r *Registry) CapabilityFor(provider, modelID string) Capability {
	if d, ok := r.Lookup(provider, modelID); ok {
		return d.Capability
	}
	return DefaultCapability
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}
