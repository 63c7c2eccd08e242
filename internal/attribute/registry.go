// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package attribute

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds an attribute instance from its definition. The owner
// argument is the metamodel the instance belongs to.
type Factory[O any, A Attribute] func(definition Definition, owner O) (A, error)

// Registry maps attribute type names to factories.
//
// # Concurrency
//
// Register is expected at startup; Create is safe for concurrent use.
type Registry[O any, A Attribute] struct {
	mu        sync.RWMutex
	factories map[string]Factory[O, A]
}

// NewRegistry returns an empty registry.
func NewRegistry[O any, A Attribute]() *Registry[O, A] {
	return &Registry[O, A]{factories: make(map[string]Factory[O, A])}
}

// Register binds typeName to factory. Registering a name twice is an error.
func (registry *Registry[O, A]) Register(typeName string, factory Factory[O, A]) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, exists := registry.factories[typeName]; exists {
		return fmt.Errorf("attribute: type %q already registered", typeName)
	}
	registry.factories[typeName] = factory
	return nil
}

// Create builds the attribute described by definition.
func (registry *Registry[O, A]) Create(definition Definition, owner O) (A, error) {
	registry.mu.RLock()
	factory, ok := registry.factories[definition.Type]
	registry.mu.RUnlock()

	if !ok {
		var zero A
		return zero, fmt.Errorf("attribute: unknown type %q for %q", definition.Type, definition.Name)
	}
	return factory(definition, owner)
}

// Types lists the registered type names in lexical order.
func (registry *Registry[O, A]) Types() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	names := make([]string, 0, len(registry.factories))
	for name := range registry.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
