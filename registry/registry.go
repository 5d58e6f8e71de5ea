/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sync"
)

// Factory constructs a fresh, empty entity instance for a collection label.
// The facade feeds raw storage records into the instance's lifecycle hooks to
// reconstruct typed results.
type Factory func() any

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// RegisterFactory registers an entity factory for a collection label.
// If a factory is already registered for the label, it panics to prevent
// accidental overrides.
func RegisterFactory(label string, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[label]; exists {
		panic(fmt.Sprintf("registry: factory for label %q already registered", label))
	}
	factories[label] = fn
}

// GetFactory returns the registered factory for the given label. The second
// return value is false when no factory is registered; callers then fall back
// to raw records.
func GetFactory(label string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	fn, ok := factories[label]
	return fn, ok
}

// Register is a generic convenience that registers new(T) as the factory for
// a label.
func Register[T any](label string) {
	RegisterFactory(label, func() any {
		return new(T)
	})
}

// Unregister removes a label's factory. Intended for tests that need to
// re-register under the same label.
func Unregister(label string) {
	mu.Lock()
	defer mu.Unlock()
	delete(factories, label)
}
