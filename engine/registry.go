package engine

import (
	"fmt"
	"slices"
	"sync"
)

// Factory creates a new engine instance.
type Factory func() Engine

var (
	registryMu sync.RWMutex
	engines    = make(map[string]Factory)
	// Priority order for engine selection (first that initializes wins).
	// Native renders for real; software is the headless fallback.
	enginePriority = []string{NameNative, NameSoftware}
)

// Register registers an engine factory under name.
// This is typically called from init() functions in engine packages.
// Registering an existing name replaces the previous factory.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	engines[name] = factory
}

// Unregister removes an engine from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(engines, name)
}

// Available returns the names of registered engines.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if an engine with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := engines[name]
	return ok
}

// Get returns a new engine instance by name.
// Returns nil if the engine is not registered.
func Get(name string) Engine {
	registryMu.RLock()
	factory, ok := engines[name]
	registryMu.RUnlock()

	if !ok {
		return nil
	}
	return factory()
}

// Open returns an initialized engine by name.
func Open(name string) (Engine, error) {
	e := Get(name)
	if e == nil {
		return nil, fmt.Errorf("%w: %q is not registered", ErrNotAvailable, name)
	}
	if err := e.Init(); err != nil {
		return nil, fmt.Errorf("engine %q: %w", name, err)
	}
	return e, nil
}

// OpenDefault initializes the best available engine by priority, falling
// back to the next one when Init fails. Each failure is logged at warn level.
func OpenDefault() (Engine, error) {
	registryMu.RLock()
	order := make([]string, 0, len(engines))
	for _, name := range enginePriority {
		if _, ok := engines[name]; ok {
			order = append(order, name)
		}
	}
	for name := range engines {
		if !slices.Contains(enginePriority, name) {
			order = append(order, name)
		}
	}
	registryMu.RUnlock()

	for _, name := range order {
		e, err := Open(name)
		if err == nil {
			return e, nil
		}
		Logger().Warn("engine: falling back", "engine", name, "err", err)
	}
	return nil, ErrNotAvailable
}
