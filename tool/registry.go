package tool

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the process-wide capability table mapping tool names to
// implementations. Tools are registered during startup; after that the table
// is effectively read-only and safe for concurrent lookups from every call
// session.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the table. Registering a second tool under an
// already used name returns an error rather than silently replacing it.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("tool %q already registered", t.Name())
	}
	r.tools[t.Name()] = t

	return nil
}

// MustRegister is a startup convenience that panics on duplicate registration.
func (r *Registry) MustRegister(tools ...Tool) {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}

// Get resolves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Schemas returns the wire declarations for the named tools. Unknown names
// produce an error; an agent must not advertise a tool that cannot be
// dispatched.
func (r *Registry) Schemas(names ...string) ([]Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemas := make([]Schema, 0, len(names))
	for _, name := range names {
		t, ok := r.tools[name]
		if !ok {
			return nil, fmt.Errorf("tool %q not registered", name)
		}
		schemas = append(schemas, SchemaOf(t))
	}

	return schemas, nil
}
