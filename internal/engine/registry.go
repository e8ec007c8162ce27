package engine

import (
	"sort"

	apperrors "github.com/louisbranch/airlock/internal/errors"
)

// Factory builds a fresh, independently seeded System instance.
type Factory func() (System, error)

// Registry maps rule-system names to factories.
//
// The registry itself is assembled once at startup; afterwards it only reads,
// so collaborators may share it. Each New call produces an isolated instance.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty system registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds a factory under a system name, replacing any previous entry.
func (r *Registry) Register(name string, factory Factory) {
	r.factories[name] = factory
}

// New builds a fresh instance of the named system.
func (r *Registry) New(name string) (System, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeSystemUnknown,
			"unknown rule system: "+name, map[string]string{"System": name})
	}
	return factory()
}

// Names lists registered system names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
