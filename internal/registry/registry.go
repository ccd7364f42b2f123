package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/evogrid/internal/module"
)

// Plugin is implemented by every package that contributes module types.
type Plugin interface {
	Register(r *Registry)
}

// Entry describes one module type.
type Entry struct {
	Type string
	Desc string
	// NewInput returns a pointer to the struct a module block's body is
	// decoded into with gohcl. Defaults set here survive when the block
	// omits an attribute. May be nil for modules without settings.
	NewInput func() any
	// New builds an instance from a decoded input (nil when NewInput is nil).
	New func(name string, input any) (module.Module, error)
}

// Registry holds the module types available to a run.
type Registry struct {
	entries map[string]*Entry
}

// New creates an empty registry and registers every plugin given.
func New(plugins ...Plugin) *Registry {
	r := &Registry{entries: make(map[string]*Entry)}
	for _, p := range plugins {
		p.Register(r)
	}
	return r
}

// Register adds a module type. Registering the same type twice is a
// programming error and panics.
func (r *Registry) Register(e *Entry) {
	if e.Type == "" || e.New == nil {
		panic("registry: module type needs a name and a constructor")
	}
	if _, exists := r.entries[e.Type]; exists {
		panic(fmt.Sprintf("module type '%s' already registered", e.Type))
	}
	slog.Debug("Registering module type.", "type", e.Type)
	r.entries[e.Type] = e
}

// Lookup returns the entry for a type name.
func (r *Registry) Lookup(typ string) (*Entry, bool) {
	e, ok := r.entries[typ]
	return e, ok
}

// Types returns every registered type name, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.entries))
	for t := range r.entries {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Build creates a module from an already decoded input.
func (r *Registry) Build(typ, name string, input any) (module.Module, error) {
	e, ok := r.entries[typ]
	if !ok {
		return nil, fmt.Errorf("unknown module type %q", typ)
	}
	m, err := e.New(name, input)
	if err != nil {
		return nil, fmt.Errorf("module %s %q: %w", typ, name, err)
	}
	return m, nil
}
