package registry

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/vk/libdecl/internal/config"
	"github.com/vk/libdecl/internal/ctxlog"
	"github.com/vk/libdecl/internal/declaration"
)

// Module is the interface that all built-in declaration sets implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the declarations known to a single application instance.
// It is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	declarations map[string]*declaration.Declaration
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		declarations: make(map[string]*declaration.Declaration),
	}
}

// Register adds a declaration. Registering the same target twice is a
// programming error and panics.
func (r *Registry) Register(decl *declaration.Declaration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.declarations[decl.Target]; exists {
		panic(fmt.Sprintf("declaration for target '%s' already registered", decl.Target))
	}
	r.declarations[decl.Target] = decl
}

// Lookup returns the declaration for target.
func (r *Registry) Lookup(target string) (*declaration.Declaration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	decl, ok := r.declarations[target]
	return decl, ok
}

// Targets returns the registered targets in sorted order.
func (r *Registry) Targets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.declarations))
}

// PopulateFromModel copies the loaded declarations from the config model into
// the registry. Unlike Register, a declaration from the model replaces an
// existing one with the same target, so user files can override built-ins.
func (r *Registry) PopulateFromModel(ctx context.Context, model *config.Model) {
	logger := ctxlog.FromContext(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()
	for target, decl := range model.Declarations {
		if _, exists := r.declarations[target]; exists {
			logger.Debug("Declaration overridden from file.", "target", target, "source", decl.Source)
		}
		r.declarations[target] = decl
	}
}
