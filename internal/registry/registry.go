// Package registry holds the equation and secondary-module callables an
// application registers before resolution. Callables are opaque to the
// engine: they take current values of their declared inputs and return
// values for their declared outputs.
package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/varflow/internal/bindings"
	"github.com/vk/varflow/internal/varvalue"
)

// Callable is one equation or secondary-module implementation. It must be
// pure with respect to the value map: read the declared inputs, return the
// declared outputs, no side channel.
type Callable func(ctx context.Context, in map[string]varvalue.Value) (map[string]varvalue.Value, error)

// Module registers a group of callables, mirroring how an embedding
// application plugs its implementations into the engine.
type Module interface {
	Register(r *Registry)
}

// Registry maps declared invocation names to their callables, equations
// and secondary modules separately.
type Registry struct {
	equations map[string]Callable
	modules   map[string]Callable
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		equations: make(map[string]Callable),
		modules:   make(map[string]Callable),
	}
}

// RegisterEquation binds an equation name to its implementation.
func (r *Registry) RegisterEquation(name string, fn Callable) {
	r.equations[name] = fn
}

// RegisterModule binds a secondary-module name to its implementation.
func (r *Registry) RegisterModule(name string, fn Callable) {
	r.modules[name] = fn
}

// Equation returns the callable registered for an equation name.
func (r *Registry) Equation(name string) (Callable, bool) {
	fn, ok := r.equations[name]
	return fn, ok
}

// Module returns the callable registered for a secondary-module name.
func (r *Registry) Module(name string) (Callable, bool) {
	fn, ok := r.modules[name]
	return fn, ok
}

// Validate performs a parity check between the binding store's declared
// invocations and the registered callables: every declared equation and
// secondary module must have an implementation. Quarantined configurations
// are skipped; they already failed load.
func (r *Registry) Validate(ctx context.Context, store *bindings.Store) error {
	var errs []string
	for _, name := range store.Names() {
		bs, err := store.BindingSet(name)
		if err != nil {
			continue
		}
		for _, eq := range bs.Equations {
			if _, ok := r.equations[eq.Name]; !ok {
				errs = append(errs, fmt.Sprintf("configuration %q: equation %q has no registered callable", name, eq.Name))
			}
		}
		for _, mod := range bs.Modules {
			if _, ok := r.modules[mod.Name]; !ok {
				errs = append(errs, fmt.Sprintf("configuration %q: secondary module %q has no registered callable", name, mod.Name))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
