// Package catalog holds the process-wide registry of variables. A Catalog
// is assembled once through a Builder while static configuration data is
// loaded, then frozen; resolution only ever reads it, so concurrent
// resolutions need no coordination.
package catalog

import (
	"fmt"
	"sort"

	"github.com/vk/varflow/internal/varvalue"
)

// Variable is one named entry in the catalog. The catalog is the sole
// owner; equations, modules and UI forms refer to variables by name only.
type Variable struct {
	Name string

	// Default is the declared default value, if any.
	Default varvalue.Value

	// ReferencedBy lists the equations and compute modules that consume or
	// produce this variable, in first-reference order.
	ReferencedBy []string
}

// Builder accumulates variable declarations during loading. It is not safe
// for concurrent use; load happens on one goroutine before Build.
type Builder struct {
	vars  map[string]*Variable
	order []string
}

// NewBuilder returns an empty catalog builder.
func NewBuilder() *Builder {
	return &Builder{vars: make(map[string]*Variable)}
}

// Declare records a variable and its default value. Re-declaring a name
// with an unset default is a no-op; re-declaring with a conflicting default
// is an error so malformed static data surfaces at load time.
func (b *Builder) Declare(name string, def varvalue.Value) error {
	existing, ok := b.vars[name]
	if !ok {
		b.vars[name] = &Variable{Name: name, Default: def}
		b.order = append(b.order, name)
		return nil
	}
	if !def.IsSet() {
		return nil
	}
	if existing.Default.IsSet() && !existing.Default.Equal(def) {
		return fmt.Errorf("variable %q declared twice with conflicting defaults", name)
	}
	existing.Default = def
	return nil
}

// AddReference records that the named equation or module touches the
// variable. Unknown variables are declared implicitly with no default.
func (b *Builder) AddReference(varName, refName string) {
	v, ok := b.vars[varName]
	if !ok {
		v = &Variable{Name: varName}
		b.vars[varName] = v
		b.order = append(b.order, varName)
	}
	for _, r := range v.ReferencedBy {
		if r == refName {
			return
		}
	}
	v.ReferencedBy = append(v.ReferencedBy, refName)
}

// Build freezes the accumulated declarations into an immutable Catalog.
// The builder must not be used afterwards.
func (b *Builder) Build() *Catalog {
	c := &Catalog{vars: make(map[string]Variable, len(b.vars))}
	for _, name := range b.order {
		v := b.vars[name]
		c.vars[name] = Variable{
			Name:         v.Name,
			Default:      v.Default,
			ReferencedBy: append([]string(nil), v.ReferencedBy...),
		}
	}
	b.vars = nil
	b.order = nil
	return c
}

// Catalog is the immutable variable registry. All methods are safe for
// concurrent use because nothing mutates after Build.
type Catalog struct {
	vars map[string]Variable
}

// Lookup returns the variable record for name.
func (c *Catalog) Lookup(name string) (Variable, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Has reports whether name is declared.
func (c *Catalog) Has(name string) bool {
	_, ok := c.vars[name]
	return ok
}

// Default returns the declared default for name; the zero Value if the
// variable is unknown or has no default.
func (c *Catalog) Default(name string) varvalue.Value {
	return c.vars[name].Default
}

// Names returns all declared variable names in lexical order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.vars))
	for name := range c.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of declared variables.
func (c *Catalog) Len() int { return len(c.vars) }
