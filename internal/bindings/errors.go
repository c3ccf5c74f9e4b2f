package bindings

import (
	"fmt"

	"github.com/vk/varflow/internal/config"
)

// UnknownConfigurationError reports a lookup for a configuration name that
// was never registered.
type UnknownConfigurationError struct {
	Name string
}

func (e *UnknownConfigurationError) Error() string {
	return fmt.Sprintf("unknown configuration %q", e.Name)
}

// UnknownVariableError reports a relation whose target variable is not in
// the variable catalog. It is raised at insertion time so malformed static
// data is caught at load, not at simulation time.
type UnknownVariableError struct {
	Config   string
	Kind     config.RelationKind
	Variable string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("configuration %q: %s target %q is not in the variable catalog", e.Config, e.Kind, e.Variable)
}

// ConflictingBindingError reports a variable declared both as a raw input
// and as an evaluated input of the same configuration, leaving its source
// ambiguous.
type ConflictingBindingError struct {
	Config   string
	Variable string
}

func (e *ConflictingBindingError) Error() string {
	return fmt.Sprintf("configuration %q: variable %q declared both as a raw input and as an evaluated input", e.Config, e.Variable)
}
