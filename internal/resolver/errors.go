package resolver

import (
	"fmt"
	"strings"
)

// CyclicDependencyError reports that the binding set's relations form a
// cycle. Path holds the node names along the smallest cycle found, with
// the first node repeated at the end.
type CyclicDependencyError struct {
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency: %s", strings.Join(e.Path, " -> "))
}

// UnsatisfiedInputError reports an invocation input variable with no raw
// value, no default and no producing invocation.
type UnsatisfiedInputError struct {
	Variable   string
	Invocation string
}

func (e *UnsatisfiedInputError) Error() string {
	return fmt.Sprintf("unsatisfied input: variable %q consumed by %q has no raw value, no default and no producer", e.Variable, e.Invocation)
}

// UnreachablePrimaryInputError reports a primary-module input variable
// that nothing in the graph can ever supply.
type UnreachablePrimaryInputError struct {
	Variable string
}

func (e *UnreachablePrimaryInputError) Error() string {
	return fmt.Sprintf("unreachable primary input: variable %q has no raw value, no default and no producer", e.Variable)
}
