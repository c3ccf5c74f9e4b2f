// Package evaluator walks a validated evaluation order, invoking the
// registered equation and module callables and threading their outputs
// into later consumers. The value map is last-writer-wins; the provenance
// trace records who wrote what. Evaluation is strictly sequential and
// deterministic: the same plan and raw values always produce the same
// result and trace.
package evaluator

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/varflow/internal/catalog"
	"github.com/vk/varflow/internal/ctxlog"
	"github.com/vk/varflow/internal/dag"
	"github.com/vk/varflow/internal/registry"
	"github.com/vk/varflow/internal/resolver"
	"github.com/vk/varflow/internal/varvalue"
)

// MissingPrimaryInputError reports a primary-input sink left without a
// value after the walk. The resolver guarantees reachability, so this is
// an internal invariant breach, not a data error.
type MissingPrimaryInputError struct {
	Variable string
}

func (e *MissingPrimaryInputError) Error() string {
	return fmt.Sprintf("missing primary input %q after evaluation: builder/resolver invariant violated", e.Variable)
}

// Result is the outcome of one evaluation: the primary-module input
// values and the provenance trace.
type Result struct {
	PrimaryInputs map[string]varvalue.Value
	Trace         *Trace
}

// Evaluate runs the plan against the raw UI values. Defaults from the
// catalog seed the value map first, raw values overwrite them, and each
// invocation's outputs overwrite whatever came before (the last writer in
// resolution order is authoritative).
func Evaluate(
	ctx context.Context,
	g *dag.Graph,
	plan *resolver.Plan,
	raw map[string]varvalue.Value,
	cat *catalog.Catalog,
	reg *registry.Registry,
) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	values := make(map[string]varvalue.Value)
	trace := newTrace()

	write := func(name string, v varvalue.Value, producer string, position int) {
		values[name] = v
		trace.set(name, producer, position)
	}

	// Seed catalog defaults, then raw UI values on top.
	for _, vn := range g.Variables() {
		if def := cat.Default(vn.Name); def.IsSet() {
			write(vn.Name, def, ProducerDefault, SeedPosition)
		}
	}
	for _, vn := range g.Variables() {
		if v, ok := raw[vn.Name]; ok && v.IsSet() {
			write(vn.Name, v, ProducerRaw, SeedPosition)
		}
	}

	// Push seeded values through the alias relations before anything runs.
	for _, vn := range g.Variables() {
		if values[vn.Name].IsSet() {
			propagateAliases(g, vn, values[vn.Name], trace.entries[vn.Name], write)
		}
	}

	for position, inv := range plan.Order {
		in := make(map[string]varvalue.Value, len(inv.Inputs))
		for _, name := range inv.Inputs {
			v, ok := values[name]
			if !ok || !v.IsSet() {
				// The resolver validated supply, but a prior callable may
				// have failed to return a declared output.
				return nil, &resolver.UnsatisfiedInputError{Variable: name, Invocation: inv.Name}
			}
			in[name] = v
		}

		fn, err := lookupCallable(reg, inv)
		if err != nil {
			return nil, err
		}

		logger.Debug("Invoking callable.", "invocation", inv.Name, "position", position)
		out, err := fn(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("invocation %q at position %d failed: %w", inv.Name, position, err)
		}

		declared := make(map[string]struct{}, len(inv.Outputs))
		for _, name := range inv.Outputs {
			declared[name] = struct{}{}
		}
		for _, name := range sortedKeys(out) {
			if _, ok := declared[name]; !ok {
				logger.Warn("Callable returned an undeclared output; ignored.",
					"invocation", inv.Name, "variable", name)
			}
		}
		for _, name := range inv.Outputs {
			v, ok := out[name]
			if !ok || !v.IsSet() {
				logger.Warn("Callable did not return a declared output.",
					"invocation", inv.Name, "variable", name)
				continue
			}
			write(name, v, inv.Name, position)
			if vn, ok := g.Variable(name); ok {
				propagateAliases(g, vn, v, trace.entries[name], write)
			}
		}
	}

	// The primary input set is the value map restricted to the sinks.
	primary := make(map[string]varvalue.Value, len(g.Sinks()))
	for _, sink := range g.Sinks() {
		v, ok := values[sink.Name]
		if !ok || !v.IsSet() {
			return nil, &MissingPrimaryInputError{Variable: sink.Name}
		}
		primary[sink.Name] = v
	}

	logger.Debug("Evaluation complete.", "primary_inputs", len(primary), "traced", trace.Len())
	return &Result{PrimaryInputs: primary, Trace: trace}, nil
}

// propagateAliases copies a freshly written value along variable-to-
// variable relation edges, carrying the writer's provenance. The resolver
// rejects alias cycles, but a visited set guards the walk regardless.
func propagateAliases(g *dag.Graph, from *dag.Node, v varvalue.Value, p Provenance, write func(string, varvalue.Value, string, int)) {
	visited := map[string]struct{}{from.Name: {}}
	queue := []*dag.Node{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dep := range cur.Dependents() {
			if dep.Kind != dag.VariableNode {
				continue
			}
			if _, seen := visited[dep.Name]; seen {
				continue
			}
			visited[dep.Name] = struct{}{}
			write(dep.Name, v, p.Producer, p.Position)
			queue = append(queue, dep)
		}
	}
}

func lookupCallable(reg *registry.Registry, inv *dag.Node) (registry.Callable, error) {
	switch inv.Kind {
	case dag.EquationNode:
		if fn, ok := reg.Equation(inv.Name); ok {
			return fn, nil
		}
		return nil, fmt.Errorf("no callable registered for equation %q", inv.Name)
	case dag.ModuleNode:
		if fn, ok := reg.Module(inv.Name); ok {
			return fn, nil
		}
		return nil, fmt.Errorf("no callable registered for secondary module %q", inv.Name)
	default:
		return nil, fmt.Errorf("node %q is not an invocation", inv.ID)
	}
}

func sortedKeys(m map[string]varvalue.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
