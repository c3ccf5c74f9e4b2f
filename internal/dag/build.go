package dag

import (
	"context"
	"fmt"

	"github.com/vk/varflow/internal/config"
	"github.com/vk/varflow/internal/ctxlog"
)

func variableID(name string) string { return "var:" + name }
func sinkID(name string) string     { return "sink:" + name }

// Build constructs the dependency graph for one binding set. Construction
// is purely structural - no values are read - and runs in time linear in
// the number of relations and variables. Cycle detection is the
// resolver's job, not Build's.
func Build(ctx context.Context, bs *config.BindingSet) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	g := &Graph{nodes: make(map[string]*Node)}

	// Variable nodes for every name the binding set mentions.
	for _, eq := range bs.Equations {
		for _, name := range eq.Inputs {
			g.ensureVariable(name)
		}
		for _, name := range eq.Outputs {
			g.ensureVariable(name)
		}
	}
	for _, mod := range bs.Modules {
		for _, name := range mod.Inputs {
			g.ensureVariable(name)
		}
		for _, name := range mod.Outputs {
			g.ensureVariable(name)
		}
	}
	for _, kind := range config.RelationKinds() {
		for _, rel := range bs.Relations(kind) {
			g.ensureVariable(rel.Source)
			g.ensureVariable(rel.Target)
		}
	}
	for _, name := range bs.PrimaryInputs {
		g.ensureVariable(name)
	}
	for _, name := range bs.SecondaryInputs {
		g.ensureVariable(name)
	}
	for _, name := range bs.EvaluatedInputs {
		g.ensureVariable(name)
	}

	// Invocation nodes, equations first, in declaration order. The global
	// index across both lists is the resolver's deterministic tie-break.
	index := 0
	for i, eq := range bs.Equations {
		n := g.addNode(&Node{
			ID:      fmt.Sprintf("eqn:%d:%s", i, eq.Name),
			Kind:    EquationNode,
			Name:    eq.Name,
			Index:   index,
			Inputs:  eq.Inputs,
			Outputs: eq.Outputs,
		})
		g.invocations = append(g.invocations, n)
		index++
		for _, name := range eq.Inputs {
			g.addEdge(g.nodes[variableID(name)], n)
		}
		for _, name := range eq.Outputs {
			g.addEdge(n, g.nodes[variableID(name)])
		}
	}
	for i, mod := range bs.Modules {
		n := g.addNode(&Node{
			ID:      fmt.Sprintf("mod:%d:%s", i, mod.Name),
			Kind:    ModuleNode,
			Name:    mod.Name,
			Index:   index,
			Inputs:  mod.Inputs,
			Outputs: mod.Outputs,
		})
		g.invocations = append(g.invocations, n)
		index++
		for _, name := range mod.Inputs {
			g.addEdge(g.nodes[variableID(name)], n)
		}
		for _, name := range mod.Outputs {
			g.addEdge(n, g.nodes[variableID(name)])
		}
	}

	// Relation pairs with distinct names alias one variable onto another;
	// the value flows source -> target.
	for _, kind := range config.RelationKinds() {
		for _, rel := range bs.Relations(kind) {
			if rel.Source == rel.Target {
				continue
			}
			g.addEdge(g.nodes[variableID(rel.Source)], g.nodes[variableID(rel.Target)])
		}
	}

	// One sink per primary-module input variable: the raw primary inputs
	// plus every target routed in by eqn_outputs_to_primary or ssc_to_eval.
	for _, name := range bs.PrimaryInputs {
		g.ensureSink(name)
	}
	for _, rel := range bs.Relations(config.EqnOutputsToPrimary) {
		g.ensureSink(rel.Target)
	}
	for _, rel := range bs.Relations(config.SSCToEval) {
		g.ensureSink(rel.Target)
	}

	logger.Debug("Dependency graph constructed.",
		"nodes", g.Len(), "invocations", len(g.invocations), "sinks", len(g.sinks))
	return g, nil
}

// addNode registers a node, preserving insertion order.
func (g *Graph) addNode(n *Node) *Node {
	if existing, ok := g.nodes[n.ID]; ok {
		return existing
	}
	n.deps = make(map[string]*Node)
	n.dependents = make(map[string]*Node)
	g.nodes[n.ID] = n
	g.order = append(g.order, n)
	return n
}

// ensureVariable adds the variable node for name if absent.
func (g *Graph) ensureVariable(name string) *Node {
	return g.addNode(&Node{ID: variableID(name), Kind: VariableNode, Name: name, Index: -1})
}

// ensureSink adds the sink node for a primary-input variable if absent,
// with the edge from its variable node.
func (g *Graph) ensureSink(name string) {
	id := sinkID(name)
	if _, ok := g.nodes[id]; ok {
		return
	}
	sink := g.addNode(&Node{ID: id, Kind: SinkNode, Name: name, Index: -1})
	g.sinks = append(g.sinks, sink)
	g.addEdge(g.nodes[variableID(name)], sink)
}

// addEdge records from -> to once; re-adding the same edge is a no-op.
func (g *Graph) addEdge(from, to *Node) {
	if _, dup := from.dependents[to.ID]; dup {
		return
	}
	from.dependents[to.ID] = to
	from.dependentOrder = append(from.dependentOrder, to)
	to.deps[from.ID] = from
	to.depOrder = append(to.depOrder, from)
}
