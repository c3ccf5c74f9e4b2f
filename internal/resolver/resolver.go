// Package resolver computes a deterministic evaluation order over a
// dependency graph. It projects the graph down to invocation nodes
// (variables collapse into edges between the invocations that share
// them), runs Kahn's algorithm with declaration order as the tie-break,
// and rejects cyclic, unsatisfied or unreachable binding sets. It never
// returns a partial order.
package resolver

import (
	"context"
	"sort"

	"github.com/vk/varflow/internal/catalog"
	"github.com/vk/varflow/internal/ctxlog"
	"github.com/vk/varflow/internal/dag"
)

// Plan is a complete, validated evaluation order.
type Plan struct {
	// Order lists the equation and module invocations in a sequence where
	// every invocation's inputs are available before it runs.
	Order []*dag.Node
}

// varSupply is what the resolver knows about one variable: which
// invocations can produce it (directly or through alias chains), and
// whether a raw value or catalog default can seed it.
type varSupply struct {
	producers []*dag.Node
	seeded    bool
}

// Schedule validates the graph and produces the evaluation order. raw
// holds the names of the raw UI values the caller will supply to the
// evaluator; the catalog supplies defaults.
func Schedule(ctx context.Context, g *dag.Graph, cat *catalog.Catalog, raw map[string]struct{}) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)

	supplies, err := computeSupplies(g, cat, raw)
	if err != nil {
		return nil, err
	}

	// Every invocation input must be suppliable by something.
	for _, inv := range g.Invocations() {
		for _, name := range inv.Inputs {
			s := supplies[name]
			if s == nil || (len(s.producers) == 0 && !s.seeded) {
				return nil, &UnsatisfiedInputError{Variable: name, Invocation: inv.Name}
			}
		}
	}

	// Every primary-input sink must be reachable.
	for _, sink := range g.Sinks() {
		s := supplies[sink.Name]
		if s == nil || (len(s.producers) == 0 && !s.seeded) {
			return nil, &UnreachablePrimaryInputError{Variable: sink.Name}
		}
	}

	order, err := kahn(g, supplies)
	if err != nil {
		return nil, err
	}

	logger.Debug("Evaluation order resolved.", "invocations", len(order))
	return &Plan{Order: order}, nil
}

// computeSupplies walks every variable's alias chain once, collecting the
// set of producing invocations and whether a raw value or default can seed
// the chain. A pure variable-to-variable cycle in the alias relations is
// reported as a cyclic dependency.
func computeSupplies(g *dag.Graph, cat *catalog.Catalog, raw map[string]struct{}) (map[string]*varSupply, error) {
	const (
		white = iota // unvisited
		grey         // on the current walk
		black        // done
	)
	color := make(map[string]int)
	supplies := make(map[string]*varSupply)

	var walk func(v *dag.Node, stack []string) (*varSupply, *CyclicDependencyError)
	walk = func(v *dag.Node, stack []string) (*varSupply, *CyclicDependencyError) {
		switch color[v.Name] {
		case black:
			return supplies[v.Name], nil
		case grey:
			// Alias chain loops back onto itself.
			path := closeCycle(stack, v.Name)
			return nil, &CyclicDependencyError{Path: path}
		}
		color[v.Name] = grey

		s := &varSupply{}
		if _, ok := raw[v.Name]; ok {
			s.seeded = true
		} else if cat.Default(v.Name).IsSet() {
			s.seeded = true
		}
		seen := make(map[string]struct{})
		for _, dep := range v.Deps() {
			switch dep.Kind {
			case dag.EquationNode, dag.ModuleNode:
				if _, dup := seen[dep.ID]; !dup {
					seen[dep.ID] = struct{}{}
					s.producers = append(s.producers, dep)
				}
			case dag.VariableNode:
				upstream, cycErr := walk(dep, append(stack, v.Name))
				if cycErr != nil {
					return nil, cycErr
				}
				if upstream.seeded {
					s.seeded = true
				}
				for _, p := range upstream.producers {
					if _, dup := seen[p.ID]; !dup {
						seen[p.ID] = struct{}{}
						s.producers = append(s.producers, p)
					}
				}
			}
		}

		color[v.Name] = black
		supplies[v.Name] = s
		return s, nil
	}

	for _, inv := range g.Invocations() {
		for _, name := range inv.Inputs {
			if v, ok := g.Variable(name); ok {
				if _, err := walk(v, nil); err != nil {
					return nil, err
				}
			}
		}
	}
	for _, sink := range g.Sinks() {
		if v, ok := g.Variable(sink.Name); ok {
			if _, err := walk(v, nil); err != nil {
				return nil, err
			}
		}
	}
	return supplies, nil
}

// closeCycle trims the walk stack down to the looping suffix and closes it.
func closeCycle(stack []string, repeat string) []string {
	start := 0
	for i, name := range stack {
		if name == repeat {
			start = i
			break
		}
	}
	path := append([]string(nil), stack[start:]...)
	return append(path, repeat)
}

// kahn runs Kahn's algorithm over the invocation projection. Ties among
// ready invocations break by declaration index, so the order is
// reproducible across runs.
func kahn(g *dag.Graph, supplies map[string]*varSupply) ([]*dag.Node, error) {
	invocations := g.Invocations()

	// Projection edges: producer -> consumer for every shared variable.
	successors := make(map[string][]*dag.Node, len(invocations))
	indegree := make(map[string]int, len(invocations))
	edgeSeen := make(map[[2]string]struct{})
	for _, consumer := range invocations {
		indegree[consumer.ID] += 0
		for _, name := range consumer.Inputs {
			s := supplies[name]
			if s == nil {
				continue
			}
			for _, producer := range s.producers {
				if producer.ID == consumer.ID {
					// An invocation feeding itself is the smallest cycle.
					return nil, &CyclicDependencyError{Path: []string{producer.Name, producer.Name}}
				}
				key := [2]string{producer.ID, consumer.ID}
				if _, dup := edgeSeen[key]; dup {
					continue
				}
				edgeSeen[key] = struct{}{}
				successors[producer.ID] = append(successors[producer.ID], consumer)
				indegree[consumer.ID]++
			}
		}
	}

	// Ready set ordered by declaration index.
	var ready []*dag.Node
	push := func(n *dag.Node) {
		at := sort.Search(len(ready), func(i int) bool { return ready[i].Index > n.Index })
		ready = append(ready, nil)
		copy(ready[at+1:], ready[at:])
		ready[at] = n
	}
	for _, inv := range invocations {
		if indegree[inv.ID] == 0 {
			push(inv)
		}
	}

	order := make([]*dag.Node, 0, len(invocations))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)
		for _, succ := range successors[next.ID] {
			indegree[succ.ID]--
			if indegree[succ.ID] == 0 {
				push(succ)
			}
		}
	}

	if len(order) < len(invocations) {
		var stuck []*dag.Node
		for _, inv := range invocations {
			if indegree[inv.ID] > 0 {
				stuck = append(stuck, inv)
			}
		}
		return nil, &CyclicDependencyError{Path: minimalCycle(stuck, successors)}
	}
	return order, nil
}

// minimalCycle finds the smallest cycle among the stuck invocations via
// breadth-first search from each, ties broken by earliest declaration.
func minimalCycle(stuck []*dag.Node, successors map[string][]*dag.Node) []string {
	inStuck := make(map[string]struct{}, len(stuck))
	for _, n := range stuck {
		inStuck[n.ID] = struct{}{}
	}

	var best []string
	for _, start := range stuck {
		// BFS for the shortest path start -> ... -> start.
		type item struct {
			node *dag.Node
			path []string
		}
		visited := map[string]struct{}{}
		queue := []item{{node: start, path: []string{start.Name}}}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, succ := range successors[cur.node.ID] {
				if _, ok := inStuck[succ.ID]; !ok {
					continue
				}
				if succ.ID == start.ID {
					cycle := append(append([]string(nil), cur.path...), start.Name)
					if best == nil || len(cycle) < len(best) {
						best = cycle
					}
					continue
				}
				if _, seen := visited[succ.ID]; seen {
					continue
				}
				visited[succ.ID] = struct{}{}
				queue = append(queue, item{node: succ, path: append(append([]string(nil), cur.path...), succ.Name)})
			}
		}
	}
	if best == nil {
		// Should not happen: stuck nodes always contain a cycle.
		for _, n := range stuck {
			best = append(best, n.Name)
		}
	}
	return best
}
