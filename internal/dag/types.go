package dag

// NodeKind discriminates the four node types of the dependency graph.
type NodeKind int

const (
	// VariableNode carries one variable's value between producers and
	// consumers.
	VariableNode NodeKind = iota
	// EquationNode is one equation invocation declared by the
	// configuration.
	EquationNode
	// ModuleNode is one secondary-module invocation.
	ModuleNode
	// SinkNode is the synthetic terminal for one primary-module input
	// variable.
	SinkNode
)

// String returns a short name for the kind, used in node IDs and
// diagnostics.
func (k NodeKind) String() string {
	switch k {
	case VariableNode:
		return "var"
	case EquationNode:
		return "eqn"
	case ModuleNode:
		return "mod"
	case SinkNode:
		return "sink"
	default:
		return "unknown"
	}
}

// Node is a single vertex. Adjacency is kept both as maps (dedup) and as
// insertion-ordered slices so that every traversal over the graph is
// deterministic without sorting.
type Node struct {
	// ID is the unique identifier, e.g. "var:biomass_feed_rate" or
	// "eqn:0:Biomass Feedstock#0".
	ID   string
	Kind NodeKind

	// Name is the variable name for variable and sink nodes, the declared
	// invocation name for equation and module nodes.
	Name string

	// Index is the declaration position among the configuration's
	// invocations (equations first, then modules); -1 for variable and
	// sink nodes. It is the resolver's tie-break key.
	Index int

	// Inputs and Outputs hold the declared variable names of an
	// invocation node, in declared order. Empty for other kinds.
	Inputs  []string
	Outputs []string

	deps           map[string]*Node
	dependents     map[string]*Node
	depOrder       []*Node
	dependentOrder []*Node
}

// Deps returns the node's predecessors in edge-insertion order. The slice
// is shared; callers must not mutate it.
func (n *Node) Deps() []*Node { return n.depOrder }

// Dependents returns the node's successors in edge-insertion order.
func (n *Node) Dependents() []*Node { return n.dependentOrder }

/// Graph is the per-resolution dependency graph: variables, equation and
// module invocations, and one sink per primary-module input. It is built
// fresh for each resolution request and never mutated afterwards.
type Graph struct {
	nodes map[string]*Node
	order []*Node

	invocations []*Node
	sinks       []*Node
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Variable returns the variable node for name.
func (g *Graph) Variable(name string) (*Node, bool) {
	return g.Node(variableID(name))
}

// Invocations returns all equation and module nodes in declaration order,
// equations before modules.
func (g *Graph) Invocations() []*Node { return g.invocations }

// Sinks returns the primary-input sink nodes in declaration order.
func (g *Graph) Sinks() []*Node { return g.sinks }

// Variables returns all variable nodes in insertion order.
func (g *Graph) Variables() []*Node {
	var vars []*Node
	for _, n := range g.order {
		if n.Kind == VariableNode {
			vars = append(vars, n)
		}
	}
	return vars
}

// Len reports the total node count.
func (g *Graph) Len() int { return len(g.order) }
