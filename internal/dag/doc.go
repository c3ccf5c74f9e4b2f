// Package dag builds the per-resolution dependency graph over one
// configuration's binding set. Nodes are variables, equation invocations,
// module invocations and one synthetic sink per primary-module input;
// edges encode produces/consumes. The graph is structural only - values
// and callables enter the picture in the resolver and evaluator.
package dag
