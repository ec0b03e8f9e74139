package types

// Edge `From -> To` means From must finish before To may start.
type Edge struct {
	From *Node
	To   *Node
}

// DAG is the read-only view of a built graph used by sorters, executors and renderers.
type DAG interface {
	// Nodes in construction order.
	Nodes() []*Node
	// Edges in insertion order.
	Edges() []Edge
	Predecessors(n *Node) []*Node
	Successors(n *Node) []*Node
	// Index returns the construction index of n, false if n is not part of the graph.
	Index(n *Node) (int, bool)
	Len() int
}
