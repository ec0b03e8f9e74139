package graph

import (
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/depflow/types"
	"github.com/warriorguo/depflow/utils"
)

var (
	_ types.DAG = &Graph{}
)

/**
 * Graph is the node set plus the directed edge set of a run.
 * It is built once by Build and never mutated afterwards, so it is safe
 * for concurrent readers.
 */
type Graph struct {
	nodes []*types.Node
	edges []types.Edge
	index map[*types.Node]int

	predecessors map[*types.Node][]*types.Node
	successors   map[*types.Node][]*types.Node
}

func newGraph(capacity int) *Graph {
	return &Graph{
		nodes:        make([]*types.Node, 0, capacity),
		index:        make(map[*types.Node]int, capacity),
		predecessors: make(map[*types.Node][]*types.Node, capacity),
		successors:   make(map[*types.Node][]*types.Node, capacity),
	}
}

/**
 * Build constructs every node from instructions, then evaluates each node's
 * dependency function against the complete node list, in construction order,
 * and adds one edge per returned dependency.
 * Cycles are not detected here, TopologicalSort reports them.
 * Every dependency function scans the whole node set, so building is O(n²).
 */
func Build(instructions []types.Instruction, deps types.DependencyTable) (*Graph, error) {
	nodes := make([]*types.Node, 0, len(instructions))
	for _, ins := range instructions {
		nodes = append(nodes, types.NewNode(ins.Label, ins.Target, ins.Kind))
	}
	return FromNodes(nodes, deps)
}

// FromNodes is Build for nodes which were already constructed by the caller.
func FromNodes(nodes []*types.Node, deps types.DependencyTable) (*Graph, error) {
	g := newGraph(len(nodes))
	for _, n := range nodes {
		if err := g.addNode(n); err != nil {
			return nil, errors.Trace(err)
		}
	}

	for _, n := range g.nodes {
		depFn, exists := deps[n.Kind]
		if !exists || depFn == nil {
			return nil, types.NewConfigErrorf("no dependency function for kind %q of %s", n.Kind, n)
		}
		for _, d := range utils.UniqueSlice(depFn(n, g.Nodes())) {
			if err := g.addEdge(d, n); err != nil {
				return nil, errors.Trace(err)
			}
		}
	}
	return g, nil
}

func (g *Graph) addNode(n *types.Node) error {
	if n == nil {
		return types.NewConfigErrorf("nil node at position %d", len(g.nodes))
	}
	if _, exists := g.index[n]; exists {
		return types.NewConfigErrorf("node %s added twice", n)
	}
	log.Debugf("adding node '%s'", n)

	g.index[n] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return nil
}

func (g *Graph) addEdge(from, to *types.Node) error {
	if _, exists := g.index[from]; !exists {
		return types.NewConfigErrorf("dependency %s of %s is not part of the graph", from, to)
	}
	log.Debugf("adding edge from '%s' to '%s'", from, to)

	g.edges = append(g.edges, types.Edge{From: from, To: to})
	g.successors[from] = append(g.successors[from], to)
	g.predecessors[to] = append(g.predecessors[to], from)
	return nil
}

// Nodes returns a copy of the nodes in construction order.
func (g *Graph) Nodes() []*types.Node {
	return append([]*types.Node(nil), g.nodes...)
}

// Edges returns a copy of the edges in insertion order.
func (g *Graph) Edges() []types.Edge {
	return append([]types.Edge(nil), g.edges...)
}

func (g *Graph) Predecessors(n *types.Node) []*types.Node {
	return append([]*types.Node(nil), g.predecessors[n]...)
}

func (g *Graph) Successors(n *types.Node) []*types.Node {
	return append([]*types.Node(nil), g.successors[n]...)
}

func (g *Graph) Index(n *types.Node) (int, bool) {
	i, exists := g.index[n]
	return i, exists
}

func (g *Graph) Len() int {
	return len(g.nodes)
}

// Lookup returns the first node carrying label, labels are not identities.
func (g *Graph) Lookup(label string) (*types.Node, bool) {
	for _, n := range g.nodes {
		if n.Label == label {
			return n, true
		}
	}
	return nil, false
}
