package graph

import (
	"github.com/gammazero/deque"
	"github.com/warriorguo/depflow/types"
)

/**
 * TopologicalSort orders g with Kahn's algorithm.
 * The ready queue is seeded with every zero in-degree node in construction order,
 * newly ready nodes are always pushed to its back.
 * breadthFirst pops from the front (oldest ready first), otherwise nodes are popped
 * from the back (most recently ready first) which drains one branch before its siblings.
 * A graph with a cycle yields *types.CycleError, never a partial order.
 */
func TopologicalSort(g types.DAG, breadthFirst bool) ([]*types.Node, error) {
	nodes := g.Nodes()
	inbound := initInboundCounts(g, nodes)

	ready := deque.New[*types.Node](len(nodes))
	for _, n := range nodes {
		if inbound[n] == 0 {
			ready.PushBack(n)
		}
	}

	sorted := make([]*types.Node, 0, len(nodes))
	for ready.Len() > 0 {
		var current *types.Node
		if breadthFirst {
			current = ready.PopFront()
		} else {
			current = ready.PopBack()
		}
		sorted = append(sorted, current)

		for _, n := range reduceInboundCounts(inbound, g.Successors(current)) {
			ready.PushBack(n)
		}
	}

	if len(sorted) != len(nodes) {
		remaining := make([]*types.Node, 0, len(nodes)-len(sorted))
		for _, n := range nodes {
			if inbound[n] > 0 {
				remaining = append(remaining, n)
			}
		}
		return nil, types.NewCycleError(len(sorted), len(nodes), remaining)
	}
	return sorted, nil
}

func initInboundCounts(g types.DAG, nodes []*types.Node) map[*types.Node]int {
	inbound := make(map[*types.Node]int, len(nodes))
	for _, n := range nodes {
		inbound[n] = 0
	}
	for _, e := range g.Edges() {
		inbound[e.To]++
	}
	return inbound
}

// reduceInboundCounts removes one inbound edge from each of nodes and returns those left with none.
func reduceInboundCounts(inbound map[*types.Node]int, nodes []*types.Node) []*types.Node {
	freed := make([]*types.Node, 0, len(nodes))
	for _, n := range nodes {
		if inbound[n]--; inbound[n] == 0 {
			freed = append(freed, n)
		}
	}
	return freed
}

/**
 * ValidateOrder checks that order contains every node of g exactly once and
 * that every edge points forward in it.
 */
func ValidateOrder(g types.DAG, order []*types.Node) error {
	if len(order) != g.Len() {
		return types.NewConfigErrorf("order holds %d nodes, graph holds %d", len(order), g.Len())
	}

	position := make(map[*types.Node]int, len(order))
	for i, n := range order {
		if _, exists := g.Index(n); !exists {
			return types.NewConfigErrorf("%s at position %d is not part of the graph", n, i)
		}
		if prev, exists := position[n]; exists {
			return types.NewConfigErrorf("%s appears at positions %d and %d", n, prev, i)
		}
		position[n] = i
	}

	for _, e := range g.Edges() {
		if position[e.From] >= position[e.To] {
			return types.NewConfigErrorf("%s must come before %s", e.From, e.To)
		}
	}
	return nil
}
