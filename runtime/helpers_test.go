package runtime

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/warriorguo/depflow/graph"
	"github.com/warriorguo/depflow/types"
)

const kindStatic types.NodeKind = "static"

type links map[string][]string

func (l links) table() types.DependencyTable {
	return types.DependencyTable{
		kindStatic: func(n *types.Node, all []*types.Node) []*types.Node {
			deps := make([]*types.Node, 0)
			for _, label := range l[n.Label] {
				for _, other := range all {
					if other.Label == label {
						deps = append(deps, other)
					}
				}
			}
			return deps
		},
	}
}

func buildStatic(t *testing.T, l links, labels ...string) *graph.Graph {
	ins := make([]types.Instruction, 0, len(labels))
	for _, label := range labels {
		ins = append(ins, types.Instruction{Label: label, Target: label, Kind: kindStatic})
	}
	g, err := graph.Build(ins, l.table())
	require.Nil(t, err)
	return g
}

func sortStatic(t *testing.T, g *graph.Graph, breadthFirst bool) []*types.Node {
	order, err := graph.TopologicalSort(g, breadthFirst)
	require.Nil(t, err)
	return order
}

func node(t *testing.T, g *graph.Graph, label string) *types.Node {
	n, exists := g.Lookup(label)
	require.True(t, exists, label)
	return n
}

// randomStatic builds an acyclic graph, a node only depends on nodes generated before it.
func randomStatic(t *testing.T, r *rand.Rand, size int) *graph.Graph {
	names := make([]string, 0, size)
	l := links{}
	for i := 0; i < size; i++ {
		name := fmt.Sprintf("n%d", i)
		for j := 0; j < i; j++ {
			if r.Intn(3) == 0 {
				l[name] = append(l[name], names[j])
			}
		}
		names = append(names, name)
	}
	r.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	return buildStatic(t, l, names...)
}
