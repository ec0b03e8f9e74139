package runtime

import (
	"context"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warriorguo/depflow/types"
)

func TestRunSerially(t *testing.T) {
	g := buildStatic(t, links{"B": {"A"}, "C": {"A"}, "D": {"B", "C"}}, "A", "B", "C", "D")
	order := sortStatic(t, g, false)

	visited := make([]string, 0)
	results, err := RunSerially(context.Background(), order, func(ctx context.Context, n *types.Node) (any, error) {
		visited = append(visited, n.Label)
		return "Result of " + n.Label, nil
	})
	require.Nil(t, err)
	assert.Equal(t, []string{"A", "C", "B", "D"}, visited)
	assert.Len(t, results, 4)

	s, exists := results.GetString(node(t, g, "D"))
	assert.True(t, exists)
	assert.Equal(t, "Result of D", s)
}

func TestRunSeriallyFailFast(t *testing.T) {
	g := buildStatic(t, links{}, "A", "B", "C")
	order := sortStatic(t, g, true)

	calls := 0
	results, err := RunSerially(context.Background(), order, func(ctx context.Context, n *types.Node) (any, error) {
		calls++
		if n.Label == "B" {
			return nil, errors.New("boom")
		}
		return n.Label, nil
	})
	require.NotNil(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, results, 1)

	we, ok := types.AsWorkError(err)
	require.True(t, ok)
	assert.Equal(t, "B", we.Node.Label)
	assert.Equal(t, "B: boom", err.Error())
}

func TestRunSeriallyPanic(t *testing.T) {
	g := buildStatic(t, links{}, "A")

	_, err := RunSerially(context.Background(), g.Nodes(), func(ctx context.Context, n *types.Node) (any, error) {
		panic("oops")
	})
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "panic on A: oops")
}

func TestRunSeriallyCancelled(t *testing.T) {
	g := buildStatic(t, links{}, "A", "B")
	ctx, cancel := context.WithCancel(context.Background())

	results, err := RunSerially(ctx, g.Nodes(), func(ctx context.Context, n *types.Node) (any, error) {
		cancel()
		return n.Label, nil
	})
	require.NotNil(t, err)
	assert.Equal(t, context.Canceled, errors.Cause(err))
	assert.Len(t, results, 1)
}

func TestRunSeriallyNilWork(t *testing.T) {
	_, err := RunSerially(context.Background(), nil, nil)
	assert.True(t, types.IsConfigError(err))
}
