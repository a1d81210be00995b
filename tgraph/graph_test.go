package tgraph_test

import (
	"testing"

	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/tgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSimpleFlop builds CPIN -> SOURCE(Q) -> OPIN -> IPIN -> SINK(D), with
// a second CPIN capturing at D, plus a primary input PI -> IPIN. That IPIN
// does not feed Q, since a SOURCE takes only clock-launch fan-in.
func buildSimpleFlop(t *testing.T) (*tgraph.Graph, map[string]ids.NodeID) {
	t.Helper()
	g := tgraph.New()

	pi := g.AddNode(tgraph.Source)
	ipinQ := g.AddNode(tgraph.IPin)
	cpinQ := g.AddNode(tgraph.CPin)
	q := g.AddNode(tgraph.Source)
	opinQ := g.AddNode(tgraph.OPin)
	ipinD := g.AddNode(tgraph.IPin)
	cpinD := g.AddNode(tgraph.CPin)
	d := g.AddNode(tgraph.Sink)

	_, err := g.AddEdge(tgraph.PrimitiveCombinational, pi, ipinQ)
	require.NoError(t, err)
	_, err = g.AddEdge(tgraph.PrimitiveClockLaunch, cpinQ, q)
	require.NoError(t, err)
	_, err = g.AddEdge(tgraph.PrimitiveCombinational, q, opinQ)
	require.NoError(t, err)
	_, err = g.AddEdge(tgraph.Interconnect, opinQ, ipinD)
	require.NoError(t, err)
	_, err = g.AddEdge(tgraph.PrimitiveCombinational, ipinD, d)
	require.NoError(t, err)
	_, err = g.AddEdge(tgraph.PrimitiveClockCapture, cpinD, d)
	require.NoError(t, err)

	return g, map[string]ids.NodeID{
		"pi": pi, "ipinQ": ipinQ, "cpinQ": cpinQ, "q": q,
		"opinQ": opinQ, "ipinD": ipinD, "cpinD": cpinD, "d": d,
	}
}

func TestLevelize_OrdersBySourceBeforeSink(t *testing.T) {
	g, n := buildSimpleFlop(t)
	require.NoError(t, g.Levelize())
	require.NoError(t, g.Validate())

	assert.Less(t, int(g.NodeLevel(n["pi"])), int(g.NodeLevel(n["ipinQ"])))
	assert.Less(t, int(g.NodeLevel(n["q"])), int(g.NodeLevel(n["opinQ"])))
	assert.Less(t, int(g.NodeLevel(n["ipinD"])), int(g.NodeLevel(n["d"])))
}

func TestValidate_SinkWithFanoutIsStructuralError(t *testing.T) {
	g := tgraph.New()
	sink := g.AddNode(tgraph.Sink)
	other := g.AddNode(tgraph.IPin)
	_, err := g.AddEdge(tgraph.PrimitiveCombinational, sink, other)
	require.NoError(t, err)

	err = g.Validate()
	var serr *tgraph.StructuralError
	assert.ErrorAs(t, err, &serr)
}

func TestLevelize_CombinationalLoopIsFatalByDefault(t *testing.T) {
	g := tgraph.New()
	a := g.AddNode(tgraph.IPin)
	b := g.AddNode(tgraph.IPin)
	c := g.AddNode(tgraph.IPin)
	_, err := g.AddEdge(tgraph.PrimitiveCombinational, a, b)
	require.NoError(t, err)
	_, err = g.AddEdge(tgraph.PrimitiveCombinational, b, c)
	require.NoError(t, err)
	_, err = g.AddEdge(tgraph.PrimitiveCombinational, c, a)
	require.NoError(t, err)

	err = g.Levelize()
	var cerr *tgraph.CycleError
	require.ErrorAs(t, err, &cerr)
	require.Len(t, cerr.Loops, 1)
	assert.Len(t, cerr.Loops[0], 3)
}

func TestLevelize_LoopBreakingDisablesSmallestFeedbackEdge(t *testing.T) {
	g := tgraph.New(tgraph.WithLoopBreaking())
	a := g.AddNode(tgraph.IPin)
	b := g.AddNode(tgraph.IPin)
	c := g.AddNode(tgraph.IPin)
	e0, err := g.AddEdge(tgraph.PrimitiveCombinational, a, b)
	require.NoError(t, err)
	_, err = g.AddEdge(tgraph.PrimitiveCombinational, b, c)
	require.NoError(t, err)
	_, err = g.AddEdge(tgraph.PrimitiveCombinational, c, a)
	require.NoError(t, err)

	require.NoError(t, g.Levelize())
	assert.True(t, g.EdgeDisabled(e0), "smallest-id edge in the loop is disabled")
}

func TestOptimizeLayout_PreservesEdgeEndpointsAndLevelOrder(t *testing.T) {
	g, n := buildSimpleFlop(t)
	require.NoError(t, g.Levelize())

	piLevel := g.NodeLevel(n["pi"])
	dLevel := g.NodeLevel(n["d"])

	nodeMap, edgeMap, err := g.OptimizeLayout()
	require.NoError(t, err)
	require.Len(t, nodeMap, g.NumNodes())
	require.Len(t, edgeMap, g.NumEdges())

	newPI := nodeMap[n["pi"]]
	newD := nodeMap[n["d"]]
	assert.Equal(t, piLevel, g.NodeLevel(newPI))
	assert.Equal(t, dLevel, g.NodeLevel(newD))

	// Every edge's endpoints still resolve to a valid node after remap.
	for _, e := range g.Edges() {
		assert.True(t, g.EdgeSrcNode(e).IsValid())
		assert.True(t, g.EdgeSinkNode(e).IsValid())
	}
}

func TestFindEdge(t *testing.T) {
	g, n := buildSimpleFlop(t)
	e, ok := g.FindEdge(n["pi"], n["ipinQ"])
	require.True(t, ok)
	assert.Equal(t, tgraph.PrimitiveCombinational, g.EdgeType(e))

	_, ok = g.FindEdge(n["d"], n["pi"])
	assert.False(t, ok)
}
