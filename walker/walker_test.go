package walker_test

import (
	"testing"

	"github.com/katalvlaran/tatumgo/analysis"
	"github.com/katalvlaran/tatumgo/delaycalc"
	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/tags"
	"github.com/katalvlaran/tatumgo/tconstraints"
	"github.com/katalvlaran/tatumgo/tgraph"
	"github.com/katalvlaran/tatumgo/walker"
	"github.com/stretchr/testify/require"
)

// twoStage builds two flop-to-flop hops (Q1 -> D1 and Q2 -> D2) plus a
// cross edge Q1 -> D2 on one ideal clock network (clksrc -> CPINs), so
// levelization produces more than two levels and Serial/Parallel actually
// exercise a multi-level barrier.
type twoStage struct {
	g    *tgraph.Graph
	c    *tconstraints.Constraints
	dc    *delaycalc.ConstantDelayCalculator
	clk   ids.DomainID
	d1, d2  ids.NodeID
	eQ1D2  ids.EdgeID
}

func buildTwoStage(t *testing.T) *twoStage {
	t.Helper()
	g := tgraph.New()
	clksrc := g.AddNode(tgraph.Source)
	cpinQ1 := g.AddNode(tgraph.CPin)
	cpinD1 := g.AddNode(tgraph.CPin)
	cpinQ2 := g.AddNode(tgraph.CPin)
	cpinD2 := g.AddNode(tgraph.CPin)
	q1 := g.AddNode(tgraph.Source)
	d1 := g.AddNode(tgraph.Sink)
	q2 := g.AddNode(tgraph.Source)
	d2 := g.AddNode(tgraph.Sink)

	mustEdge := func(typ tgraph.EdgeType, src, sink ids.NodeID) ids.EdgeID {
		e, err := g.AddEdge(typ, src, sink)
		require.NoError(t, err)
		return e
	}

	mustEdge(tgraph.Interconnect, clksrc, cpinQ1)
	mustEdge(tgraph.Interconnect, clksrc, cpinD1)
	mustEdge(tgraph.Interconnect, clksrc, cpinQ2)
	mustEdge(tgraph.Interconnect, clksrc, cpinD2)
	mustEdge(tgraph.PrimitiveClockLaunch, cpinQ1, q1)
	eCap1 := mustEdge(tgraph.PrimitiveClockCapture, cpinD1, d1)
	eQ1D1 := mustEdge(tgraph.PrimitiveCombinational, q1, d1)
	mustEdge(tgraph.PrimitiveClockLaunch, cpinQ2, q2)
	eCap2 := mustEdge(tgraph.PrimitiveClockCapture, cpinD2, d2)
	eQ1D2 := mustEdge(tgraph.PrimitiveCombinational, q1, d2)
	eQ2D2 := mustEdge(tgraph.PrimitiveCombinational, q2, d2)

	require.NoError(t, g.Validate())
	require.NoError(t, g.Levelize())

	dc := delaycalc.NewConstant()
	dc.SetMinMaxDelay(eQ1D1, 0.1, 0.2)
	dc.SetMinMaxDelay(eQ1D2, 0.0, 0.05)
	dc.SetMinMaxDelay(eQ2D2, 0.1, 0.2)
	dc.SetSetupTime(eCap1, 0.05)
	dc.SetHoldTime(eCap1, 0.02)
	dc.SetSetupTime(eCap2, 0.05)
	dc.SetHoldTime(eCap2, 0.02)

	c := tconstraints.New()
	clk := c.AddClockDomain("clk", clksrc)
	c.SetSetupConstraint(clk, clk, 1.0)
	c.SetHoldConstraint(clk, clk, 0.0)

	return &twoStage{g: g, c: c, dc: dc, clk: clk, d1: d1, d2: d2, eQ1D2: eQ1D2}
}

func collectSlacks(ctx *analysis.Context, clk ids.DomainID) map[ids.NodeID]float64 {
	out := make(map[ids.NodeID]float64, len(ctx.NodeTags))
	for n, tg := range ctx.NodeTags {
		if s, ok := tg.Slack(clk, clk); ok {
			out[ids.NodeID(n)] = s
		}
	}
	return out
}

func TestSerialAndParallelAgree(t *testing.T) {
	ts := buildTwoStage(t)

	serialCtx := analysis.NewContext(ts.g, ts.c, ts.dc)
	s := walker.NewSerial(ts.g, analysis.NewSetupOps())
	require.NoError(t, s.UpdateTiming(serialCtx))

	parallelCtx := analysis.NewContext(ts.g, ts.c, ts.dc)
	p := walker.NewParallel(ts.g, analysis.NewSetupOps(), walker.WithWorkerCount(4))
	defer p.Close()
	require.NoError(t, p.UpdateTiming(parallelCtx))

	require.Equal(t, collectSlacks(serialCtx, ts.clk), collectSlacks(parallelCtx, ts.clk))
	require.NotEmpty(t, collectSlacks(serialCtx, ts.clk))
}

func TestStopAfterLevel_HaltsPropagationEarly(t *testing.T) {
	ts := buildTwoStage(t)
	ctx := analysis.NewContext(ts.g, ts.c, ts.dc)

	s := walker.NewSerial(ts.g, analysis.NewSetupOps())
	s.SetStopAfterLevel(0)
	require.NoError(t, s.UpdateTiming(ctx))

	require.Equal(t, 1, s.LastTraversal().LevelsRun)
	_, ok := ctx.NodeTags[ts.d2].FindOne(tags.DataArrival, ts.clk, ts.clk)
	require.False(t, ok, "tags must not propagate past the stop level")

	s.SetStopAfterLevel(ids.InvalidLevel)
	require.NoError(t, s.UpdateTiming(ctx))
	require.Equal(t, len(ts.g.Levels()), s.LastTraversal().LevelsRun)
	_, ok = ctx.NodeTags[ts.d2].FindOne(tags.DataArrival, ts.clk, ts.clk)
	require.True(t, ok)
}

func TestIncrementalMatchesFullAfterEdgeChange(t *testing.T) {
	ts := buildTwoStage(t)
	s := walker.NewSerial(ts.g, analysis.NewSetupOps())

	incremental := analysis.NewContext(ts.g, ts.c, ts.dc)
	require.NoError(t, s.UpdateTiming(incremental))

	ts.dc.SetMinMaxDelay(ts.eQ1D2, 0.0, 0.3)

	full := analysis.NewContext(ts.g, ts.c, ts.dc)
	require.NoError(t, s.UpdateTiming(full))

	require.NoError(t, s.UpdateTimingIncremental(incremental, []ids.NodeID{ts.g.EdgeSinkNode(ts.eQ1D2)}))

	require.Equal(t, collectSlacks(full, ts.clk), collectSlacks(incremental, ts.clk))
}
