package pathtrace_test

import (
	"testing"

	"github.com/katalvlaran/tatumgo/analyzer"
	"github.com/katalvlaran/tatumgo/delaycalc"
	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/pathtrace"
	"github.com/katalvlaran/tatumgo/tconstraints"
	"github.com/katalvlaran/tatumgo/tgraph"
	"github.com/stretchr/testify/require"
)

// singleFlopFixture mirrors scenario 1: PI-free single FF to FF
// transfer through one ideal (zero-latency) clock network.
type singleFlopFixture struct {
	g        *tgraph.Graph
	c        *tconstraints.Constraints
	dc       *delaycalc.ConstantDelayCalculator
	clksrc     ids.NodeID
	cpinQ, cpinD  ids.NodeID
	q, d      ids.NodeID
	eClkQ, eClkD  ids.EdgeID
	eQD, eCapture  ids.EdgeID
	clk       ids.DomainID
}

func newSingleFlopFixture(t *testing.T) *singleFlopFixture {
	t.Helper()
	g := tgraph.New()
	clksrc := g.AddNode(tgraph.Source)
	cpinQ := g.AddNode(tgraph.CPin)
	cpinD := g.AddNode(tgraph.CPin)
	q := g.AddNode(tgraph.Source)
	d := g.AddNode(tgraph.Sink)

	eClkQ, err := g.AddEdge(tgraph.Interconnect, clksrc, cpinQ)
	require.NoError(t, err)
	eClkD, err := g.AddEdge(tgraph.Interconnect, clksrc, cpinD)
	require.NoError(t, err)
	_, err = g.AddEdge(tgraph.PrimitiveClockLaunch, cpinQ, q)
	require.NoError(t, err)
	eCapture, err := g.AddEdge(tgraph.PrimitiveClockCapture, cpinD, d)
	require.NoError(t, err)
	eQD, err := g.AddEdge(tgraph.PrimitiveCombinational, q, d)
	require.NoError(t, err)

	require.NoError(t, g.Validate())
	require.NoError(t, g.Levelize())

	dc := delaycalc.NewConstant()
	dc.SetMinMaxDelay(eQD, 0.1, 0.3)
	dc.SetSetupTime(eCapture, 0.05)
	dc.SetHoldTime(eCapture, 0.02)

	c := tconstraints.New()
	clk := c.AddClockDomain("clk", clksrc)
	c.SetSetupConstraint(clk, clk, 1.0)
	c.SetHoldConstraint(clk, clk, 0.0)

	return &singleFlopFixture{
		g: g, c: c, dc: dc,
		clksrc: clksrc, cpinQ: cpinQ, cpinD: cpinD, q: q, d: d,
		eClkQ: eClkQ, eClkD: eClkD, eQD: eQD, eCapture: eCapture, clk: clk,
	}
}

func TestTrace_SingleFlopSetup(t *testing.T) {
	f := newSingleFlopFixture(t)
	a := analyzer.SetupTimingAnalyzer(f.g, f.c, f.dc)
	require.NoError(t, a.UpdateTiming())

	path, err := pathtrace.Trace(a, f.d, f.clk, f.clk, pathtrace.SetupSide)
	require.NoError(t, err)

	require.InDelta(t, 0.3, path.DataArrival, 1e-9)
	require.InDelta(t, 0.95, path.DataRequired, 1e-9)
	require.InDelta(t, 0.65, path.Slack, 1e-9)

	require.Equal(t, []pathtrace.Element{
		{Node: f.q, Edge: ids.InvalidEdge, Time: 0},
		{Node: f.d, Edge: f.eQD, Time: 0.3},
	}, path.Data)

	require.Equal(t, []pathtrace.Element{
		{Node: f.clksrc, Edge: ids.InvalidEdge, Time: 0},
		{Node: f.cpinQ, Edge: f.eClkQ, Time: 0},
	}, path.LaunchClock)

	require.Equal(t, []pathtrace.Element{
		{Node: f.clksrc, Edge: ids.InvalidEdge, Time: 0},
		{Node: f.cpinD, Edge: f.eClkD, Time: 0},
	}, path.CaptureClock)
}

func TestTrace_NoPath(t *testing.T) {
	f := newSingleFlopFixture(t)
	a := analyzer.SetupTimingAnalyzer(f.g, f.c, f.dc)
	require.NoError(t, a.UpdateTiming())

	other := f.c.AddClockDomain("other", ids.InvalidNode)
	_, err := pathtrace.Trace(a, f.d, other, other, pathtrace.SetupSide)
	require.ErrorIs(t, err, pathtrace.ErrNoPath)
}

func TestWorstCandidates_SortsBySlackAscending(t *testing.T) {
	f := newSingleFlopFixture(t)
	a := analyzer.SetupTimingAnalyzer(f.g, f.c, f.dc)
	require.NoError(t, a.UpdateTiming())

	cands := pathtrace.WorstCandidates(a, pathtrace.SetupSide, 1)
	require.Len(t, cands, 1)
	require.Equal(t, f.d, cands[0].Sink)
	require.InDelta(t, 0.65, cands[0].Slack, 1e-9)
}

func TestTraceWorst_ReturnsReconstructedPaths(t *testing.T) {
	f := newSingleFlopFixture(t)
	a := analyzer.SetupTimingAnalyzer(f.g, f.c, f.dc)
	require.NoError(t, a.UpdateTiming())

	paths, err := pathtrace.TraceWorst(a, pathtrace.SetupSide, 5)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	require.Equal(t, f.d, paths[0].Sink)
}

func TestTrace_HoldSide(t *testing.T) {
	f := newSingleFlopFixture(t)
	a := analyzer.HoldTimingAnalyzer(f.g, f.c, f.dc)
	require.NoError(t, a.UpdateTiming())

	path, err := pathtrace.Trace(a, f.d, f.clk, f.clk, pathtrace.HoldSide)
	require.NoError(t, err)
	require.InDelta(t, 0.1, path.DataArrival, 1e-9)
	require.InDelta(t, 0.02, path.DataRequired, 1e-9)
	require.InDelta(t, 0.08, path.Slack, 1e-9)
}
