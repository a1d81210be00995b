package echo_test

import (
	"bytes"
	"testing"

	"github.com/katalvlaran/tatumgo/analyzer"
	"github.com/katalvlaran/tatumgo/delaycalc"
	"github.com/katalvlaran/tatumgo/echo"
	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/tconstraints"
	"github.com/katalvlaran/tatumgo/tgraph"
	"github.com/stretchr/testify/require"
)

// buildFixture mirrors pathtrace's singleFlopFixture: one ideal clock
// network launching and capturing a single combinational transfer.
func buildFixture(t *testing.T) (*tgraph.Graph, *tconstraints.Constraints, *delaycalc.ConstantDelayCalculator, ids.NodeID, ids.EdgeID, ids.EdgeID) {
	t.Helper()
	g := tgraph.New()
	clksrc := g.AddNode(tgraph.Source)
	cpinQ := g.AddNode(tgraph.CPin)
	cpinD := g.AddNode(tgraph.CPin)
	q := g.AddNode(tgraph.Source)
	d := g.AddNode(tgraph.Sink)

	_, err := g.AddEdge(tgraph.Interconnect, clksrc, cpinQ)
	require.NoError(t, err)
	_, err = g.AddEdge(tgraph.Interconnect, clksrc, cpinD)
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
	c.SetInputConstraint(q, clk, tconstraints.Max, 0.2)

	return g, c, dc, d, eQD, eCapture
}

func TestWriteRead_RoundTripsGraphAndConstraints(t *testing.T) {
	g, c, dc, d, eQD, eCapture := buildFixture(t)
	a := analyzer.SetupTimingAnalyzer(g, c, dc)
	require.NoError(t, a.UpdateTiming())

	var buf bytes.Buffer
	require.NoError(t, echo.Write(&buf, a))

	doc, err := echo.Read(&buf)
	require.NoError(t, err)

	require.Equal(t, g.NumNodes(), doc.Graph.NumNodes())
	require.Equal(t, g.NumEdges(), doc.Graph.NumEdges())
	for _, n := range g.Nodes() {
		require.Equal(t, g.NodeType(n), doc.Graph.NodeType(n))
	}
	for _, e := range g.Edges() {
		require.Equal(t, g.EdgeType(e), doc.Graph.EdgeType(e))
		require.Equal(t, g.EdgeSrcNode(e), doc.Graph.EdgeSrcNode(e))
		require.Equal(t, g.EdgeSinkNode(e), doc.Graph.EdgeSinkNode(e))
		require.Equal(t, g.EdgeDisabled(e), doc.Graph.EdgeDisabled(e))
	}

	domains := doc.Constraints.Domains()
	require.Len(t, domains, 1)
	require.Equal(t, "clk", domains[0].Name)
	clk := domains[0].ID

	sc := doc.Constraints.SetupConstraint(clk, clk)
	require.True(t, sc.Ok)
	require.InDelta(t, 1.0, sc.Value, 1e-9)

	hc := doc.Constraints.HoldConstraint(clk, clk)
	require.True(t, hc.Ok)
	require.InDelta(t, 0.0, hc.Value, 1e-9)

	ic := doc.Constraints.InputConstraint(ids.NodeID(3), clk, tconstraints.Max)
	require.True(t, ic.Ok)
	require.InDelta(t, 0.2, ic.Value, 1e-9)

	qd, ok := doc.DelayModel[eQD]
	require.True(t, ok)
	require.InDelta(t, 0.1, qd.MinDelay, 1e-9)
	require.InDelta(t, 0.3, qd.MaxDelay, 1e-9)

	cap, ok := doc.DelayModel[eCapture]
	require.True(t, ok)
	require.InDelta(t, 0.05, cap.SetupTime, 1e-9)
	require.InDelta(t, 0.02, cap.HoldTime, 1e-9)

	// q's 0.2 input constraint dominates its zero-latency clock-launched
	// arrival, so the sink sees 0.2+0.3 = 0.5 against a 0.95 required.
	found := false
	for _, r := range doc.Results {
		if r.TypeName == "SETUP_SLACK" && r.Node == d {
			require.InDelta(t, 0.45, r.Value, 1e-9)
			found = true
		}
	}
	require.True(t, found, "expected a SETUP_SLACK result record at the sink node")
}

func TestWriteRead_HoldAnalyzerUsesBaseTypeNames(t *testing.T) {
	g, c, dc, d, _, _ := buildFixture(t)
	a := analyzer.HoldTimingAnalyzer(g, c, dc)
	require.NoError(t, a.UpdateTiming())

	var buf bytes.Buffer
	require.NoError(t, echo.Write(&buf, a))

	doc, err := echo.Read(&buf)
	require.NoError(t, err)

	found := false
	for _, r := range doc.Results {
		if r.TypeName == "HOLD_SLACK" && r.Node == d {
			require.InDelta(t, 0.08, r.Value, 1e-9)
			found = true
		}
	}
	require.True(t, found, "expected a HOLD_SLACK result record at the sink node")
}

func TestWriteRead_SetupHoldAnalyzerEmitsBothKinds(t *testing.T) {
	g, c, dc, d, _, _ := buildFixture(t)
	a := analyzer.SetupHoldTimingAnalyzer(g, c, dc)
	require.NoError(t, a.UpdateTiming())

	var buf bytes.Buffer
	require.NoError(t, echo.Write(&buf, a))

	doc, err := echo.Read(&buf)
	require.NoError(t, err)

	var sawSetup, sawHold bool
	for _, r := range doc.Results {
		if r.Node != d {
			continue
		}
		switch r.TypeName {
		case "SETUP_SLACK":
			sawSetup = true
		case "HOLD_SLACK":
			sawHold = true
		}
	}
	require.True(t, sawSetup)
	require.True(t, sawHold)
}
