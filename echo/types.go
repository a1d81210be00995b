package echo

import (
	"math"

	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/tconstraints"
	"github.com/katalvlaran/tatumgo/tgraph"
)

// EdgeDelay is one delay_model record: the four values a DelayCalculator
// can report for an edge. Which pair is meaningful depends on the edge:
// MinDelay/MaxDelay for ordinary edges, SetupTime/HoldTime for a
// PRIMITIVE_CLOCK_CAPTURE edge ending at a SINK. A capture edge's record
// carries no min/max delay, so Read leaves its MinDelay/MaxDelay at 0.
type EdgeDelay struct {
	MinDelay, MaxDelay float64
	SetupTime, HoldTime float64
}

// DelayTable is a DelayCalculator (see package delaycalc) backed by a
// parsed delay_model section: Read's output can be handed directly to
// analyzer.New without an adapter. Missing entries return NaN, matching
// fatal-on-NaN policy for edges the table never saw.
type DelayTable map[ids.EdgeID]EdgeDelay

func (d DelayTable) MinEdgeDelay(_ *tgraph.Graph, e ids.EdgeID) float64 {
	if v, ok := d[e]; ok {
		return v.MinDelay
	}
	return math.NaN()
}

func (d DelayTable) MaxEdgeDelay(_ *tgraph.Graph, e ids.EdgeID) float64 {
	if v, ok := d[e]; ok {
		return v.MaxDelay
	}
	return math.NaN()
}

func (d DelayTable) SetupTime(_ *tgraph.Graph, e ids.EdgeID) float64 {
	if v, ok := d[e]; ok {
		return v.SetupTime
	}
	return math.NaN()
}

func (d DelayTable) HoldTime(_ *tgraph.Graph, e ids.EdgeID) float64 {
	if v, ok := d[e]; ok {
		return v.HoldTime
	}
	return math.NaN()
}

// ResultRecord is one analysis_result line: TypeName is the literal
// SETUP_*/HOLD_* name as written. Exactly one of Node or Edge is
// valid (Node for everything but edge-level slacks).
type ResultRecord struct {
	TypeName    string
	Node      ids.NodeID
	Edge      ids.EdgeID
	Launch, Capture ids.DomainID
	Value      float64
}

// Document is Read's output: the parsed graph, constraints, delay model,
// and analysis results of one echo file, ready for structural comparison
// against a freshly built analyzer.Analyzer over the same inputs.
type Document struct {
	Graph    *tgraph.Graph
	Constraints *tconstraints.Constraints
	DelayModel DelayTable
	Results   []ResultRecord
}
