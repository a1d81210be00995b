// SPDX-License-Identifier: MIT
//
// Package tgraph implements TimingGraph: a typed, levelizable DAG of pins
// and edges over which the analysis packages (analysis, walker, analyzer)
// propagate timing tags.
//
// A Graph is built incrementally via AddNode/AddEdge, then Levelize'd and
// Validate'd before use. Levelize assigns every node an integer Level such
// that level(src) < level(sink) for every enabled edge; nodes sharing a
// level are mutually independent and may be visited concurrently by
// walker.Parallel.
package tgraph

import (
	"errors"
	"sync"

	"github.com/katalvlaran/tatumgo/ids"
)

// NodeType classifies a Node's role in the timing graph.
type NodeType uint8

const (
	// Source is the origin of a data or clock signal (primary input, flop Q).
	Source NodeType = iota
	// Sink is a terminus where a timing check applies (primary output, flop D).
	Sink
	// IPin is an intermediate data input pin.
	IPin
	// OPin is an intermediate data output pin.
	OPin
	// CPin is a clock-network input pin at a sequential element.
	CPin
)

func (t NodeType) String() string {
	switch t {
	case Source:
		return "SOURCE"
	case Sink:
		return "SINK"
	case IPin:
		return "IPIN"
	case OPin:
		return "OPIN"
	case CPin:
		return "CPIN"
	default:
		return "UNKNOWN_NODE_TYPE"
	}
}

// EdgeType classifies the kind of connection an Edge represents.
type EdgeType uint8

const (
	// PrimitiveCombinational is a combinational edge inside a cell.
	PrimitiveCombinational EdgeType = iota
	// PrimitiveClockLaunch is a CPIN -> SOURCE edge inside a flop.
	PrimitiveClockLaunch
	// PrimitiveClockCapture is a CPIN -> SINK edge inside a flop.
	PrimitiveClockCapture
	// Interconnect is an edge between cells.
	Interconnect
)

func (t EdgeType) String() string {
	switch t {
	case PrimitiveCombinational:
		return "PRIMITIVE_COMBINATIONAL"
	case PrimitiveClockLaunch:
		return "PRIMITIVE_CLOCK_LAUNCH"
	case PrimitiveClockCapture:
		return "PRIMITIVE_CLOCK_CAPTURE"
	case Interconnect:
		return "INTERCONNECT"
	default:
		return "UNKNOWN_EDGE_TYPE"
	}
}

// node is the internal representation; accessed only under Graph.mu.
type node struct {
	typ  NodeType
	in  []ids.EdgeID
	out  []ids.EdgeID
	level ids.Level
}

// edge is the internal representation; accessed only under Graph.mu.
type edge struct {
	typ   EdgeType
	src   ids.NodeID
	sink   ids.NodeID
	disabled bool
}

// Graph is the in-memory timing graph. Zero value is not usable; build one
// with New. Mutation (AddNode/AddEdge/DisableEdge) and levelization
// (Levelize) are protected by mu so a Graph may be shared across
// goroutines during construction; once Levelize has run, callers are
// expected to treat the Graph as immutable for the duration of a timing
// update. Every read accessor still takes mu's read lock on each call.
type Graph struct {
	mu sync.RWMutex

	nodes []node
	edges []edge

	levels  [][]ids.NodeID // levels[l] = nodes at level l, forward order
	levelized bool

	// loopBreak, when true, instructs Levelize to disable one feedback
	// edge per combinational loop instead of returning a CycleError.
	loopBreak bool
}

// GraphOption configures a Graph at construction time.
type GraphOption func(*Graph)

// WithLoopBreaking enables the loop-break policy: Levelize disables one
// deterministically-selected feedback edge per combinational loop instead
// of failing with a CycleError.
func WithLoopBreaking() GraphOption {
	return func(g *Graph) { g.loopBreak = true }
}

// New returns an empty Graph ready for AddNode/AddEdge.
func New(opts ...GraphOption) *Graph {
	g := &Graph{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Sentinel structural errors.
var (
	ErrUnknownNode = errors.New("tgraph: unknown node id")
	ErrUnknownEdge = errors.New("tgraph: unknown edge id")
	ErrAlreadyLevel = errors.New("tgraph: graph already levelized")
)

// StructuralError reports a validation failure found by Validate.
type StructuralError struct {
	Msg string
}

func (e *StructuralError) Error() string { return "tgraph: structural error: " + e.Msg }

// CycleError reports combinational loops found by Levelize when loop
// breaking is disabled. Edges lists, per loop, the smallest-id edge that
// would have been disabled had WithLoopBreaking been set.
type CycleError struct {
	Loops [][]ids.NodeID
	Edges []ids.EdgeID
}

func (e *CycleError) Error() string {
	return "tgraph: combinational loop(s) detected"
}
