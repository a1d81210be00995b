// Package delaycalc declares the DelayCalculator contract the core
// consumes to get edge delays and setup/hold check times.
//
// The core never mutates a DelayCalculator and never calls it concurrently
// on the same edge; implementations must be pure and safe for concurrent
// invocation on distinct edges, since walker.Parallel may call all four
// methods from multiple goroutines within a single level.
package delaycalc

import (
	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/tgraph"
)

// DelayCalculator supplies edge delays and sequential check times. All
// four methods must be pure (no observable side effects) and safe under
// concurrent invocation on distinct edges.
type DelayCalculator interface {
	// MinEdgeDelay returns the min-corner (early/hold) delay of edge.
	MinEdgeDelay(g *tgraph.Graph, edge ids.EdgeID) float64
	// MaxEdgeDelay returns the max-corner (late/setup) delay of edge.
	MaxEdgeDelay(g *tgraph.Graph, edge ids.EdgeID) float64
	// SetupTime returns the setup time that applies when edge is a
	// PRIMITIVE_CLOCK_CAPTURE edge ending at a SINK.
	SetupTime(g *tgraph.Graph, edge ids.EdgeID) float64
	// HoldTime returns the hold time that applies when edge is a
	// PRIMITIVE_CLOCK_CAPTURE edge ending at a SINK.
	HoldTime(g *tgraph.Graph, edge ids.EdgeID) float64
}
