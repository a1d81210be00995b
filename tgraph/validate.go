package tgraph

import "fmt"

// Validate checks the structural invariants of the graph:
//
//  - every SOURCE has zero enabled data fan-in (clock-launch edges excepted)
//  - every SINK has zero enabled fan-out
//  - every CPIN has at least one outgoing PRIMITIVE_CLOCK_LAUNCH or
//   PRIMITIVE_CLOCK_CAPTURE edge
//  - PRIMITIVE_CLOCK_LAUNCH edges originate only at CPIN and terminate
//   only at SOURCE; PRIMITIVE_CLOCK_CAPTURE edges originate only at
//   CPIN and terminate only at SINK
//
// Validate does not itself levelize; call Levelize first if loop-free
// traversal order is also required.
//
// Complexity: O(V + E).
func (g *Graph) Validate() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for i := range g.nodes {
		n := g.nodes[i]
		switch n.typ {
		case Source:
			for _, e := range n.in {
				if g.edges[e].disabled {
					continue
				}
				if g.edges[e].typ != PrimitiveClockLaunch {
					return &StructuralError{Msg: fmt.Sprintf(
						"SOURCE node %d has enabled non-clock-launch fan-in edge %d", i, e)}
				}
			}
		case Sink:
			for _, e := range n.out {
				if !g.edges[e].disabled {
					return &StructuralError{Msg: fmt.Sprintf(
						"SINK node %d has enabled fan-out edge %d", i, e)}
				}
			}
		case CPin:
			hasClockEdge := false
			for _, e := range n.out {
				t := g.edges[e].typ
				if t == PrimitiveClockLaunch || t == PrimitiveClockCapture {
					hasClockEdge = true
					break
				}
			}
			if !hasClockEdge {
				return &StructuralError{Msg: fmt.Sprintf(
					"CPIN node %d has no outgoing clock-launch/capture edge", i)}
			}
		}
	}

	for i := range g.edges {
		e := g.edges[i]
		switch e.typ {
		case PrimitiveClockLaunch:
			if g.nodes[e.src].typ != CPin {
				return &StructuralError{Msg: fmt.Sprintf(
					"edge %d is PRIMITIVE_CLOCK_LAUNCH but src node %d is not CPIN", i, e.src)}
			}
			if g.nodes[e.sink].typ != Source {
				return &StructuralError{Msg: fmt.Sprintf(
					"edge %d is PRIMITIVE_CLOCK_LAUNCH but sink node %d is not SOURCE", i, e.sink)}
			}
		case PrimitiveClockCapture:
			if g.nodes[e.src].typ != CPin {
				return &StructuralError{Msg: fmt.Sprintf(
					"edge %d is PRIMITIVE_CLOCK_CAPTURE but src node %d is not CPIN", i, e.src)}
			}
			if g.nodes[e.sink].typ != Sink {
				return &StructuralError{Msg: fmt.Sprintf(
					"edge %d is PRIMITIVE_CLOCK_CAPTURE but sink node %d is not SINK", i, e.sink)}
			}
		}
	}

	return nil
}
