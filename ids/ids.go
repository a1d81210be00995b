// Package ids defines the dense, strongly-typed identifiers shared across
// the timing-analysis packages (tgraph, tconstraints, tags, analyzer, ...).
//
// Every identifier is a distinct Go type wrapping a small integer so that,
// for example, a NodeID can never be passed where an EdgeID is expected;
// the compiler rejects it. DomainID is deliberately narrower than
// NodeID/EdgeID (int16 vs int32) since clock-domain counts are small and
// TimingTag packs a domain pair into every record (see package tags).
package ids

import "fmt"

// NodeID identifies a node in a TimingGraph. Dense and zero-based once the
// graph is built, so the zero value is node 0; InvalidNode marks "no node".
type NodeID int32

// EdgeID identifies an edge in a TimingGraph. Dense and zero-based.
type EdgeID int32

// DomainID identifies a clock domain. Narrower than NodeID/EdgeID because
// real designs rarely exceed a few hundred domains.
type DomainID int16

// Level identifies a levelization layer produced by TimingGraph.Levelize.
type Level int32

// InvalidNode, InvalidEdge, InvalidDomain, InvalidLevel are the sentinel
// "no such id" values, always negative so they can never alias a dense,
// zero-based id assigned by a catalog.
const (
	InvalidNode  NodeID  = -1
	InvalidEdge  EdgeID  = -1
	InvalidDomain DomainID = -1
	InvalidLevel Level  = -1
)

// IsValid reports whether n was assigned by a catalog (n >= 0).
func (n NodeID) IsValid() bool { return n >= 0 }

// IsValid reports whether e was assigned by a catalog (e >= 0).
func (e EdgeID) IsValid() bool { return e >= 0 }

// IsValid reports whether d was assigned by a catalog (d >= 0).
func (d DomainID) IsValid() bool { return d >= 0 }

// IsValid reports whether l was assigned during levelization (l >= 0).
func (l Level) IsValid() bool { return l >= 0 }

func (n NodeID) String() string {
	if !n.IsValid() {
		return "Node(invalid)"
	}
	return fmt.Sprintf("Node(%d)", int32(n))
}

func (e EdgeID) String() string {
	if !e.IsValid() {
		return "Edge(invalid)"
	}
	return fmt.Sprintf("Edge(%d)", int32(e))
}

func (d DomainID) String() string {
	if !d.IsValid() {
		return "Domain(invalid)"
	}
	return fmt.Sprintf("Domain(%d)", int16(d))
}
