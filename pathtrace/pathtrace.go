// SPDX-License-Identifier: MIT
//
// Package pathtrace reconstructs worst-path reports from an Analyzer's
// stored tags: given a sink node and a (launch, capture)
// domain pair it walks Tag.Origin links backward through data-arrival
// tags to the launch source, then backward through clock-launch tags
// twice more (once from the launching CPIN, once from the capturing
// CPIN) to recover the clock-network sub-paths either side of the data
// path. It never mutates the Analyzer; formatting the result into a
// human-readable report is left to a caller outside the core.
package pathtrace

import (
	"errors"
	"sort"

	"github.com/katalvlaran/tatumgo/analyzer"
	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/tags"
	"github.com/katalvlaran/tatumgo/tgraph"
)

// Side selects which half of a SetupHold Analyzer's shared Context to
// trace. It has no effect on a Setup- or Hold-only Analyzer: both of
// those keep their single direction under the base tags.Type values, so
// Trace always reads those regardless of Side.
type Side uint8

const (
	// SetupSide traces the setup (max/long-path) tag space.
	SetupSide Side = iota
	// HoldSide traces the hold (min/short-path) tag space.
	HoldSide
)

// ErrNoPath is returned when the requested (sink, launch, capture) key has
// no DATA_ARRIVAL/DATA_REQUIRED tag pair to trace from.
var ErrNoPath = errors.New("pathtrace: no arrival/required tag for requested sink and domain pair")

// Element is one (node, incoming-edge, tag-time) step of a reconstructed
// sub-path, in forward (source-to-sink) order. Edge is ids.InvalidEdge for
// a sub-path's first element, which has no predecessor within it.
type Element struct {
	Node ids.NodeID
	Edge ids.EdgeID
	Time float64
}

// TimingPath is one reconstructed worst path through a (launch, capture)
// domain transfer, split into three sub-paths: the
// clock network from the launch domain's source to the launching CPIN,
// the data path from the launch point to the sink, and the clock network
// from the capture domain's source to the sink's capturing CPIN.
type TimingPath struct {
	Sink  ids.NodeID
	Launch ids.DomainID
	Capture ids.DomainID

	DataArrival float64
	DataRequired float64
	Slack    float64

	LaunchClock []Element
	Data     []Element
	CaptureClock []Element
}

// resolved holds the concrete tags.Type values Trace reads for a given
// (Analyzer.Kind, Side) combination: every standalone Setup/HoldOps
// Analyzer uses the base Type space, and only SetupHoldOps's hold half
// uses the Hold* Type space (see analysis/common.go's holdCombinedDirection).
type resolved struct {
	launch, capture, arrival, required, slack tags.Type
}

func resolve(kind analyzer.Kind, side Side) resolved {
	if kind == analyzer.SetupHold && side == HoldSide {
		return resolved{tags.HoldClockLaunch, tags.HoldClockCapture, tags.HoldDataArrival, tags.HoldDataRequired, tags.HoldSlack}
	}
	return resolved{tags.ClockLaunch, tags.ClockCapture, tags.DataArrival, tags.DataRequired, tags.Slack}
}

// Trace reconstructs the single worst path ending at sink for the
// (launch, capture) domain transfer. It returns
// ErrNoPath if sink carries no DATA_ARRIVAL/DATA_REQUIRED tag for that
// key (e.g. should_analyze is false, or sink was never reached).
func Trace(a *analyzer.Analyzer, sink ids.NodeID, launch, capture ids.DomainID, side Side) (TimingPath, error) {
	r := resolve(a.Kind(), side)
	g := a.Graph()

	arr, ok := a.TagByKey(sink, r.arrival, launch, capture)
	if !ok {
		return TimingPath{}, ErrNoPath
	}
	req, ok := a.TagByKey(sink, r.required, launch, capture)
	if !ok {
		return TimingPath{}, ErrNoPath
	}

	path := TimingPath{Sink: sink, Launch: launch, Capture: capture, DataArrival: arr.Time, DataRequired: req.Time}
	if slack, ok := a.TagByKey(sink, r.slack, launch, capture); ok {
		path.Slack = slack.Time
	}

	dataRev, launchCPIN := walkArrivalChain(a, g, r, sink, launch, capture)
	path.Data = reverseElements(dataRev)

	if launchCPIN.IsValid() {
		launchRev, _ := walkClockChain(a, g, r, launchCPIN, launch, capture)
		path.LaunchClock = reverseElements(launchRev)
	}

	if capCPIN, ok := capturingAncestor(g, sink); ok {
		captureRev, _ := walkClockChain(a, g, r, capCPIN, launch, capture)
		path.CaptureClock = reverseElements(captureRev)
	}

	return path, nil
}

// walkArrivalChain follows r.arrival's Origin links backward from sink to
// the data path's launch point, in backward (sink-to-source) order.
// It also returns the CPIN that fed the launch point via a
// PRIMITIVE_CLOCK_LAUNCH edge, if the path originates at a flop output
// rather than a primary input.
func walkArrivalChain(a *analyzer.Analyzer, g *tgraph.Graph, r resolved, sink ids.NodeID, launch, capture ids.DomainID) ([]Element, ids.NodeID) {
	var out []Element
	cur := sink
	for {
		tag, ok := a.TagByKey(cur, r.arrival, launch, capture)
		if !ok {
			break
		}
		out = append(out, Element{Node: cur, Edge: ids.InvalidEdge, Time: tag.Time})
		if !tag.Origin.IsValid() || tag.Origin == cur {
			// Self-seeded: cur is a primary input or constant-generator
			// source, the true start of the data path.
			break
		}
		next := tag.Origin
		if _, hasArrival := a.TagByKey(next, r.arrival, launch, capture); !hasArrival {
			// next carries no DATA_ARRIVAL tag of its own: it converted a
			// CLOCK_LAUNCH tag into cur's DATA_ARRIVAL tag (the
			// CPIN -> SOURCE case). The data sub-path starts at cur, its
			// incoming clock-launch edge stays out of the data sub-path,
			// and the launch clock sub-path picks up from next.
			return out, next
		}
		if e, found := g.FindEdge(next, cur); found {
			out[len(out)-1].Edge = e
		}
		cur = next
	}
	return out, ids.InvalidNode
}

// walkClockChain follows r.launch's Origin links backward from start
// (a CPIN) to the domain's clock source, in backward order.
func walkClockChain(a *analyzer.Analyzer, g *tgraph.Graph, r resolved, start ids.NodeID, launch, capture ids.DomainID) ([]Element, bool) {
	var out []Element
	cur := start
	for {
		tag, ok := a.TagByKey(cur, r.launch, launch, capture)
		if !ok {
			return out, len(out) > 0
		}
		out = append(out, Element{Node: cur, Edge: ids.InvalidEdge, Time: tag.Time})
		if !tag.Origin.IsValid() || tag.Origin == cur {
			return out, true
		}
		if e, found := g.FindEdge(tag.Origin, cur); found {
			out[len(out)-1].Edge = e
		}
		cur = tag.Origin
	}
}

// capturingAncestor returns the CPIN feeding sink's enabled
// PRIMITIVE_CLOCK_CAPTURE in-edge, if any.
func capturingAncestor(g *tgraph.Graph, sink ids.NodeID) (ids.NodeID, bool) {
	for _, e := range g.NodeInEdges(sink) {
		if g.EdgeDisabled(e) {
			continue
		}
		if g.EdgeType(e) == tgraph.PrimitiveClockCapture {
			return g.EdgeSrcNode(e), true
		}
	}
	return ids.InvalidNode, false
}

// reverseElements returns a's elements in forward (source-to-sink) order.
// The backward walks record each element's incoming edge as they retreat,
// so a plain reversal already yields (node, incoming-edge) pairs in
// forward order with no per-element fixup.
func reverseElements(a []Element) []Element {
	out := make([]Element, len(a))
	for i, e := range a {
		out[len(a)-1-i] = e
	}
	return out
}

// Candidate is one (sink, launch, capture) key eligible for worst-path
// ranking: every sink carrying both a matching DATA_ARRIVAL and a
// DATA_REQUIRED tag.
type Candidate struct {
	Sink  ids.NodeID
	Launch ids.DomainID
	Capture ids.DomainID
	Slack  float64
}

// WorstCandidates scans every SINK node for (launch, capture) keys with a
// stored slack tag and returns the npaths most-negative (worst) entries,
// sorted ascending by slack. npaths <= 0 returns every candidate.
func WorstCandidates(a *analyzer.Analyzer, side Side, npaths int) []Candidate {
	r := resolve(a.Kind(), side)
	g := a.Graph()

	var cands []Candidate
	for _, n := range g.Nodes() {
		if g.NodeType(n) != tgraph.Sink {
			continue
		}
		for _, tag := range a.TagsOfType(n, r.slack) {
			cands = append(cands, Candidate{Sink: n, Launch: tag.Launch, Capture: tag.Capture, Slack: tag.Time})
		}
	}

	sort.Slice(cands, func(i, j int) bool { return cands[i].Slack < cands[j].Slack })
	if npaths > 0 && len(cands) > npaths {
		cands = cands[:npaths]
	}
	return cands
}

// TraceWorst is WorstCandidates followed by Trace on each candidate: the
// npaths worst setup (or hold) paths across every analyzed sink and
// domain transfer, sorted worst-first.
func TraceWorst(a *analyzer.Analyzer, side Side, npaths int) ([]TimingPath, error) {
	cands := WorstCandidates(a, side, npaths)
	out := make([]TimingPath, 0, len(cands))
	for _, c := range cands {
		p, err := Trace(a, c.Sink, c.Launch, c.Capture, side)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
