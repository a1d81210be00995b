// SPDX-License-Identifier: MIT
//
// Package analysis implements the per-node traversal logic shared by
// setup and hold timing analysis: tag initialization,
// propagation along enabled edges, merging, and slack derivation.
//
// The three variants (SetupOps, HoldOps, SetupHoldOps) all implement Ops;
// walker.Serial[O] and walker.Parallel[O] are generic over O so a
// concrete Ops type is monomorphized into the walker rather than called
// through an interface on the hot path.
package analysis

import (
	"github.com/katalvlaran/tatumgo/delaycalc"
	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/tags"
	"github.com/katalvlaran/tatumgo/tconstraints"
	"github.com/katalvlaran/tatumgo/tgraph"
)

// Context bundles everything a traversal stage needs to process one node:
// the immutable graph/constraints/delay calculator, the per-node and
// per-edge tag storage the walker owns, and the warnings accumulator.
// A Context is shared read-mostly across goroutines during a parallel
// level; NodeTags[n]/EdgeSlacks[e] are the only fields a given call
// mutates, and the walker's level barrier guarantees no two goroutines
// touch the same node/edge concurrently.
type Context struct {
	Graph    *tgraph.Graph
	Constraints *tconstraints.Constraints
	Delay    delaycalc.DelayCalculator

	NodeTags  []*tags.Tags // len == Graph.NumNodes()
	EdgeSlacks []*tags.Tags // len == Graph.NumEdges(), Slack-type tags only

	Warnings *Warnings
}

// NewContext allocates a Context with freshly-created per-node and
// per-edge tag storage sized for g.
func NewContext(g *tgraph.Graph, c *tconstraints.Constraints, dc delaycalc.DelayCalculator) *Context {
	nodeTags := make([]*tags.Tags, g.NumNodes())
	for i := range nodeTags {
		nodeTags[i] = tags.New()
	}
	edgeSlacks := make([]*tags.Tags, g.NumEdges())
	for i := range edgeSlacks {
		edgeSlacks[i] = tags.New()
	}
	return &Context{
		Graph:    g,
		Constraints: c,
		Delay:    dc,
		NodeTags:  nodeTags,
		EdgeSlacks: edgeSlacks,
		Warnings:  NewWarnings(),
	}
}

// Clear empties every node and edge tag container, leaving Graph,
// Constraints, Delay, and Warnings untouched. Callers use this to leave a
// well-defined, empty state behind after a traversal fails partway through,
// rather than exposing whichever tags a partial update happened to write.
func (ctx *Context) Clear() {
	for _, nt := range ctx.NodeTags {
		nt.Clear()
	}
	for _, et := range ctx.EdgeSlacks {
		et.Clear()
	}
}

// Ops is the per-node traversal contract specialized by SetupOps, HoldOps,
// and SetupHoldOps.
type Ops interface {
	// ResetNode clears every tag type this Ops owns at n.
	ResetNode(ctx *Context, n ids.NodeID)
	// ArrivalPreTraverse seeds clock-launch/data-arrival tags at sources,
	// primary inputs, and constant generators.
	ArrivalPreTraverse(ctx *Context, n ids.NodeID)
	// RequiredPreTraverse seeds data-required tags at primary outputs and
	// SINK nodes from capture-domain clock arrivals.
	RequiredPreTraverse(ctx *Context, n ids.NodeID)
	// ArrivalTraverse propagates arrival-side tags from n's enabled
	// fan-in edges. Returns a *MissingDelayError if the delay calculator
	// returns NaN for a live edge.
	ArrivalTraverse(ctx *Context, n ids.NodeID) error
	// RequiredTraverse propagates required-side tags from n's enabled
	// fan-out edges.
	RequiredTraverse(ctx *Context, n ids.NodeID) error
	// SlackTraverse derives node and edge slacks at n from matching
	// arrival/required tag pairs.
	SlackTraverse(ctx *Context, n ids.NodeID)
}

// MissingDelayError reports that the delay calculator returned NaN for a
// live (enabled) edge during traversal.
type MissingDelayError struct {
	Edge ids.EdgeID
}

func (e *MissingDelayError) Error() string {
	return "analysis: delay calculator returned NaN for live edge " + e.Edge.String()
}
