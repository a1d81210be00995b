// SPDX-License-Identifier: MIT
//
// Package walker drives analysis.Ops over a tgraph.Graph level by level:
// Serial runs every stage on the calling goroutine, Parallel fans each
// level out across a worker pool with a barrier between levels (nodes at
// the same level never read each other's output, so no locking is needed
// within a level).
//
// Both walkers are generic over a concrete analysis.Ops implementation
// (SetupOps, HoldOps, SetupHoldOps) rather than calling through the Ops
// interface value on every node: instantiating Serial[*analysis.SetupOps]
// lets the compiler devirtualize ops.ArrivalTraverse et al. into direct
// calls, the monomorphization Go generics offer in place of C++ template
// instantiation.
package walker

import (
	"time"

	"github.com/katalvlaran/tatumgo/analysis"
	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/tgraph"
)

// Walker is the non-generic façade analyzer.Analyzer holds: UpdateTiming
// runs a full timing update, UpdateTimingIncremental re-processes only the
// nodes whose tags could have changed since the last full update.
type Walker interface {
	UpdateTiming(ctx *analysis.Context) error
	UpdateTimingIncremental(ctx *analysis.Context, dirty []ids.NodeID) error
}

// Traversal records the wall-clock time the most recent update spent in
// each stage, plus how many levels it walked. Stage times of an update
// that failed partway through cover only the stages that ran.
type Traversal struct {
	Reset       time.Duration
	ArrivalPre  time.Duration
	Arrival     time.Duration
	RequiredPre time.Duration
	Required    time.Duration
	Slack       time.Duration
	LevelsRun   int
}

// capLevels truncates the level list after stopAfter, the stop-after-level
// hook both walkers expose for loop-break diagnostics: a partial forward
// walk shows how far tags propagate before the break point. An invalid
// stopAfter (the default) leaves the list untouched.
func capLevels(levels [][]ids.NodeID, stopAfter ids.Level) [][]ids.NodeID {
	if stopAfter.IsValid() && int(stopAfter)+1 < len(levels) {
		return levels[:int(stopAfter)+1]
	}
	return levels
}

// Serial implements Walker by visiting every node of every level on the
// calling goroutine, in level order forward for the arrival stages and
// reverse level order for the required stage.
type Serial[O analysis.Ops] struct {
	graph     *tgraph.Graph
	ops       O
	stopAfter ids.Level
	stats     Traversal
}

// NewSerial returns a Serial walker over g using ops.
func NewSerial[O analysis.Ops](g *tgraph.Graph, ops O) *Serial[O] {
	return &Serial[O]{graph: g, ops: ops, stopAfter: ids.InvalidLevel}
}

// SetStopAfterLevel caps every subsequent update at level l inclusive.
// Pass ids.InvalidLevel to restore running to completion.
func (s *Serial[O]) SetStopAfterLevel(l ids.Level) { s.stopAfter = l }

// LastTraversal returns the per-stage timing of the most recent update.
func (s *Serial[O]) LastTraversal() Traversal { return s.stats }

// UpdateTiming runs a full timing update: reset, seed+propagate arrival,
// seed+propagate required, derive slack.
func (s *Serial[O]) UpdateTiming(ctx *analysis.Context) error {
	return s.updateLevels(ctx, s.graph.Levels())
}

// UpdateTimingIncremental re-runs the full six-stage pipeline but restricted
// to dirty's forward-reachable set and that set's ancestors: nodes outside
// this set cannot have a changed arrival or required time, so their stored
// tags are left as-is.
func (s *Serial[O]) UpdateTimingIncremental(ctx *analysis.Context, dirty []ids.NodeID) error {
	affected := dirtyClosure(s.graph, dirty)
	return s.updateLevels(ctx, restrictLevels(s.graph.Levels(), affected))
}

func (s *Serial[O]) updateLevels(ctx *analysis.Context, levels [][]ids.NodeID) error {
	levels = capLevels(levels, s.stopAfter)
	s.stats = Traversal{LevelsRun: len(levels)}

	start := time.Now()
	for _, level := range levels {
		for _, n := range level {
			s.ops.ResetNode(ctx, n)
		}
	}
	s.stats.Reset = time.Since(start)

	start = time.Now()
	for _, level := range levels {
		for _, n := range level {
			s.ops.ArrivalPreTraverse(ctx, n)
		}
	}
	s.stats.ArrivalPre = time.Since(start)

	start = time.Now()
	for _, level := range levels {
		for _, n := range level {
			if err := s.ops.ArrivalTraverse(ctx, n); err != nil {
				return err
			}
		}
	}
	s.stats.Arrival = time.Since(start)

	start = time.Now()
	for _, level := range levels {
		for _, n := range level {
			s.ops.RequiredPreTraverse(ctx, n)
		}
	}
	s.stats.RequiredPre = time.Since(start)

	start = time.Now()
	for i := len(levels) - 1; i >= 0; i-- {
		for _, n := range levels[i] {
			if err := s.ops.RequiredTraverse(ctx, n); err != nil {
				return err
			}
		}
	}
	s.stats.Required = time.Since(start)

	start = time.Now()
	for _, level := range levels {
		for _, n := range level {
			s.ops.SlackTraverse(ctx, n)
		}
	}
	s.stats.Slack = time.Since(start)
	return nil
}

// dirtyClosure returns seeds plus every node forward-reachable from seeds
// (whose arrival may have changed) plus every ancestor of that forward set
// (whose required may have changed, since required at a node is a function
// of required at its successors).
func dirtyClosure(g *tgraph.Graph, seeds []ids.NodeID) map[ids.NodeID]bool {
	forward := bfs(g, seeds, func(n ids.NodeID) []ids.NodeID {
		out := make([]ids.NodeID, 0, 4)
		for _, e := range g.NodeOutEdges(n) {
			if !g.EdgeDisabled(e) {
				out = append(out, g.EdgeSinkNode(e))
			}
		}
		return out
	})

	forwardSeeds := make([]ids.NodeID, 0, len(forward))
	for n := range forward {
		forwardSeeds = append(forwardSeeds, n)
	}
	backward := bfs(g, forwardSeeds, func(n ids.NodeID) []ids.NodeID {
		out := make([]ids.NodeID, 0, 4)
		for _, e := range g.NodeInEdges(n) {
			if !g.EdgeDisabled(e) {
				out = append(out, g.EdgeSrcNode(e))
			}
		}
		return out
	})

	for n := range forward {
		backward[n] = true
	}
	return backward
}

func bfs(g *tgraph.Graph, seeds []ids.NodeID, neighbors func(ids.NodeID) []ids.NodeID) map[ids.NodeID]bool {
	visited := make(map[ids.NodeID]bool, len(seeds))
	queue := append([]ids.NodeID(nil), seeds...)
	for _, n := range seeds {
		visited[n] = true
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, w := range neighbors(n) {
			if !visited[w] {
				visited[w] = true
				queue = append(queue, w)
			}
		}
	}
	_ = g
	return visited
}

// restrictLevels filters the graph's level partition down to nodes present
// in affected, preserving level order.
func restrictLevels(levels [][]ids.NodeID, affected map[ids.NodeID]bool) [][]ids.NodeID {
	out := make([][]ids.NodeID, 0, len(levels))
	for _, level := range levels {
		var kept []ids.NodeID
		for _, n := range level {
			if affected[n] {
				kept = append(kept, n)
			}
		}
		if len(kept) > 0 {
			out = append(out, kept)
		}
	}
	return out
}
