// SPDX-License-Identifier: MIT

package analyzer

import (
	"sync"

	"github.com/katalvlaran/tatumgo/analysis"
	"github.com/katalvlaran/tatumgo/delaycalc"
	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/tags"
	"github.com/katalvlaran/tatumgo/tconstraints"
	"github.com/katalvlaran/tatumgo/tgraph"
	"github.com/katalvlaran/tatumgo/walker"
)

// config holds Analyzer's construction-time tunables, resolved from
// Option in New. Since Go generics cannot parameterize over Kind at
// runtime, New switches on Kind to pick one AnalyzerFactory instantiation;
// config only selects the walker handed to that factory.
type config struct {
	parallel bool
	workers int
}

// Option customizes how New builds an Analyzer's walker.
type Option func(*config)

// WithParallel selects walker.Parallel instead of the default
// walker.Serial, with a worker pool sized by WithWorkerCount (default
// runtime.GOMAXPROCS(0)).
func WithParallel() Option {
	return func(c *config) { c.parallel = true }
}

// WithWorkerCount overrides the parallel walker's worker count. Has no
// effect unless combined with WithParallel.
func WithWorkerCount(n int) Option {
	return func(c *config) { c.workers = n }
}

// closer is implemented by walker.Parallel (and nothing else): Analyzer's
// Close forwards to it when present, releasing the worker pool.
type closer interface{ Close() }

// Analyzer is the TimingAnalyzer façade: it owns a graph,
// constraints, delay calculator, a Walker+Ops composition picked by Kind,
// and the dirty-node set invalidation accumulates between UpdateTiming
// calls. A zero Analyzer is not usable; construct one via New or the
// SetupTimingAnalyzer/HoldTimingAnalyzer/SetupHoldTimingAnalyzer helpers.
type Analyzer struct {
	mu sync.Mutex

	kind  Kind
	graph *tgraph.Graph
	walker walker.Walker
	ctx  *analysis.Context

	hasRun bool
	dirty map[ids.NodeID]struct{}
}

// New builds an Analyzer of the given Kind over g, c, and dc. Parallel
// dispatch is opt-in via WithParallel; the default is walker.Serial.
func New(kind Kind, g *tgraph.Graph, c *tconstraints.Constraints, dc delaycalc.DelayCalculator, opts ...Option) *Analyzer {
	cfg := config{}
	for _, o := range opts {
		o(&cfg)
	}

	var popts []walker.ParallelOption
	if cfg.workers > 0 {
		popts = append(popts, walker.WithWorkerCount(cfg.workers))
	}

	switch kind {
	case Hold:
		f := AnalyzerFactory[*analysis.HoldOps]{Kind: Hold, Ops: analysis.NewHoldOps(), NewWalker: SerialWalker[*analysis.HoldOps]()}
		if cfg.parallel {
			f.NewWalker = ParallelWalker[*analysis.HoldOps](popts...)
		}
		return f.Build(g, c, dc)
	case SetupHold:
		f := AnalyzerFactory[*analysis.SetupHoldOps]{Kind: SetupHold, Ops: analysis.NewSetupHoldOps(), NewWalker: SerialWalker[*analysis.SetupHoldOps]()}
		if cfg.parallel {
			f.NewWalker = ParallelWalker[*analysis.SetupHoldOps](popts...)
		}
		return f.Build(g, c, dc)
	default:
		f := AnalyzerFactory[*analysis.SetupOps]{Kind: Setup, Ops: analysis.NewSetupOps(), NewWalker: SerialWalker[*analysis.SetupOps]()}
		if cfg.parallel {
			f.NewWalker = ParallelWalker[*analysis.SetupOps](popts...)
		}
		return f.Build(g, c, dc)
	}
}

// SetupTimingAnalyzer builds an Analyzer that tracks only setup tags and
// slacks.
func SetupTimingAnalyzer(g *tgraph.Graph, c *tconstraints.Constraints, dc delaycalc.DelayCalculator, opts ...Option) *Analyzer {
	return New(Setup, g, c, dc, opts...)
}

// HoldTimingAnalyzer builds an Analyzer that tracks only hold tags and
// slacks.
func HoldTimingAnalyzer(g *tgraph.Graph, c *tconstraints.Constraints, dc delaycalc.DelayCalculator, opts ...Option) *Analyzer {
	return New(Hold, g, c, dc, opts...)
}

// SetupHoldTimingAnalyzer builds an Analyzer that tracks both setup and
// hold tags and slacks against one shared Context.
func SetupHoldTimingAnalyzer(g *tgraph.Graph, c *tconstraints.Constraints, dc delaycalc.DelayCalculator, opts ...Option) *Analyzer {
	return New(SetupHold, g, c, dc, opts...)
}

// Kind reports which analysis this Analyzer runs.
func (a *Analyzer) Kind() Kind { return a.kind }

// Graph returns the TimingGraph this Analyzer was built over, for
// read-only collaborators (pathtrace, echo) that need to walk edges
// alongside the stored tags.
func (a *Analyzer) Graph() *tgraph.Graph { return a.graph }

// Constraints returns the TimingConstraints this Analyzer was built over.
func (a *Analyzer) Constraints() *tconstraints.Constraints { return a.ctx.Constraints }

// Delay returns the DelayCalculator this Analyzer was built over.
func (a *Analyzer) Delay() delaycalc.DelayCalculator { return a.ctx.Delay }

// TagByKey returns the single tag of type typ keyed by (launch, capture)
// at node n, if present.
func (a *Analyzer) TagByKey(n ids.NodeID, typ tags.Type, launch, capture ids.DomainID) (tags.Tag, bool) {
	return a.ctx.NodeTags[n].FindOne(typ, launch, capture)
}

// EdgeSlackByKey returns the slack tag of type typ keyed by (launch,
// capture) on edge e, if present.
func (a *Analyzer) EdgeSlackByKey(e ids.EdgeID, typ tags.Type, launch, capture ids.DomainID) (float64, bool) {
	return a.ctx.EdgeSlacks[e].SlackAs(typ, launch, capture)
}

// Close releases the walker's worker pool, if it has one (walker.Serial
// has nothing to release). An Analyzer must not be used after Close.
func (a *Analyzer) Close() {
	if c, ok := a.walker.(closer); ok {
		c.Close()
	}
}

// InvalidateEdge marks e's sink node dirty: the next UpdateTiming call
// reprocesses it and everything its change can reach, computed by the
// walker's forward+ancestor closure over the dirty set.
func (a *Analyzer) InvalidateEdge(e ids.EdgeID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dirty[a.graph.EdgeSinkNode(e)] = struct{}{}
}

// InvalidateNode marks n dirty directly.
func (a *Analyzer) InvalidateNode(n ids.NodeID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dirty[n] = struct{}{}
}

// UpdateTiming runs a full update on the first call, or an incremental
// update restricted to the accumulated dirty set on every call after it.
// A call with nothing invalidated since the last run is a no-op.
func (a *Analyzer) UpdateTiming() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.hasRun {
		a.ctx.Warnings.Reset()
		if err := a.walker.UpdateTiming(a.ctx); err != nil {
			a.ctx.Clear()
			return err
		}
		a.hasRun = true
		a.dirty = make(map[ids.NodeID]struct{})
		return nil
	}

	if len(a.dirty) == 0 {
		return nil
	}
	seeds := make([]ids.NodeID, 0, len(a.dirty))
	for n := range a.dirty {
		seeds = append(seeds, n)
	}
	if err := a.walker.UpdateTimingIncremental(a.ctx, seeds); err != nil {
		a.ctx.Clear()
		return err
	}
	a.dirty = make(map[ids.NodeID]struct{})
	return nil
}

// Tags returns every tag stored at node n, of any type.
func (a *Analyzer) Tags(n ids.NodeID) []tags.Tag {
	return a.ctx.NodeTags[n].All()
}

// TagsOfType returns node n's tags of the given type.
func (a *Analyzer) TagsOfType(n ids.NodeID, typ tags.Type) []tags.Tag {
	return a.ctx.NodeTags[n].Range(typ)
}

// EdgeTagsOfType returns edge e's slack tags of the given type (always a
// Slack or HoldSlack type in practice, since edges never hold arrival or
// required tags of their own).
func (a *Analyzer) EdgeTagsOfType(e ids.EdgeID, typ tags.Type) []tags.Tag {
	return a.ctx.EdgeSlacks[e].Range(typ)
}

// Slack returns the setup (or, for a Hold-only Analyzer, hold) slack at
// node n for the (launch, capture) domain pair.
func (a *Analyzer) Slack(n ids.NodeID, launch, capture ids.DomainID) (float64, bool) {
	return a.ctx.NodeTags[n].Slack(launch, capture)
}

// HoldSlack returns the hold slack at node n for (launch, capture). Only
// populated when this Analyzer's Kind is SetupHold; a Setup- or Hold-only
// Analyzer never writes HoldSlack-type tags.
func (a *Analyzer) HoldSlack(n ids.NodeID, launch, capture ids.DomainID) (float64, bool) {
	return a.ctx.NodeTags[n].SlackAs(tags.HoldSlack, launch, capture)
}

// EdgeSlack returns the setup (or hold, for a Hold-only Analyzer) slack
// on edge e for (launch, capture).
func (a *Analyzer) EdgeSlack(e ids.EdgeID, launch, capture ids.DomainID) (float64, bool) {
	return a.ctx.EdgeSlacks[e].Slack(launch, capture)
}

// EdgeHoldSlack returns the hold slack on edge e for (launch, capture);
// see HoldSlack's Kind caveat.
func (a *Analyzer) EdgeHoldSlack(e ids.EdgeID, launch, capture ids.DomainID) (float64, bool) {
	return a.ctx.EdgeSlacks[e].SlackAs(tags.HoldSlack, launch, capture)
}

// Warnings exposes the non-fatal conditions accumulated by the last
// UpdateTiming run.
func (a *Analyzer) Warnings() *analysis.Warnings { return a.ctx.Warnings }

// NumUnconstrainedStartpoints counts warned non-SINK nodes with zero
// enabled fan-in: traversal seeds with no clock-domain affiliation. A
// SINK with no fan-in counts as an unconstrained endpoint, never as a
// startpoint.
func (a *Analyzer) NumUnconstrainedStartpoints() int {
	n := 0
	for _, node := range a.ctx.Warnings.UnconstrainedNodes() {
		if a.graph.NodeType(node) == tgraph.Sink {
			continue
		}
		enabled := 0
		for _, e := range a.graph.NodeInEdges(node) {
			if !a.graph.EdgeDisabled(e) {
				enabled++
			}
		}
		if enabled == 0 {
			n++
		}
	}
	return n
}

// NumUnconstrainedEndpoints counts warned SINK nodes with no clock-domain
// affiliation.
func (a *Analyzer) NumUnconstrainedEndpoints() int {
	n := 0
	for _, node := range a.ctx.Warnings.UnconstrainedNodes() {
		if a.graph.NodeType(node) == tgraph.Sink {
			n++
		}
	}
	return n
}
