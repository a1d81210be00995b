// SPDX-License-Identifier: MIT

package walker

import (
	"runtime"
	"sync"
	"time"

	"github.com/katalvlaran/tatumgo/analysis"
	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/tgraph"
)

// Config holds Parallel's tunables, set via ParallelOption.
type Config struct {
	Workers int
}

// ParallelOption configures a Parallel walker's worker pool.
type ParallelOption func(*Config)

// WithWorkerCount overrides the default runtime.GOMAXPROCS(0) worker count.
func WithWorkerCount(n int) ParallelOption {
	return func(c *Config) {
		if n > 0 {
			c.Workers = n
		}
	}
}

// Parallel implements Walker by running each level's nodes across a fixed
// pool of worker goroutines, with a barrier between levels: since enabled
// edges never connect two nodes in the same level, nodes within one level
// never observe each other's ResetNode/ArrivalTraverse/.../SlackTraverse
// output, so dispatching them concurrently needs no per-node locking. The
// pool itself is a long-lived unbuffered job channel drained by a fixed
// number of worker goroutines with per-job WaitGroup accounting, the same
// shape as a branch-and-bound work queue. The job channel is never closed;
// Close stops the workers through a separate done channel, and until then
// the pool is reused across UpdateTiming calls.
type Parallel[O analysis.Ops] struct {
	graph     *tgraph.Graph
	ops       O
	stopAfter ids.Level
	stats     Traversal

	jobs      chan func()
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewParallel returns a Parallel walker over g using ops, with a worker
// pool sized by opts (default runtime.GOMAXPROCS(0)).
func NewParallel[O analysis.Ops](g *tgraph.Graph, ops O, opts ...ParallelOption) *Parallel[O] {
	cfg := Config{Workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	p := &Parallel[O]{
		graph:     g,
		ops:       ops,
		stopAfter: ids.InvalidLevel,
		jobs:      make(chan func()),
		done:      make(chan struct{}),
	}
	for i := 0; i < cfg.Workers; i++ {
		go p.loop()
	}
	return p
}

func (p *Parallel[O]) loop() {
	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			job()
			p.wg.Done()
		case <-p.done:
			return
		}
	}
}

// Close stops the worker pool. A Parallel walker must not be used after
// Close returns.
func (p *Parallel[O]) Close() {
	p.closeOnce.Do(func() { close(p.done) })
}

// runLevel dispatches fn(n) for every n in level across the pool and
// blocks until all of them complete, returning the first non-nil error.
func (p *Parallel[O]) runLevel(level []ids.NodeID, fn func(ids.NodeID) error) error {
	if len(level) == 0 {
		return nil
	}
	errs := make([]error, len(level))
	p.wg.Add(len(level))
	for i, n := range level {
		i, n := i, n
		p.jobs <- func() { errs[i] = fn(n) }
	}
	p.wg.Wait()
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

func (p *Parallel[O]) runLevelVoid(level []ids.NodeID, fn func(ids.NodeID)) {
	_ = p.runLevel(level, func(n ids.NodeID) error {
		fn(n)
		return nil
	})
}

// UpdateTiming runs a full timing update across all levels, fanning each
// level's nodes out across the worker pool.
func (p *Parallel[O]) UpdateTiming(ctx *analysis.Context) error {
	return p.updateLevels(ctx, p.graph.Levels())
}

// UpdateTimingIncremental restricts the update to dirty's forward closure
// and that closure's ancestors, the same dirty-set computation Serial uses
// so the two walkers agree on both full and incremental updates.
func (p *Parallel[O]) UpdateTimingIncremental(ctx *analysis.Context, dirty []ids.NodeID) error {
	affected := dirtyClosure(p.graph, dirty)
	return p.updateLevels(ctx, restrictLevels(p.graph.Levels(), affected))
}

// SetStopAfterLevel caps every subsequent update at level l inclusive.
// Pass ids.InvalidLevel to restore running to completion.
func (p *Parallel[O]) SetStopAfterLevel(l ids.Level) { p.stopAfter = l }

// LastTraversal returns the per-stage timing of the most recent update.
func (p *Parallel[O]) LastTraversal() Traversal { return p.stats }

func (p *Parallel[O]) updateLevels(ctx *analysis.Context, levels [][]ids.NodeID) error {
	levels = capLevels(levels, p.stopAfter)
	p.stats = Traversal{LevelsRun: len(levels)}

	start := time.Now()
	for _, level := range levels {
		p.runLevelVoid(level, func(n ids.NodeID) { p.ops.ResetNode(ctx, n) })
	}
	p.stats.Reset = time.Since(start)

	start = time.Now()
	for _, level := range levels {
		p.runLevelVoid(level, func(n ids.NodeID) { p.ops.ArrivalPreTraverse(ctx, n) })
	}
	p.stats.ArrivalPre = time.Since(start)

	start = time.Now()
	for _, level := range levels {
		if err := p.runLevel(level, func(n ids.NodeID) error { return p.ops.ArrivalTraverse(ctx, n) }); err != nil {
			return err
		}
	}
	p.stats.Arrival = time.Since(start)

	start = time.Now()
	for _, level := range levels {
		p.runLevelVoid(level, func(n ids.NodeID) { p.ops.RequiredPreTraverse(ctx, n) })
	}
	p.stats.RequiredPre = time.Since(start)

	start = time.Now()
	for i := len(levels) - 1; i >= 0; i-- {
		if err := p.runLevel(levels[i], func(n ids.NodeID) error { return p.ops.RequiredTraverse(ctx, n) }); err != nil {
			return err
		}
	}
	p.stats.Required = time.Since(start)

	start = time.Now()
	for _, level := range levels {
		p.runLevelVoid(level, func(n ids.NodeID) { p.ops.SlackTraverse(ctx, n) })
	}
	p.stats.Slack = time.Since(start)
	return nil
}
