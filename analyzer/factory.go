// SPDX-License-Identifier: MIT

package analyzer

import (
	"github.com/katalvlaran/tatumgo/analysis"
	"github.com/katalvlaran/tatumgo/delaycalc"
	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/tconstraints"
	"github.com/katalvlaran/tatumgo/tgraph"
	"github.com/katalvlaran/tatumgo/walker"
)

// AnalyzerFactory composes a concrete Ops implementation with a walker
// constructor, generic over both, so the resulting Analyzer owns a
// walker monomorphized against the same O its Ops value has
// (walker.Serial[O] / walker.Parallel[O], no interface dispatch per
// node). New's Kind switch is a convenience wrapper over three
// instantiations of this factory; callers with a custom Ops or walker
// composition use it directly.
type AnalyzerFactory[O analysis.Ops] struct {
	Kind      Kind
	Ops       O
	NewWalker func(g *tgraph.Graph, ops O) walker.Walker
}

// Build assembles an Analyzer over g, c, and dc: the factory's walker
// constructor takes ownership of the Ops composition and the Analyzer
// takes ownership of the walker.
func (f AnalyzerFactory[O]) Build(g *tgraph.Graph, c *tconstraints.Constraints, dc delaycalc.DelayCalculator) *Analyzer {
	return &Analyzer{
		kind:   f.Kind,
		graph:  g,
		walker: f.NewWalker(g, f.Ops),
		ctx:    analysis.NewContext(g, c, dc),
		dirty:  make(map[ids.NodeID]struct{}),
	}
}

// SerialWalker is the AnalyzerFactory walker constructor for
// walker.Serial.
func SerialWalker[O analysis.Ops]() func(*tgraph.Graph, O) walker.Walker {
	return func(g *tgraph.Graph, ops O) walker.Walker { return walker.NewSerial(g, ops) }
}

// ParallelWalker is the AnalyzerFactory walker constructor for
// walker.Parallel, forwarding opts to NewParallel.
func ParallelWalker[O analysis.Ops](opts ...walker.ParallelOption) func(*tgraph.Graph, O) walker.Walker {
	return func(g *tgraph.Graph, ops O) walker.Walker { return walker.NewParallel(g, ops, opts...) }
}
