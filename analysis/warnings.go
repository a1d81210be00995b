package analysis

import (
	"sync"

	"github.com/katalvlaran/tatumgo/ids"
)

// Warnings accumulates the non-fatal conditions a traversal can surface:
// UnconstrainedWarning (a seed/sink with no clock-domain affiliation) and
// NumericWarning (a non-finite tag time observed where a finite one was
// expected). Warnings never taint tag results; they are purely queryable
// after UpdateTiming.
//
// Each node is recorded at most once per list, so incremental updates,
// which re-run pre-traversal over already-warned nodes, don't inflate
// the counts. The walker's parallel dispatch may record warnings from
// several goroutines within one level, so the accumulator locks
// internally; the recorded order is traversal order under Serial and
// unspecified within a level under Parallel.
type Warnings struct {
	mu            sync.Mutex
	unconstrained []ids.NodeID
	numeric       []ids.NodeID
	seenUncon     map[ids.NodeID]struct{}
	seenNumeric   map[ids.NodeID]struct{}
}

// NewWarnings returns an empty Warnings accumulator.
func NewWarnings() *Warnings {
	return &Warnings{
		seenUncon:   make(map[ids.NodeID]struct{}),
		seenNumeric: make(map[ids.NodeID]struct{}),
	}
}

// Unconstrained records that node n (a seed or sink) has no clock-domain
// affiliation.
func (w *Warnings) Unconstrained(n ids.NodeID) {
	w.mu.Lock()
	if _, ok := w.seenUncon[n]; !ok {
		w.seenUncon[n] = struct{}{}
		w.unconstrained = append(w.unconstrained, n)
	}
	w.mu.Unlock()
}

// Numeric records that node n produced a non-finite tag time where a
// finite one was expected.
func (w *Warnings) Numeric(n ids.NodeID) {
	w.mu.Lock()
	if _, ok := w.seenNumeric[n]; !ok {
		w.seenNumeric[n] = struct{}{}
		w.numeric = append(w.numeric, n)
	}
	w.mu.Unlock()
}

// UnconstrainedNodes returns every node recorded via Unconstrained, in
// the order first observed.
func (w *Warnings) UnconstrainedNodes() []ids.NodeID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]ids.NodeID(nil), w.unconstrained...)
}

// NumericNodes returns every node recorded via Numeric, in the order
// first observed.
func (w *Warnings) NumericNodes() []ids.NodeID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]ids.NodeID(nil), w.numeric...)
}

// Reset clears all accumulated warnings, e.g. before a fresh UpdateTiming.
func (w *Warnings) Reset() {
	w.mu.Lock()
	w.unconstrained = w.unconstrained[:0]
	w.numeric = w.numeric[:0]
	w.seenUncon = make(map[ids.NodeID]struct{})
	w.seenNumeric = make(map[ids.NodeID]struct{})
	w.mu.Unlock()
}
