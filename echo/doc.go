// SPDX-License-Identifier: MIT
//
// Package echo implements a bit-exact text serialization: four fixed-order
// sections (timing_graph, timing_constraints, delay_model, analysis_result)
// covering the graph, constraints, delay calculator, and an Analyzer's
// stored tags. It exists for reproducibility and golden comparison, not as
// the core's normal I/O path: callers parse their own design formats into
// a tgraph.Graph/tconstraints.Constraints pair and hand the core a
// DelayCalculator; this package is the round-trippable dump of that
// already-built state.
//
// Read does not attempt to reconstruct a live analyzer.Analyzer: tags are
// derived by UpdateTiming, never externally injected, so Read returns the
// analysis_result section as a flat, comparable []ResultRecord instead.
package echo
