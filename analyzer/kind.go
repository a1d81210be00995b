// SPDX-License-Identifier: MIT
//
// Package analyzer implements the TimingAnalyzer façade: it
// owns a Walker + Ops composition built by an AnalyzerFactory generic over
// both, and exposes update/invalidate/query operations without the caller
// ever naming a concrete Ops or Walker type.
package analyzer

// Kind selects which Ops a TimingAnalyzer runs: Setup and Hold each use
// one analysis direction against their own Context; SetupHold runs both
// against a single shared Context (analysis.SetupHoldOps).
type Kind uint8

const (
	Setup Kind = iota
	Hold
	SetupHold
)

func (k Kind) String() string {
	switch k {
	case Setup:
		return "SETUP"
	case Hold:
		return "HOLD"
	case SetupHold:
		return "SETUP_HOLD"
	default:
		return "UNKNOWN_KIND"
	}
}
