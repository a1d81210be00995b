// SPDX-License-Identifier: MIT

package analyzer

import "github.com/katalvlaran/tatumgo/analysis"

// MissingDelayError is returned by UpdateTiming when the delay calculator
// returns NaN for an enabled edge; it re-exports analysis.MissingDelayError
// so callers never need to import the analysis package directly.
type MissingDelayError = analysis.MissingDelayError

// Warnings is the non-fatal condition accumulator returned by
// Analyzer.Warnings.
type Warnings = analysis.Warnings
