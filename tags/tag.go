// SPDX-License-Identifier: MIT
//
// Package tags implements TimingTag and TimingTags: the
// compact per-node timing records the analysis packages create, merge,
// and query, and the small per-node container that holds them.
package tags

import (
	"math"

	"github.com/katalvlaran/tatumgo/ids"
)

// Type discriminates what kind of timing value a Tag carries.
type Type uint8

const (
	ClockLaunch Type = iota
	ClockCapture
	DataArrival
	DataRequired
	Slack

	// HoldClockLaunch through HoldSlack mirror the setup-side types above
	// but are used by SetupHoldOps, which runs both analyses against one
	// shared Context:
	// distinct Type values keep a setup DATA_ARRIVAL tag and a hold
	// DATA_ARRIVAL tag for the same (launch, capture) pair from colliding
	// in the same Tags container.
	HoldClockLaunch
	HoldClockCapture
	HoldDataArrival
	HoldDataRequired
	HoldSlack
)

func (t Type) String() string {
	switch t {
	case ClockLaunch:
		return "CLOCK_LAUNCH"
	case ClockCapture:
		return "CLOCK_CAPTURE"
	case DataArrival:
		return "DATA_ARRIVAL"
	case DataRequired:
		return "DATA_REQUIRED"
	case Slack:
		return "SLACK"
	case HoldClockLaunch:
		return "HOLD_CLOCK_LAUNCH"
	case HoldClockCapture:
		return "HOLD_CLOCK_CAPTURE"
	case HoldDataArrival:
		return "HOLD_DATA_ARRIVAL"
	case HoldDataRequired:
		return "HOLD_DATA_REQUIRED"
	case HoldSlack:
		return "HOLD_SLACK"
	default:
		return "UNKNOWN_TAG_TYPE"
	}
}

// Semantics selects how InsertOrMerge resolves a collision: KeepMax keeps
// the larger time (setup arrival/launch, hold required), KeepMin keeps
// the smaller (setup required, hold arrival/launch).
type Semantics uint8

const (
	KeepMax Semantics = iota
	KeepMin
)

// Tag is a single timing record: (time, origin_node, launch_domain,
// capture_domain, tag_type). Fields are ordered to pack tightly: the
// 8-byte float first, two 2-byte domain ids, a 4-byte node id, then the
// 1-byte type discriminant.
type Tag struct {
	Time  float64
	Launch ids.DomainID
	Capture ids.DomainID
	Origin ids.NodeID
	Type  Type
}

// ConstGenSetup returns the sentinel tag used at a constant generator
// during setup (max) analysis: time = -Inf so it loses every max-merge
// against a real arrival.
func ConstGenSetup() Tag { return ConstGenSetupAs(DataArrival) }

// ConstGenHold returns the sentinel tag used at a constant generator
// during hold (min) analysis: time = +Inf so it loses every min-merge.
func ConstGenHold() Tag { return ConstGenHoldAs(DataArrival) }

// ConstGenSetupAs is ConstGenSetup with an explicit tag Type, for callers
// (SetupHoldOps) that store hold-side arrival tags under a distinct Type.
func ConstGenSetupAs(typ Type) Tag {
	return Tag{
		Time:  math.Inf(-1),
		Launch: ids.InvalidDomain,
		Capture: ids.InvalidDomain,
		Origin: ids.InvalidNode,
		Type:  typ,
	}
}

// ConstGenHoldAs is ConstGenHold with an explicit tag Type.
func ConstGenHoldAs(typ Type) Tag {
	return Tag{
		Time:  math.Inf(1),
		Launch: ids.InvalidDomain,
		Capture: ids.InvalidDomain,
		Origin: ids.InvalidNode,
		Type:  typ,
	}
}

// IsConstGen reports whether tag is a constant-generator sentinel (either
// polarity): its domains are wildcarded and its origin is invalid.
func IsConstGen(tag Tag) bool {
	return !tag.Launch.IsValid() && !tag.Capture.IsValid() && !tag.Origin.IsValid() &&
		math.IsInf(tag.Time, 0)
}
