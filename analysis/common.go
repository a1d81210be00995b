package analysis

import (
	"math"

	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/tags"
	"github.com/katalvlaran/tatumgo/tconstraints"
	"github.com/katalvlaran/tatumgo/tgraph"
)

// direction holds everything that differs between setup (max/long-path)
// and hold (min/short-path) analysis, so traversal's staged methods are
// written once and specialized by plugging in a direction value. It is
// not exported: SetupOps and HoldOps each embed a traversal configured
// with setupDirection/holdDirection.
type direction struct {
	arrivalSem tags.Semantics
	requiredSem tags.Semantics

	edgeDelay func(ctx *Context, e ids.EdgeID) float64
	checkTime func(ctx *Context, e ids.EdgeID) float64 // setup_time or hold_time

	constraint func(c *tconstraints.Constraints, launch, capture ids.DomainID) tconstraints.Constraint
	uncertainty func(c *tconstraints.Constraints, launch, capture ids.DomainID) float64

	inputBound tconstraints.Bound // which I/O bound seeds primary-input arrival
	outputBound tconstraints.Bound // which I/O bound seeds primary-output required

	sourceLatency func(c *tconstraints.Constraints, d ids.DomainID) float64

	// requiredFromCapture seeds the data-required time at a capturing SINK
	// from its capture-clock arrival, the (launch, capture) constraint
	// window, the setup or hold check time and the clock uncertainty; each
	// direction supplies its own signs, kept as a function to avoid magic
	// signs scattered through traversal.
	requiredFromCapture func(captureArrival, window, check, uncertainty float64) float64

	constGen func(typ tags.Type) tags.Tag

	// slack computes the required-vs-arrival margin with the correct sign
	// for this direction (required-arrival for setup, arrival-required for
	// hold).
	slack func(required, arrival float64) float64

	// Tag types this direction reads and writes. setupDirection and
	// holdDirection (run as standalone SetupOps/HoldOps, each against its
	// own Context) use the base types; holdCombinedDirection (run as half
	// of SetupHoldOps, sharing a Context with setupDirection) uses the
	// Hold* types so the two passes never collide in the same Tags
	// container.
	tClockLaunch, tClockCapture, tDataArrival, tDataRequired, tSlack tags.Type
}

var setupDirection = direction{
	arrivalSem: tags.KeepMax,
	requiredSem: tags.KeepMin,
	edgeDelay:  func(ctx *Context, e ids.EdgeID) float64 { return ctx.Delay.MaxEdgeDelay(ctx.Graph, e) },
	checkTime:  func(ctx *Context, e ids.EdgeID) float64 { return ctx.Delay.SetupTime(ctx.Graph, e) },
	constraint: func(c *tconstraints.Constraints, l, cap_ ids.DomainID) tconstraints.Constraint {
		return c.SetupConstraint(l, cap_)
	},
	uncertainty: func(c *tconstraints.Constraints, l, cap_ ids.DomainID) float64 {
		return c.SetupUncertainty(l, cap_)
	},
	inputBound: tconstraints.Max,
	outputBound: tconstraints.Max,
	sourceLatency: func(c *tconstraints.Constraints, d ids.DomainID) float64 {
		return c.LateSourceLatency(d)
	},
	requiredFromCapture: func(captureArrival, window, check, uncertainty float64) float64 {
		return captureArrival + window - check + uncertainty
	},
	constGen: tags.ConstGenSetupAs,
	slack:  func(required, arrival float64) float64 { return required - arrival },

	tClockLaunch: tags.ClockLaunch,
	tClockCapture: tags.ClockCapture,
	tDataArrival: tags.DataArrival,
	tDataRequired: tags.DataRequired,
	tSlack:    tags.Slack,
}

var holdDirection = direction{
	arrivalSem: tags.KeepMin,
	requiredSem: tags.KeepMax,
	edgeDelay:  func(ctx *Context, e ids.EdgeID) float64 { return ctx.Delay.MinEdgeDelay(ctx.Graph, e) },
	checkTime:  func(ctx *Context, e ids.EdgeID) float64 { return ctx.Delay.HoldTime(ctx.Graph, e) },
	constraint: func(c *tconstraints.Constraints, l, cap_ ids.DomainID) tconstraints.Constraint {
		return c.HoldConstraint(l, cap_)
	},
	uncertainty: func(c *tconstraints.Constraints, l, cap_ ids.DomainID) float64 {
		return c.HoldUncertainty(l, cap_)
	},
	inputBound: tconstraints.Min,
	outputBound: tconstraints.Min,
	sourceLatency: func(c *tconstraints.Constraints, d ids.DomainID) float64 {
		return c.EarlySourceLatency(d)
	},
	requiredFromCapture: func(captureArrival, window, check, uncertainty float64) float64 {
		return captureArrival + window + check - uncertainty
	},
	constGen: tags.ConstGenHoldAs,
	slack:  func(required, arrival float64) float64 { return arrival - required },

	tClockLaunch: tags.ClockLaunch,
	tClockCapture: tags.ClockCapture,
	tDataArrival: tags.DataArrival,
	tDataRequired: tags.DataRequired,
	tSlack:    tags.Slack,
}

// holdCombinedDirection is holdDirection's twin used by SetupHoldOps: same
// formulas, but tagging into the Hold* Type space so it can share a single
// Context with setupDirection without colliding on (Type, Launch, Capture)
// keys.
var holdCombinedDirection = direction{
	arrivalSem:     holdDirection.arrivalSem,
	requiredSem:     holdDirection.requiredSem,
	edgeDelay:      holdDirection.edgeDelay,
	checkTime:      holdDirection.checkTime,
	constraint:     holdDirection.constraint,
	uncertainty:     holdDirection.uncertainty,
	inputBound:     holdDirection.inputBound,
	outputBound:     holdDirection.outputBound,
	sourceLatency:    holdDirection.sourceLatency,
	requiredFromCapture: holdDirection.requiredFromCapture,
	constGen:      holdDirection.constGen,
	slack:        holdDirection.slack,

	tClockLaunch: tags.HoldClockLaunch,
	tClockCapture: tags.HoldClockCapture,
	tDataArrival: tags.HoldDataArrival,
	tDataRequired: tags.HoldDataRequired,
	tSlack:    tags.HoldSlack,
}

// traversal implements the six Ops stages for a given direction. SetupOps
// and HoldOps are thin wrappers so each still has a distinct, documented
// Go type (rather than one generic struct instantiated by value), which
// keeps the analyzer façade's Kind switch and AnalyzerFactory readable.
type traversal struct {
	dir direction
}

func (t traversal) resetNode(ctx *Context, n ids.NodeID) {
	nt := ctx.NodeTags[n]
	nt.ClearType(t.dir.tClockLaunch)
	nt.ClearType(t.dir.tClockCapture)
	nt.ClearType(t.dir.tDataArrival)
	nt.ClearType(t.dir.tDataRequired)
	nt.ClearType(t.dir.tSlack)
}

// enabledInDegree counts n's enabled fan-in edges; the seeds of arrival
// propagation are exactly the nodes where this is zero.
func enabledInDegree(g *tgraph.Graph, n ids.NodeID) int {
	deg := 0
	for _, e := range g.NodeInEdges(n) {
		if !g.EdgeDisabled(e) {
			deg++
		}
	}
	return deg
}

func (t traversal) arrivalPreTraverse(ctx *Context, n ids.NodeID) {
	g, c := ctx.Graph, ctx.Constraints
	nt := ctx.NodeTags[n]

	if c.IsConstantGenerator(n) && enabledInDegree(g, n) == 0 {
		nt.InsertOrMerge(t.dir.constGen(t.dir.tDataArrival), t.dir.arrivalSem)
	}

	domains := c.Domains()
	for _, dom := range domains {
		if dom.Source != n {
			continue
		}
		latency := t.dir.sourceLatency(c, dom.ID)
		for _, capDom := range domains {
			if !c.ShouldAnalyze(dom.ID, capDom.ID) {
				continue
			}
			nt.InsertOrMerge(tags.Tag{
				Time: latency, Launch: dom.ID, Capture: capDom.ID,
				Origin: n, Type: t.dir.tClockLaunch,
			}, t.dir.arrivalSem)
		}
	}

	for _, launchDom := range domains {
		ic := c.InputConstraint(n, launchDom.ID, t.dir.inputBound)
		if !ic.Ok {
			continue
		}
		latency := t.dir.sourceLatency(c, launchDom.ID)
		for _, capDom := range domains {
			if !c.ShouldAnalyze(launchDom.ID, capDom.ID) {
				continue
			}
			nt.InsertOrMerge(tags.Tag{
				Time: ic.Value + latency, Launch: launchDom.ID, Capture: capDom.ID,
				Origin: n, Type: t.dir.tDataArrival,
			}, t.dir.arrivalSem)
		}
	}

	// Only the base Type-space traversal reports warnings: SetupHoldOps
	// runs a second (Hold*-tagged) pass over the same Context, and would
	// otherwise double-count every unconstrained seed. SINK seeds are an
	// endpoint concern, warned by requiredPreTraverse instead, so a node
	// is never warned by both sides.
	if t.dir.tClockLaunch == tags.ClockLaunch && g.NodeType(n) != tgraph.Sink &&
		enabledInDegree(g, n) == 0 && !c.IsConstantGenerator(n) && nt.Len() == 0 {
		ctx.Warnings.Unconstrained(n)
	}
}

// capturingEdge returns the enabled PRIMITIVE_CLOCK_CAPTURE in-edge of a
// SINK node, if any.
func capturingEdge(g *tgraph.Graph, n ids.NodeID) (ids.EdgeID, bool) {
	for _, e := range g.NodeInEdges(n) {
		if g.EdgeDisabled(e) {
			continue
		}
		if g.EdgeType(e) == tgraph.PrimitiveClockCapture {
			return e, true
		}
	}
	return ids.InvalidEdge, false
}

func (t traversal) requiredPreTraverse(ctx *Context, n ids.NodeID) {
	g, c := ctx.Graph, ctx.Constraints
	nt := ctx.NodeTags[n]

	if g.NodeType(n) != tgraph.Sink {
		return
	}

	if capEdge, ok := capturingEdge(g, n); ok {
		check := t.dir.checkTime(ctx, capEdge)
		for _, capTag := range nt.Range(t.dir.tClockCapture) {
			window := t.dir.constraint(c, capTag.Launch, capTag.Capture)
			if !window.Ok {
				continue
			}
			unc := t.dir.uncertainty(c, capTag.Launch, capTag.Capture)
			req := t.dir.requiredFromCapture(capTag.Time, window.Value, check, unc)
			nt.InsertOrMerge(tags.Tag{
				Time: req, Launch: capTag.Launch, Capture: capTag.Capture,
				Origin: n, Type: t.dir.tDataRequired,
			}, t.dir.requiredSem)
		}
	} else {
		// Primary output: seed required from output constraints against
		// every domain pair that analyzes into this capture domain.
		domains := c.Domains()
		for _, capDom := range domains {
			oc := c.OutputConstraint(n, capDom.ID, t.dir.outputBound)
			if !oc.Ok {
				continue
			}
			latency := t.dir.sourceLatency(c, capDom.ID)
			req := oc.Value - latency
			for _, launchDom := range domains {
				if !c.ShouldAnalyze(launchDom.ID, capDom.ID) {
					continue
				}
				nt.InsertOrMerge(tags.Tag{
					Time: req, Launch: launchDom.ID, Capture: capDom.ID,
					Origin: n, Type: t.dir.tDataRequired,
				}, t.dir.requiredSem)
			}
		}
	}

	// A SINK that ends pre-traversal with no required tag has no capture
	// domain to check against: an unconstrained endpoint. Same base-pass
	// gating as the arrival side so SetupHoldOps doesn't double-count.
	if t.dir.tClockLaunch == tags.ClockLaunch && len(nt.Range(t.dir.tDataRequired)) == 0 {
		ctx.Warnings.Unconstrained(n)
	}
}

func (t traversal) arrivalTraverse(ctx *Context, n ids.NodeID) error {
	g, c := ctx.Graph, ctx.Constraints
	nt := ctx.NodeTags[n]

	for _, e := range g.NodeInEdges(n) {
		if g.EdgeDisabled(e) {
			continue
		}
		u := g.EdgeSrcNode(e)
		delay := t.dir.edgeDelay(ctx, e)
		if math.IsNaN(delay) {
			return &MissingDelayError{Edge: e}
		}
		ut := ctx.NodeTags[u]

		switch {
		case g.EdgeType(e) == tgraph.PrimitiveClockLaunch && g.NodeType(n) == tgraph.Source:
			for _, tag := range ut.Range(t.dir.tClockLaunch) {
				if !c.ShouldAnalyze(tag.Launch, tag.Capture) {
					continue
				}
				nt.InsertOrMerge(tags.Tag{
					Time: tag.Time + delay, Launch: tag.Launch, Capture: tag.Capture,
					Origin: u, Type: t.dir.tDataArrival,
				}, t.dir.arrivalSem)
			}
		case g.EdgeType(e) == tgraph.PrimitiveClockCapture && g.NodeType(n) == tgraph.Sink:
			for _, tag := range ut.Range(t.dir.tClockLaunch) {
				if !c.ShouldAnalyze(tag.Launch, tag.Capture) {
					continue
				}
				nt.InsertOrMerge(tags.Tag{
					Time: tag.Time + delay, Launch: tag.Launch, Capture: tag.Capture,
					Origin: u, Type: t.dir.tClockCapture,
				}, t.dir.arrivalSem)
			}
		default:
			for _, typ := range [...]tags.Type{t.dir.tClockLaunch, t.dir.tClockCapture, t.dir.tDataArrival} {
				for _, tag := range ut.Range(typ) {
					if tag.Launch.IsValid() && tag.Capture.IsValid() && !c.ShouldAnalyze(tag.Launch, tag.Capture) {
						continue
					}
					nt.InsertOrMerge(tags.Tag{
						Time: tag.Time + delay, Launch: tag.Launch, Capture: tag.Capture,
						Origin: u, Type: typ,
					}, t.dir.arrivalSem)
				}
			}
		}
	}
	return nil
}

func (t traversal) requiredTraverse(ctx *Context, n ids.NodeID) error {
	g := ctx.Graph
	nt := ctx.NodeTags[n]

	for _, e := range g.NodeOutEdges(n) {
		if g.EdgeDisabled(e) {
			continue
		}
		w := g.EdgeSinkNode(e)
		delay := t.dir.edgeDelay(ctx, e)
		if math.IsNaN(delay) {
			return &MissingDelayError{Edge: e}
		}
		wt := ctx.NodeTags[w]

		for _, tag := range wt.Range(t.dir.tDataRequired) {
			nt.InsertOrMerge(tags.Tag{
				Time: tag.Time - delay, Launch: tag.Launch, Capture: tag.Capture,
				Origin: w, Type: t.dir.tDataRequired,
			}, t.dir.requiredSem)
		}
	}
	return nil
}

func (t traversal) slackTraverse(ctx *Context, n ids.NodeID) {
	g := ctx.Graph
	nt := ctx.NodeTags[n]

	for _, req := range nt.Range(t.dir.tDataRequired) {
		arr, ok := nt.FindOne(t.dir.tDataArrival, req.Launch, req.Capture)
		if !ok {
			continue
		}
		slackVal := t.dir.slack(req.Time, arr.Time)
		if math.IsNaN(slackVal) {
			ctx.Warnings.Numeric(n)
		}
		nt.SetSlackAs(t.dir.tSlack, req.Launch, req.Capture, slackVal)
	}

	for _, e := range g.NodeOutEdges(n) {
		if g.EdgeDisabled(e) {
			continue
		}
		w := g.EdgeSinkNode(e)
		delay := t.dir.edgeDelay(ctx, e)
		if math.IsNaN(delay) {
			continue
		}
		wt := ctx.NodeTags[w]
		for _, arr := range nt.Range(t.dir.tDataArrival) {
			req, ok := wt.FindOne(t.dir.tDataRequired, arr.Launch, arr.Capture)
			if !ok {
				continue
			}
			downstreamArrival := arr.Time + delay
			edgeSlack := t.dir.slack(req.Time, downstreamArrival)
			if math.IsNaN(edgeSlack) {
				ctx.Warnings.Numeric(n)
			}
			ctx.EdgeSlacks[e].SetSlackAs(t.dir.tSlack, arr.Launch, arr.Capture, edgeSlack)
		}
	}
}
