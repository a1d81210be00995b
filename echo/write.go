package echo

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/tatumgo/analyzer"
	"github.com/katalvlaran/tatumgo/delaycalc"
	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/tags"
	"github.com/katalvlaran/tatumgo/tconstraints"
	"github.com/katalvlaran/tatumgo/tgraph"
)

// resultKind pairs the SETUP_/HOLD_ line prefix with the concrete
// tags.Type values that prefix reads, mirroring pathtrace.resolved: every
// standalone Setup/HoldOps Analyzer stores its one direction under the
// base Type space, and only SetupHoldOps's hold half uses the Hold* Type
// space (analysis/common.go's holdCombinedDirection).
type resultKind struct {
	prefix                   string
	launch, capture, arrival, required, slack tags.Type
}

func resultKinds(kind analyzer.Kind) []resultKind {
	setup := resultKind{"SETUP_", tags.ClockLaunch, tags.ClockCapture, tags.DataArrival, tags.DataRequired, tags.Slack}
	holdBase := resultKind{"HOLD_", tags.ClockLaunch, tags.ClockCapture, tags.DataArrival, tags.DataRequired, tags.Slack}
	holdCombined := resultKind{"HOLD_", tags.HoldClockLaunch, tags.HoldClockCapture, tags.HoldDataArrival, tags.HoldDataRequired, tags.HoldSlack}

	switch kind {
	case analyzer.Hold:
		return []resultKind{holdBase}
	case analyzer.SetupHold:
		return []resultKind{setup, holdCombined}
	default:
		return []resultKind{setup}
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func domainField(d ids.DomainID) string {
	if !d.IsValid() {
		return "-1"
	}
	return strconv.Itoa(int(d))
}

// Write serializes a's graph, constraints, delay calculator, and stored
// tags into the four fixed-order sections. a must have had UpdateTiming
// called at least once for analysis_result to hold anything; before that
// the section header is emitted with no records.
func Write(w io.Writer, a *analyzer.Analyzer) error {
	g := a.Graph()
	bw := bufio.NewWriter(w)

	writeGraph(bw, g)
	fmt.Fprintln(bw)
	writeConstraints(bw, g, a.Constraints())
	fmt.Fprintln(bw)
	writeDelayModel(bw, g, a.Delay())
	fmt.Fprintln(bw)
	writeResults(bw, g, a)

	return bw.Flush()
}

func writeGraph(bw *bufio.Writer, g *tgraph.Graph) {
	fmt.Fprintln(bw, "timing_graph:")
	for _, n := range g.Nodes() {
		fmt.Fprintf(bw, " node: %d type: %s in_edges: %s out_edges: %s\n",
			int32(n), g.NodeType(n), edgeList(g.NodeInEdges(n)), edgeList(g.NodeOutEdges(n)))
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(bw, " edge: %d type: %s src_node: %d sink_node: %d disabled: %t\n",
			int32(e), g.EdgeType(e), int32(g.EdgeSrcNode(e)), int32(g.EdgeSinkNode(e)), g.EdgeDisabled(e))
	}
}

// edgeList renders an edge id list as a single whitespace-free token
// (comma-joined, "-" for empty) so parseFields can treat it like any other
// field value.
func edgeList(es []ids.EdgeID) string {
	if len(es) == 0 {
		return "-"
	}
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = strconv.Itoa(int(e))
	}
	return strings.Join(parts, ",")
}

func writeConstraints(bw *bufio.Writer, g *tgraph.Graph, c *tconstraints.Constraints) {
	fmt.Fprintln(bw, "timing_constraints:")
	domains := c.Domains()

	for _, d := range domains {
		src := "-1"
		if d.Source.IsValid() {
			src = strconv.Itoa(int(d.Source))
		}
		fmt.Fprintf(bw, " type: CLOCK domain: %d name: %q source: %s\n", int16(d.ID), d.Name, src)
	}
	for _, n := range g.Nodes() {
		if c.IsConstantGenerator(n) {
			fmt.Fprintf(bw, " type: CONSTANT_GENERATOR node: %d\n", int32(n))
		}
	}
	for _, n := range g.Nodes() {
		for _, d := range domains {
			if ic := c.InputConstraint(n, d.ID, tconstraints.Max); ic.Ok {
				fmt.Fprintf(bw, " type: MAX_INPUT_CONSTRAINT node: %d domain: %d constraint: %s\n", int32(n), int16(d.ID), formatFloat(ic.Value))
			}
			if ic := c.InputConstraint(n, d.ID, tconstraints.Min); ic.Ok {
				fmt.Fprintf(bw, " type: MIN_INPUT_CONSTRAINT node: %d domain: %d constraint: %s\n", int32(n), int16(d.ID), formatFloat(ic.Value))
			}
			if oc := c.OutputConstraint(n, d.ID, tconstraints.Max); oc.Ok {
				fmt.Fprintf(bw, " type: MAX_OUTPUT_CONSTRAINT node: %d domain: %d constraint: %s\n", int32(n), int16(d.ID), formatFloat(oc.Value))
			}
			if oc := c.OutputConstraint(n, d.ID, tconstraints.Min); oc.Ok {
				fmt.Fprintf(bw, " type: MIN_OUTPUT_CONSTRAINT node: %d domain: %d constraint: %s\n", int32(n), int16(d.ID), formatFloat(oc.Value))
			}
		}
	}
	for _, l := range domains {
		for _, cp := range domains {
			if sc := c.SetupConstraint(l.ID, cp.ID); sc.Ok {
				fmt.Fprintf(bw, " type: SETUP_CONSTRAINT launch_domain: %d capture_domain: %d constraint: %s\n", int16(l.ID), int16(cp.ID), formatFloat(sc.Value))
			}
			if hc := c.HoldConstraint(l.ID, cp.ID); hc.Ok {
				fmt.Fprintf(bw, " type: HOLD_CONSTRAINT launch_domain: %d capture_domain: %d constraint: %s\n", int16(l.ID), int16(cp.ID), formatFloat(hc.Value))
			}
		}
	}
	for _, l := range domains {
		for _, cp := range domains {
			if !c.ShouldAnalyze(l.ID, cp.ID) {
				continue
			}
			fmt.Fprintf(bw, " type: SETUP_UNCERTAINTY launch_domain: %d capture_domain: %d constraint: %s\n", int16(l.ID), int16(cp.ID), formatFloat(c.SetupUncertainty(l.ID, cp.ID)))
			fmt.Fprintf(bw, " type: HOLD_UNCERTAINTY launch_domain: %d capture_domain: %d constraint: %s\n", int16(l.ID), int16(cp.ID), formatFloat(c.HoldUncertainty(l.ID, cp.ID)))
		}
	}
	for _, d := range domains {
		fmt.Fprintf(bw, " type: EARLY_SOURCE_LATENCY domain: %d latency: %s\n", int16(d.ID), formatFloat(c.EarlySourceLatency(d.ID)))
		fmt.Fprintf(bw, " type: LATE_SOURCE_LATENCY domain: %d latency: %s\n", int16(d.ID), formatFloat(c.LateSourceLatency(d.ID)))
	}
}

func writeDelayModel(bw *bufio.Writer, g *tgraph.Graph, dc delaycalc.DelayCalculator) {
	fmt.Fprintln(bw, "delay_model:")
	for _, e := range g.Edges() {
		if g.EdgeType(e) == tgraph.PrimitiveClockCapture && g.NodeType(g.EdgeSinkNode(e)) == tgraph.Sink {
			fmt.Fprintf(bw, " edge: %d setup_time: %s hold_time: %s\n", int32(e), formatFloat(dc.SetupTime(g, e)), formatFloat(dc.HoldTime(g, e)))
			continue
		}
		fmt.Fprintf(bw, " edge: %d min_delay: %s max_delay: %s\n", int32(e), formatFloat(dc.MinEdgeDelay(g, e)), formatFloat(dc.MaxEdgeDelay(g, e)))
	}
}

func writeResults(bw *bufio.Writer, g *tgraph.Graph, a *analyzer.Analyzer) {
	fmt.Fprintln(bw, "analysis_result:")

	for _, rk := range resultKinds(a.Kind()) {
		roles := []struct {
			name string
			typ tags.Type
		}{
			{"DATA_ARRIVAL", rk.arrival},
			{"DATA_REQUIRED", rk.required},
			{"LAUNCH_CLOCK", rk.launch},
			{"CAPTURE_CLOCK", rk.capture},
			{"SLACK", rk.slack},
		}
		for _, role := range roles {
			for _, n := range g.Nodes() {
				ts := a.TagsOfType(n, role.typ)
				sort.Slice(ts, func(i, j int) bool {
					if ts[i].Launch != ts[j].Launch {
						return ts[i].Launch < ts[j].Launch
					}
					return ts[i].Capture < ts[j].Capture
				})
				field := "time"
				if role.name == "SLACK" {
					field = "slack"
				}
				for _, tag := range ts {
					fmt.Fprintf(bw, " type: %s%s node: %d launch_domain: %s capture_domain: %s %s: %s\n",
						rk.prefix, role.name, int32(n), domainField(tag.Launch), domainField(tag.Capture), field, formatFloat(tag.Time))
				}
			}
		}

		for _, e := range g.Edges() {
			ts := a.EdgeTagsOfType(e, rk.slack)
			sort.Slice(ts, func(i, j int) bool {
				if ts[i].Launch != ts[j].Launch {
					return ts[i].Launch < ts[j].Launch
				}
				return ts[i].Capture < ts[j].Capture
			})
			for _, tag := range ts {
				fmt.Fprintf(bw, " type: %sSLACK edge: %d launch_domain: %s capture_domain: %s slack: %s\n",
					rk.prefix, int32(e), domainField(tag.Launch), domainField(tag.Capture), formatFloat(tag.Time))
			}
		}
	}
}
