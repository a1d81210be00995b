package echo

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/tconstraints"
	"github.com/katalvlaran/tatumgo/tgraph"
)

// Read parses an echo file written by Write back into a Document. It is a
// single forward pass over the four sections with a bufio.Scanner, in the
// state-machine style of vanderheijden86-beadwork's loader: an unindented
// line starts a new section, an indented (leading-space) line is a record
// of the current section.
func Read(r io.Reader) (*Document, error) {
	doc := &Document{
		Graph:    tgraph.New(),
		Constraints: tconstraints.New(),
		DelayModel: make(DelayTable),
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	section := ""
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, " ") {
			section = strings.TrimSuffix(strings.TrimSpace(line), ":")
			continue
		}

		f := parseFields(line)
		var err error
		switch section {
		case "timing_graph":
			err = readGraphLine(doc.Graph, f)
		case "timing_constraints":
			err = readConstraintLine(doc.Constraints, f)
		case "delay_model":
			err = readDelayLine(doc.DelayModel, f)
		case "analysis_result":
			var rec ResultRecord
			rec, err = readResultLine(f)
			if err == nil {
				doc.Results = append(doc.Results, rec)
			}
		default:
			err = fmt.Errorf("echo: record outside any known section")
		}
		if err != nil {
			return nil, fmt.Errorf("echo: line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return doc, nil
}

// fieldToken matches one "key: value" pair, where value is either a
// whitespace-free token or a double-quoted string (possibly containing
// escaped characters) produced by fmt's %q verb.
var fieldToken = regexp.MustCompile(`(\w+):\s*("(?:[^"\\]|\\.)*"|\S*)`)

func parseFields(line string) map[string]string {
	out := make(map[string]string)
	for _, m := range fieldToken.FindAllStringSubmatch(line, -1) {
		key, val := m[1], m[2]
		if strings.HasPrefix(val, `"`) {
			if u, err := strconv.Unquote(val); err == nil {
				val = u
			}
		}
		out[key] = val
	}
	return out
}

func reqField(f map[string]string, key string) (string, error) {
	v, ok := f[key]
	if !ok {
		return "", fmt.Errorf("missing field %q", key)
	}
	return v, nil
}

func parseNodeID(f map[string]string, key string) (ids.NodeID, error) {
	s, err := reqField(f, key)
	if err != nil {
		return ids.InvalidNode, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return ids.InvalidNode, fmt.Errorf("field %q: %w", key, err)
	}
	return ids.NodeID(n), nil
}

func parseDomainID(f map[string]string, key string) (ids.DomainID, error) {
	s, err := reqField(f, key)
	if err != nil {
		return ids.InvalidDomain, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return ids.InvalidDomain, fmt.Errorf("field %q: %w", key, err)
	}
	if n < 0 {
		return ids.InvalidDomain, nil
	}
	return ids.DomainID(n), nil
}

func parseFloatField(f map[string]string, key string) (float64, error) {
	s, err := reqField(f, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return v, nil
}

func parseNodeType(s string) (tgraph.NodeType, error) {
	switch s {
	case "SOURCE":
		return tgraph.Source, nil
	case "SINK":
		return tgraph.Sink, nil
	case "IPIN":
		return tgraph.IPin, nil
	case "OPIN":
		return tgraph.OPin, nil
	case "CPIN":
		return tgraph.CPin, nil
	default:
		return 0, fmt.Errorf("unknown node type %q", s)
	}
}

func parseEdgeType(s string) (tgraph.EdgeType, error) {
	switch s {
	case "PRIMITIVE_COMBINATIONAL":
		return tgraph.PrimitiveCombinational, nil
	case "PRIMITIVE_CLOCK_LAUNCH":
		return tgraph.PrimitiveClockLaunch, nil
	case "PRIMITIVE_CLOCK_CAPTURE":
		return tgraph.PrimitiveClockCapture, nil
	case "INTERCONNECT":
		return tgraph.Interconnect, nil
	default:
		return 0, fmt.Errorf("unknown edge type %q", s)
	}
}

// readGraphLine handles one "node:" or "edge:" record. in_edges/out_edges
// are not consumed: AddNode/AddEdge rebuild that adjacency automatically,
// and Write emits nodes and edges in dense id order so the ids AddNode and
// AddEdge hand back here reproduce the ids Write used.
func readGraphLine(g *tgraph.Graph, f map[string]string) error {
	if _, ok := f["node"]; ok {
		typStr, err := reqField(f, "type")
		if err != nil {
			return err
		}
		typ, err := parseNodeType(typStr)
		if err != nil {
			return err
		}
		g.AddNode(typ)
		return nil
	}

	if _, ok := f["edge"]; ok {
		typStr, err := reqField(f, "type")
		if err != nil {
			return err
		}
		typ, err := parseEdgeType(typStr)
		if err != nil {
			return err
		}
		src, err := parseNodeID(f, "src_node")
		if err != nil {
			return err
		}
		sink, err := parseNodeID(f, "sink_node")
		if err != nil {
			return err
		}
		id, err := g.AddEdge(typ, src, sink)
		if err != nil {
			return err
		}
		if f["disabled"] == "true" {
			return g.DisableEdge(id, true)
		}
		return nil
	}

	return fmt.Errorf("timing_graph record has neither node nor edge field")
}

// readConstraintLine handles one timing_constraints record. Domains must
// be created via CLOCK records before any record referencing them, which
// Write guarantees by emitting CLOCK first.
func readConstraintLine(c *tconstraints.Constraints, f map[string]string) error {
	typ, err := reqField(f, "type")
	if err != nil {
		return err
	}

	switch typ {
	case "CLOCK":
		name, err := reqField(f, "name")
		if err != nil {
			return err
		}
		srcStr, err := reqField(f, "source")
		if err != nil {
			return err
		}
		src := ids.InvalidNode
		if srcStr != "-1" {
			n, err := strconv.Atoi(srcStr)
			if err != nil {
				return fmt.Errorf("field \"source\": %w", err)
			}
			src = ids.NodeID(n)
		}
		c.AddClockDomain(name, src)
		return nil

	case "CONSTANT_GENERATOR":
		n, err := parseNodeID(f, "node")
		if err != nil {
			return err
		}
		c.MarkConstantGenerator(n)
		return nil

	case "MAX_INPUT_CONSTRAINT", "MIN_INPUT_CONSTRAINT", "MAX_OUTPUT_CONSTRAINT", "MIN_OUTPUT_CONSTRAINT":
		n, err := parseNodeID(f, "node")
		if err != nil {
			return err
		}
		d, err := parseDomainID(f, "domain")
		if err != nil {
			return err
		}
		v, err := parseFloatField(f, "constraint")
		if err != nil {
			return err
		}
		bound := tconstraints.Max
		if strings.HasPrefix(typ, "MIN_") {
			bound = tconstraints.Min
		}
		if strings.Contains(typ, "INPUT") {
			c.SetInputConstraint(n, d, bound, v)
		} else {
			c.SetOutputConstraint(n, d, bound, v)
		}
		return nil

	case "SETUP_CONSTRAINT", "HOLD_CONSTRAINT":
		l, err := parseDomainID(f, "launch_domain")
		if err != nil {
			return err
		}
		capture, err := parseDomainID(f, "capture_domain")
		if err != nil {
			return err
		}
		v, err := parseFloatField(f, "constraint")
		if err != nil {
			return err
		}
		if typ == "SETUP_CONSTRAINT" {
			c.SetSetupConstraint(l, capture, v)
		} else {
			c.SetHoldConstraint(l, capture, v)
		}
		return nil

	case "SETUP_UNCERTAINTY", "HOLD_UNCERTAINTY":
		l, err := parseDomainID(f, "launch_domain")
		if err != nil {
			return err
		}
		capture, err := parseDomainID(f, "capture_domain")
		if err != nil {
			return err
		}
		v, err := parseFloatField(f, "constraint")
		if err != nil {
			return err
		}
		if typ == "SETUP_UNCERTAINTY" {
			c.SetSetupUncertainty(l, capture, v)
		} else {
			c.SetHoldUncertainty(l, capture, v)
		}
		return nil

	case "EARLY_SOURCE_LATENCY", "LATE_SOURCE_LATENCY":
		d, err := parseDomainID(f, "domain")
		if err != nil {
			return err
		}
		v, err := parseFloatField(f, "latency")
		if err != nil {
			return err
		}
		if typ == "EARLY_SOURCE_LATENCY" {
			c.SetEarlySourceLatency(d, v)
		} else {
			c.SetLateSourceLatency(d, v)
		}
		return nil

	default:
		return fmt.Errorf("unknown timing_constraints record type %q", typ)
	}
}

func readDelayLine(dt DelayTable, f map[string]string) error {
	e, err := reqField(f, "edge")
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(e)
	if err != nil {
		return fmt.Errorf("field \"edge\": %w", err)
	}
	eid := ids.EdgeID(id)

	var d EdgeDelay
	if _, ok := f["setup_time"]; ok {
		if d.SetupTime, err = parseFloatField(f, "setup_time"); err != nil {
			return err
		}
		if d.HoldTime, err = parseFloatField(f, "hold_time"); err != nil {
			return err
		}
	} else {
		if d.MinDelay, err = parseFloatField(f, "min_delay"); err != nil {
			return err
		}
		if d.MaxDelay, err = parseFloatField(f, "max_delay"); err != nil {
			return err
		}
	}
	dt[eid] = d
	return nil
}

func readResultLine(f map[string]string) (ResultRecord, error) {
	typ, err := reqField(f, "type")
	if err != nil {
		return ResultRecord{}, err
	}
	l, err := parseDomainID(f, "launch_domain")
	if err != nil {
		return ResultRecord{}, err
	}
	capture, err := parseDomainID(f, "capture_domain")
	if err != nil {
		return ResultRecord{}, err
	}

	rec := ResultRecord{TypeName: typ, Node: ids.InvalidNode, Edge: ids.InvalidEdge, Launch: l, Capture: capture}

	if nStr, ok := f["node"]; ok {
		n, err := strconv.Atoi(nStr)
		if err != nil {
			return ResultRecord{}, fmt.Errorf("field \"node\": %w", err)
		}
		rec.Node = ids.NodeID(n)
	} else if eStr, ok := f["edge"]; ok {
		e, err := strconv.Atoi(eStr)
		if err != nil {
			return ResultRecord{}, fmt.Errorf("field \"edge\": %w", err)
		}
		rec.Edge = ids.EdgeID(e)
	} else {
		return ResultRecord{}, fmt.Errorf("analysis_result record has neither node nor edge field")
	}

	if vStr, ok := f["time"]; ok {
		rec.Value, err = strconv.ParseFloat(vStr, 64)
	} else if vStr, ok := f["slack"]; ok {
		rec.Value, err = strconv.ParseFloat(vStr, 64)
	} else {
		return ResultRecord{}, fmt.Errorf("analysis_result record has neither time nor slack field")
	}
	if err != nil {
		return ResultRecord{}, fmt.Errorf("field value: %w", err)
	}

	return rec, nil
}
