package tgraph

import (
	"sort"

	"github.com/katalvlaran/tatumgo/ids"
)

// NodeIDMap maps an old NodeID to its new NodeID after OptimizeLayout.
type NodeIDMap []ids.NodeID

// EdgeIDMap maps an old EdgeID to its new EdgeID after OptimizeLayout.
type EdgeIDMap []ids.EdgeID

// OptimizeLayout reorders node and edge storage for cache locality: nodes
// are grouped by level then by the id of their first enabled fan-in edge
// (ties broken by original id); edges are grouped by their (new) source
// node id. It returns the permutation tables so callers can remap any
// node/edge ids they hold externally (tconstraints.RemapNodes, a
// DelayCalculator's own edge-keyed tables, stored TimingPath references).
//
// Requires Levelize to have been run first, since level is part of the
// new node ordering key; a non-levelized graph is a StructuralError.
//
// Complexity: O((V + E) log(V + E)).
func (g *Graph) OptimizeLayout() (NodeIDMap, EdgeIDMap, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.levelized {
		return nil, nil, &StructuralError{Msg: "OptimizeLayout requires a levelized graph"}
	}

	n := len(g.nodes)
	firstFanin := make([]ids.EdgeID, n)
	for i := range firstFanin {
		firstFanin[i] = ids.InvalidEdge
	}
	for i := range g.nodes {
		for _, e := range g.nodes[i].in {
			if g.edges[e].disabled {
				continue
			}
			if !firstFanin[i].IsValid() || e < firstFanin[i] {
				firstFanin[i] = e
			}
		}
	}

	oldOrder := make([]ids.NodeID, n)
	for i := range oldOrder {
		oldOrder[i] = ids.NodeID(i)
	}
	sort.SliceStable(oldOrder, func(a, b int) bool {
		na, nb := oldOrder[a], oldOrder[b]
		if g.nodes[na].level != g.nodes[nb].level {
			return g.nodes[na].level < g.nodes[nb].level
		}
		if firstFanin[na] != firstFanin[nb] {
			return firstFanin[na] < firstFanin[nb]
		}
		return na < nb
	})

	nodeMap := make(NodeIDMap, n) // nodeMap[old] = new
	newNodes := make([]node, n)
	for newID, oldID := range oldOrder {
		nodeMap[oldID] = ids.NodeID(newID)
		newNodes[newID] = g.nodes[oldID]
	}

	m := len(g.edges)
	oldEdgeOrder := make([]ids.EdgeID, m)
	for i := range oldEdgeOrder {
		oldEdgeOrder[i] = ids.EdgeID(i)
	}
	sort.SliceStable(oldEdgeOrder, func(a, b int) bool {
		ea, eb := oldEdgeOrder[a], oldEdgeOrder[b]
		srcA, srcB := nodeMap[g.edges[ea].src], nodeMap[g.edges[eb].src]
		if srcA != srcB {
			return srcA < srcB
		}
		return ea < eb
	})

	edgeMap := make(EdgeIDMap, m) // edgeMap[old] = new
	newEdges := make([]edge, m)
	for newID, oldID := range oldEdgeOrder {
		edgeMap[oldID] = ids.EdgeID(newID)
		e := g.edges[oldID]
		e.src = nodeMap[e.src]
		e.sink = nodeMap[e.sink]
		newEdges[newID] = e
	}

	for i := range newNodes {
		remapped := make([]ids.EdgeID, len(newNodes[i].in))
		for j, e := range newNodes[i].in {
			remapped[j] = edgeMap[e]
		}
		newNodes[i].in = remapped

		remapped = make([]ids.EdgeID, len(newNodes[i].out))
		for j, e := range newNodes[i].out {
			remapped[j] = edgeMap[e]
		}
		newNodes[i].out = remapped
	}

	newLevels := make([][]ids.NodeID, len(g.levels))
	for l := range g.levels {
		bucket := make([]ids.NodeID, len(g.levels[l]))
		for i, oldID := range g.levels[l] {
			bucket[i] = nodeMap[oldID]
		}
		sort.Slice(bucket, func(i, j int) bool { return bucket[i] < bucket[j] })
		newLevels[l] = bucket
	}

	g.nodes = newNodes
	g.edges = newEdges
	g.levels = newLevels

	return nodeMap, edgeMap, nil
}
