// Package loopdetect finds combinational loops (strongly connected
// components of size >= 2) in a directed graph and selects a deterministic
// feedback edge to break each one.
//
// It depends only on ids and a small Subgraph interface so tgraph can both
// implement Subgraph and import loopdetect without a cycle: tgraph.Levelize
// uses this package to detect and, if configured, break combinational loops.
package loopdetect

import "github.com/katalvlaran/tatumgo/ids"

// Subgraph is the minimal read-only view loopdetect needs. tgraph.Graph
// satisfies it directly.
type Subgraph interface {
	NumNodes() int
	OutEdges(n ids.NodeID) []ids.EdgeID
	EdgeSinkNode(e ids.EdgeID) ids.NodeID
	EdgeDisabled(e ids.EdgeID) bool
}

// SCC is one strongly connected component: its member nodes in the order
// Tarjan's algorithm popped them off the stack.
type SCC struct {
	Nodes []ids.NodeID
}

// FindSCCs runs Tarjan's algorithm over the enabled subgraph of g and
// returns every strongly connected component with at least minSize nodes
// (callers pass 2 to find only true loops; a single node with no
// self-loop is never reported).
//
// Complexity: O(V + E).
func FindSCCs(g Subgraph, minSize int) []SCC {
	t := &tarjan{
		g:    g,
		index:  make([]int, g.NumNodes()),
		lowlink: make([]int, g.NumNodes()),
		onStack: make([]bool, g.NumNodes()),
		visited: make([]bool, g.NumNodes()),
		nextIdx: 0,
	}
	for i := range t.index {
		t.index[i] = -1
	}

	var out []SCC
	for n := 0; n < g.NumNodes(); n++ {
		nid := ids.NodeID(n)
		if !t.visited[n] {
			t.strongConnect(nid, &out, minSize)
		}
	}
	return out
}

type tarjan struct {
	g    Subgraph
	index  []int
	lowlink []int
	onStack []bool
	visited []bool
	stack  []ids.NodeID
	nextIdx int
}

func (t *tarjan) strongConnect(v ids.NodeID, out *[]SCC, minSize int) {
	// Iterative-by-recursion is fine here: timing graphs levelize in
	// practice, so SCCs (if any) are small local loops, not deep chains.
	t.visited[v] = true
	t.index[v] = t.nextIdx
	t.lowlink[v] = t.nextIdx
	t.nextIdx++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, e := range t.g.OutEdges(v) {
		if t.g.EdgeDisabled(e) {
			continue
		}
		w := t.g.EdgeSinkNode(e)
		if !t.visited[w] {
			t.strongConnect(w, out, minSize)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var members []ids.NodeID
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			members = append(members, w)
			if w == v {
				break
			}
		}
		if len(members) >= minSize {
			*out = append(*out, SCC{Nodes: members})
		}
	}
}

// FeedbackEdge selects the edge to disable to break the loop formed by
// scc: the smallest-id enabled edge whose endpoints are both members of
// scc. Returns (ids.InvalidEdge, false) if scc has no internal edge
// (should not happen for a genuine SCC of size >= 2).
func FeedbackEdge(g Subgraph, scc SCC) (ids.EdgeID, bool) {
	member := make(map[ids.NodeID]bool, len(scc.Nodes))
	for _, n := range scc.Nodes {
		member[n] = true
	}

	best := ids.InvalidEdge
	for _, n := range scc.Nodes {
		for _, e := range g.OutEdges(n) {
			if g.EdgeDisabled(e) {
				continue
			}
			if !member[g.EdgeSinkNode(e)] {
				continue
			}
			if !best.IsValid() || e < best {
				best = e
			}
		}
	}
	return best, best.IsValid()
}
