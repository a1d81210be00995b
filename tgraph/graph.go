package tgraph

import (
	"sort"

	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/loopdetect"
)

// AddNode appends a new node of the given type and returns its id.
//
// Complexity: O(1) amortized.
func (g *Graph) AddNode(t NodeType) ids.NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := ids.NodeID(len(g.nodes))
	g.nodes = append(g.nodes, node{typ: t, level: ids.InvalidLevel})
	g.levelized = false
	return id
}

// AddEdge appends a new edge of the given type between src and sink and
// returns its id. Returns ErrUnknownNode if either endpoint does not
// exist.
//
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(t EdgeType, src, sink ids.NodeID) (ids.EdgeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if int(src) < 0 || int(src) >= len(g.nodes) {
		return ids.InvalidEdge, ErrUnknownNode
	}
	if int(sink) < 0 || int(sink) >= len(g.nodes) {
		return ids.InvalidEdge, ErrUnknownNode
	}

	id := ids.EdgeID(len(g.edges))
	g.edges = append(g.edges, edge{typ: t, src: src, sink: sink})
	g.nodes[src].out = append(g.nodes[src].out, id)
	g.nodes[sink].in = append(g.nodes[sink].in, id)
	g.levelized = false
	return id, nil
}

// DisableEdge marks e as disabled (or re-enables it). Disabled edges are
// skipped by Levelize and by every traversal in analysis/walker.
func (g *Graph) DisableEdge(e ids.EdgeID, disabled bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if int(e) < 0 || int(e) >= len(g.edges) {
		return ErrUnknownEdge
	}
	g.edges[e].disabled = disabled
	g.levelized = false
	return nil
}

// NumNodes returns the number of nodes in the graph.
func (g *Graph) NumNodes() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// NumEdges returns the number of edges in the graph.
func (g *Graph) NumEdges() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Nodes returns every node id, in dense id order.
func (g *Graph) Nodes() []ids.NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]ids.NodeID, len(g.nodes))
	for i := range out {
		out[i] = ids.NodeID(i)
	}
	return out
}

// Edges returns every edge id, in dense id order.
func (g *Graph) Edges() []ids.EdgeID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]ids.EdgeID, len(g.edges))
	for i := range out {
		out[i] = ids.EdgeID(i)
	}
	return out
}

// NodeType returns the type of node n.
func (g *Graph) NodeType(n ids.NodeID) NodeType {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[n].typ
}

// EdgeType returns the type of edge e.
func (g *Graph) EdgeType(e ids.EdgeID) EdgeType {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges[e].typ
}

// EdgeSrcNode returns e's source node.
func (g *Graph) EdgeSrcNode(e ids.EdgeID) ids.NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges[e].src
}

// EdgeSinkNode returns e's sink node. Satisfies loopdetect.Subgraph.
func (g *Graph) EdgeSinkNode(e ids.EdgeID) ids.NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges[e].sink
}

// EdgeDisabled reports whether e is currently disabled.
func (g *Graph) EdgeDisabled(e ids.EdgeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges[e].disabled
}

// NodeInEdges returns the edges whose sink is n.
func (g *Graph) NodeInEdges(n ids.NodeID) []ids.EdgeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]ids.EdgeID(nil), g.nodes[n].in...)
}

// NodeOutEdges returns the edges whose src is n. OutEdges below is its
// loopdetect.Subgraph-named alias.
func (g *Graph) NodeOutEdges(n ids.NodeID) []ids.EdgeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]ids.EdgeID(nil), g.nodes[n].out...)
}

// OutEdges is the loopdetect.Subgraph-compatible alias of NodeOutEdges.
func (g *Graph) OutEdges(n ids.NodeID) []ids.EdgeID { return g.NodeOutEdges(n) }

// rawSubgraph adapts a Graph to loopdetect.Subgraph via direct field
// access, bypassing g.mu entirely. It exists solely for tryLevelize, which
// runs with g.mu already held by its caller (Levelize); going through
// Graph's own locking methods there would self-deadlock on Go's
// non-reentrant sync.RWMutex.
type rawSubgraph struct{ g *Graph }

func (r rawSubgraph) NumNodes() int { return len(r.g.nodes) }
func (r rawSubgraph) OutEdges(n ids.NodeID) []ids.EdgeID { return r.g.nodes[n].out }
func (r rawSubgraph) EdgeSinkNode(e ids.EdgeID) ids.NodeID { return r.g.edges[e].sink }
func (r rawSubgraph) EdgeDisabled(e ids.EdgeID) bool { return r.g.edges[e].disabled }

// NodeLevel returns n's level, or ids.InvalidLevel if Levelize has not run
// (or the graph was mutated since).
func (g *Graph) NodeLevel(n ids.NodeID) ids.Level {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[n].level
}

// Levels returns the forward-order level partition computed by Levelize.
// Levels()[0] contains every traversal seed (nodes with no enabled
// fan-in edge of any type). Returns nil if Levelize has not run.
func (g *Graph) Levels() [][]ids.NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.levelized {
		return nil
	}
	return g.levels
}

// LevelNodes returns the nodes at level l, or nil if out of range.
func (g *Graph) LevelNodes(l ids.Level) []ids.NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.levelized || int(l) < 0 || int(l) >= len(g.levels) {
		return nil
	}
	return g.levels[l]
}

// FindEdge returns the first enabled-or-disabled edge from src to sink, if
// any.
//
// Complexity: O(out-degree of src).
func (g *Graph) FindEdge(src, sink ids.NodeID) (ids.EdgeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, e := range g.nodes[src].out {
		if g.edges[e].sink == sink {
			return e, true
		}
	}
	return ids.InvalidEdge, false
}

// Levelize assigns every node an integer level via Kahn's algorithm
// restricted to enabled edges: level(src) < level(sink) for every enabled
// edge, and all nodes with no enabled fan-in form level 0.
//
// If the enabled subgraph contains a combinational loop (cycle), behavior
// depends on WithLoopBreaking: when unset, Levelize returns a *CycleError
// listing every loop found and its smallest-id feedback edge without
// mutating the graph; when set, it disables exactly one feedback edge per
// loop and retries, repeating until
// the enabled subgraph is acyclic.
//
// Complexity: O(V + E).
func (g *Graph) Levelize() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		ok, cyc := g.tryLevelize()
		if ok {
			return nil
		}
		if !g.loopBreak {
			return cyc
		}
		for _, e := range cyc.Edges {
			if !e.IsValid() {
				continue
			}
			g.edges[e].disabled = true
		}
		// retry with the feedback edges disabled
	}
}

// tryLevelize runs one levelization attempt under g.mu (already held by
// the caller). Returns (true, nil) on success, or (false, *CycleError)
// naming every SCC found.
func (g *Graph) tryLevelize() (bool, *CycleError) {
	n := len(g.nodes)
	indeg := make([]int, n)
	for _, e := range g.edges {
		if e.disabled {
			continue
		}
		indeg[e.sink]++
	}

	var frontier []ids.NodeID
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			frontier = append(frontier, ids.NodeID(i))
		}
	}
	sort.Slice(frontier, func(i, j int) bool { return frontier[i] < frontier[j] })

	levels := [][]ids.NodeID{}
	assigned := 0
	level := make([]ids.Level, n)
	for i := range level {
		level[i] = ids.InvalidLevel
	}

	cur := frontier
	for lvl := 0; len(cur) > 0; lvl++ {
		levels = append(levels, cur)
		var next []ids.NodeID
		for _, u := range cur {
			level[u] = ids.Level(lvl)
			assigned++
			for _, e := range g.nodes[u].out {
				if g.edges[e].disabled {
					continue
				}
				w := g.edges[e].sink
				indeg[w]--
				if indeg[w] == 0 {
					next = append(next, w)
				}
			}
		}
		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
		cur = next
	}

	if assigned != n {
		// Residual nodes (indeg still > 0) sit on one or more loops. Use
		// rawSubgraph rather than g itself: tryLevelize runs under g.mu
		// already held (write-locked) by Levelize, and g's own
		// NumNodes/OutEdges/etc. methods would try to RLock the same
		// non-reentrant mutex and deadlock.
		loops := loopdetect.FindSCCs(rawSubgraph{g}, 2)
		cyc := &CycleError{}
		for _, scc := range loops {
			fe, _ := loopdetect.FeedbackEdge(rawSubgraph{g}, scc)
			cyc.Loops = append(cyc.Loops, scc.Nodes)
			cyc.Edges = append(cyc.Edges, fe)
		}
		return false, cyc
	}

	for i := range g.nodes {
		g.nodes[i].level = level[i]
	}
	g.levels = levels
	g.levelized = true
	return true, nil
}
