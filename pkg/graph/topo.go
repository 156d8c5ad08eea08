package graph

import (
	"errors"
	"fmt"
)

// ErrCycle is returned by TopologicalOrder when the links form a cycle.
var ErrCycle = errors.New("graph: cycle detected")

// TopologicalOrder returns the nodes so that every link goes from an
// earlier node to a later one. Ties keep insertion order.
func TopologicalOrder(g *Graph) ([]*Node, error) {
	indegree := make(map[NodeID]int, len(g.Nodes))
	downstream := make(map[NodeID][]NodeID)
	for _, l := range g.Links {
		if g.Nodes[l.FromNode] == nil || g.Nodes[l.ToNode] == nil {
			continue
		}
		indegree[l.ToNode]++
		downstream[l.FromNode] = append(downstream[l.FromNode], l.ToNode)
	}

	nodes := g.Ordered()
	done := make(map[NodeID]bool, len(nodes))
	out := make([]*Node, 0, len(nodes))
	for len(out) < len(nodes) {
		progressed := false
		for _, n := range nodes {
			if done[n.ID] || indegree[n.ID] > 0 {
				continue
			}
			done[n.ID] = true
			out = append(out, n)
			for _, next := range downstream[n.ID] {
				indegree[next]--
			}
			progressed = true
		}
		if !progressed {
			return nil, fmt.Errorf("%w: %d nodes left unordered", ErrCycle, len(nodes)-len(out))
		}
	}
	return out, nil
}
