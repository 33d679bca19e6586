package scenario

import "launchthat.app/portal/internal/model"

// ExecutionOrder sorts nodes so every edge source runs before its target.
// Among ready nodes the one earliest in the input wins. Edges that reference
// unknown nodes are ignored. When the edges form a cycle the input order is
// returned with ok=false.
func ExecutionOrder(nodes []model.Node, edges []model.Edge) (ordered []model.Node, ok bool) {
	index := make(map[int64]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}

	inDegree := make([]int, len(nodes))
	targets := make([][]int, len(nodes))
	for _, e := range edges {
		src, okSrc := index[e.SourceNodeID]
		dst, okDst := index[e.TargetNodeID]
		if !okSrc || !okDst {
			continue
		}
		targets[src] = append(targets[src], dst)
		inDegree[dst]++
	}

	done := make([]bool, len(nodes))
	ordered = make([]model.Node, 0, len(nodes))
	for len(ordered) < len(nodes) {
		next := -1
		for i := range nodes {
			if !done[i] && inDegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nodes, false
		}
		done[next] = true
		ordered = append(ordered, nodes[next])
		for _, t := range targets[next] {
			inDegree[t]--
		}
	}
	return ordered, true
}

// linearChain connects nodes one after another in their stored order.
func linearChain(nodes []model.Node) []model.Edge {
	edges := make([]model.Edge, 0, len(nodes))
	for i := 0; i+1 < len(nodes); i++ {
		edges = append(edges, model.Edge{
			ScenarioID:   nodes[i].ScenarioID,
			SourceNodeID: nodes[i].ID,
			TargetNodeID: nodes[i+1].ID,
			Order:        int32(i),
		})
	}
	return edges
}
