package graph

import "sort"

// TopologicalOrder returns node ids in topological order using Kahn's
// algorithm: for every edge u->v, u comes before v. Nodes at equal depth are
// emitted in sorted id order so the result is deterministic.
//
// Build guarantees acyclicity, so this cannot fail on a built graph; the
// error return guards against misuse.
func TopologicalOrder(g *Graph) ([]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for _, id := range g.order {
		inDegree[id] = len(g.in[id])
	}

	var frontier []string
	for _, id := range g.order {
		if inDegree[id] == 0 {
			frontier = append(frontier, id)
		}
	}

	sorted := make([]string, 0, len(g.nodes))
	for len(frontier) > 0 {
		sort.Strings(frontier)
		current := frontier[0]
		frontier = frontier[1:]
		sorted = append(sorted, current)

		for _, next := range g.out[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				frontier = append(frontier, next)
			}
		}
	}

	if len(sorted) != len(g.nodes) {
		return nil, validationErr(ErrCyclicGraph, "", "", "graph is not a DAG")
	}
	return sorted, nil
}
