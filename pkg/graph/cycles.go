package graph

// DFS colors for cycle detection.
const (
	white = 0 // unvisited
	gray  = 1 // in the current recursion stack
	black = 2 // fully explored
)

// findCycle looks for a directed cycle using DFS with three-color marking.
// Hitting a gray node means a back edge, which closes a cycle. Returns the
// cycle as a node id sequence, or nil if the graph is acyclic.
func findCycle(g *Graph) []string {
	color := make(map[string]int, len(g.nodes))
	parent := make(map[string]string)

	var cycle []string
	var visit func(id string) bool

	visit = func(id string) bool {
		color[id] = gray
		for _, next := range g.out[id] {
			switch color[next] {
			case white:
				parent[next] = id
				if visit(next) {
					return true
				}
			case gray:
				cycle = extractCycle(next, id, parent)
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, id := range g.order {
		if color[id] == white && visit(id) {
			return cycle
		}
	}
	return nil
}

// extractCycle walks parent pointers from the back edge's tail to its head.
func extractCycle(start, end string, parent map[string]string) []string {
	cycle := []string{start}
	for current := end; current != start; {
		cycle = append(cycle, current)
		p, ok := parent[current]
		if !ok {
			break
		}
		current = p
	}
	return cycle
}
