package graph

import (
	"sort"
	"sync"
)

// Reach answers descendant/ancestor reachability queries against one graph,
// memoizing BFS results per node. Scenario expansion, sensitivity analysis and
// SPOF impact reports all go through this one primitive instead of re-walking
// the graph per call site. Safe for concurrent use; callers must not modify
// the returned slices.
type Reach struct {
	g           *Graph
	mu          sync.Mutex
	descendants map[string][]string
	ancestors   map[string][]string
}

// NewReach creates a reachability cache for the graph.
func NewReach(g *Graph) *Reach {
	return &Reach{
		g:           g,
		descendants: make(map[string][]string),
		ancestors:   make(map[string][]string),
	}
}

// Descendants returns every node reachable downstream of id (following
// dependency direction), excluding id itself, in sorted order.
func (r *Reach) Descendants(id string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.descendants[id]; ok {
		return cached
	}
	result := bfs(id, r.g.out)
	r.descendants[id] = result
	return result
}

// Ancestors returns every node upstream of id, excluding id itself,
// in sorted order.
func (r *Reach) Ancestors(id string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.ancestors[id]; ok {
		return cached
	}
	result := bfs(id, r.g.in)
	r.ancestors[id] = result
	return result
}

func bfs(start string, adjacency map[string][]string) []string {
	visited := map[string]bool{start: true}
	queue := []string{start}
	var reached []string

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[current] {
			if visited[next] {
				continue
			}
			visited[next] = true
			reached = append(reached, next)
			queue = append(queue, next)
		}
	}

	sort.Strings(reached)
	return reached
}

// PathExistsAvoiding reports whether any path from src to dst exists when the
// removed node is treated as deleted. Used by SPOF detection to test whether a
// node's removal severs all raw-material-to-assembly paths.
func (g *Graph) PathExistsAvoiding(src, dst, removed string) bool {
	if src == removed || dst == removed {
		return false
	}
	if src == dst {
		return true
	}
	visited := map[string]bool{src: true, removed: true}
	queue := []string{src}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range g.out[current] {
			if visited[next] {
				continue
			}
			if next == dst {
				return true
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return false
}
