// Package graph builds and queries the directed acyclic supplier network.
// Nodes are suppliers enriched with their country's risk profile (copied by
// value at build time so the shared country table can never be corrupted);
// edges are dependencies running from higher tiers to lower ones.
package graph

import "sort"

// Node is one supplier in the network. Country risk fields are embedded as a
// value copy made at build time. Nodes are immutable after Build returns;
// risk stages annotate the graph through separate maps keyed by node id.
type Node struct {
	ID              string
	Name            string
	Tier            int
	Component       string
	Country         string
	CountryCode     string
	Region          string
	ContractValue   float64
	LeadTimeDays    int
	FinancialHealth float64
	PastDisruptions int
	HasBackup       bool

	// Country risk profile, copied by value from the country table.
	PoliticalStability   float64
	NaturalDisasterFreq  float64
	LogisticsPerformance float64
	TradeRestrictionRisk float64
}

// Edge is a directed dependency: From feeds To.
type Edge struct {
	From   string
	To     string
	Weight float64
}

// Graph is the immutable supplier network produced by Build.
type Graph struct {
	nodes map[string]*Node
	order []string // node ids, sorted, for deterministic iteration
	out   map[string][]string
	in    map[string][]string
	edges []Edge
}

// NodeCount returns the number of suppliers.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of dependencies.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the supplier with the given id.
func (g *Graph) Node(id string) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, validationErr(ErrNodeNotFound, id, "", "no such supplier")
	}
	return n, nil
}

// HasNode reports whether the supplier exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeIDs returns all supplier ids in sorted order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	return ids
}

// Edges returns a copy of all dependency edges.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// Predecessors returns the ids of suppliers feeding into id (upstream),
// in sorted order.
func (g *Graph) Predecessors(id string) []string {
	return copySorted(g.in[id])
}

// Successors returns the ids of suppliers fed by id (downstream),
// in sorted order.
func (g *Graph) Successors(id string) []string {
	return copySorted(g.out[id])
}

// InDegree returns the number of upstream suppliers of id.
func (g *Graph) InDegree(id string) int { return len(g.in[id]) }

// OutDegree returns the number of downstream suppliers of id.
func (g *Graph) OutDegree(id string) int { return len(g.out[id]) }

// TierIDs returns the ids of all suppliers in the given tier, sorted.
func (g *Graph) TierIDs(tier int) []string {
	var ids []string
	for _, id := range g.order {
		if g.nodes[id].Tier == tier {
			ids = append(ids, id)
		}
	}
	return ids
}

// RegionIDs returns the ids of all suppliers in the given region, sorted.
func (g *Graph) RegionIDs(region string) []string {
	var ids []string
	for _, id := range g.order {
		if g.nodes[id].Region == region {
			ids = append(ids, id)
		}
	}
	return ids
}

// HasRegion reports whether any supplier belongs to the region.
func (g *Graph) HasRegion(region string) bool {
	for _, id := range g.order {
		if g.nodes[id].Region == region {
			return true
		}
	}
	return false
}

func copySorted(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
