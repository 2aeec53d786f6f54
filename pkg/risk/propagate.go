package risk

import (
	"sort"

	"github.com/chainsight-io/chainsight/pkg/graph"
)

// Propagation results: every supplier's composite risk adjusted upward by
// inherited upstream risk. Tier-3 nodes (no upstream) keep their composite
// unchanged; everything else takes
//
//	max(composite, own*composite + inherited*mean(upstream propagated))
//
// The max guarantees propagated >= composite for every node.

// Propagated holds the cascaded risk values plus the inputs needed for
// drill-down queries.
type Propagated struct {
	values          map[string]float64
	scores          map[string]Scores
	g               *graph.Graph
	hiddenThreshold float64
}

// Increase is one row of the biggest-increase ranking.
type Increase struct {
	SupplierID string  `json:"supplier_id"`
	Composite  float64 `json:"composite"`
	Propagated float64 `json:"propagated"`
	Increase   float64 `json:"increase"`
}

// PathStep is one node in a risk path trace.
type PathStep struct {
	SupplierID string  `json:"supplier_id"`
	Name       string  `json:"name"`
	Tier       int     `json:"tier"`
	Composite  float64 `json:"composite"`
	Propagated float64 `json:"propagated"`
}

// Propagate cascades composite risk through the network. Nodes are processed
// in topological order, so every node's upstream values are final before the
// node itself is computed. This holds for any DAG shape, not just the
// canonical three-tier layout.
func Propagate(g *graph.Graph, scores map[string]Scores, cfg *Config) (*Propagated, error) {
	order, err := graph.TopologicalOrder(g)
	if err != nil {
		return nil, err
	}

	values := make(map[string]float64, len(order))
	for _, id := range order {
		own := scores[id].Composite
		upstream := g.Predecessors(id)
		if len(upstream) == 0 {
			values[id] = own
			continue
		}

		sum := 0.0
		for _, up := range upstream {
			sum += values[up]
		}
		inherited := sum / float64(len(upstream))

		blended := own*cfg.Propagation.Own + inherited*cfg.Propagation.Inherited
		if blended < own {
			blended = own
		}
		values[id] = blended
	}

	return &Propagated{
		values:          values,
		scores:          scores,
		g:               g,
		hiddenThreshold: cfg.HiddenVulnThreshold,
	}, nil
}

// Value returns the propagated risk for one supplier.
func (p *Propagated) Value(id string) float64 {
	return p.values[id]
}

// Values returns a copy of the full annotation map.
func (p *Propagated) Values() map[string]float64 {
	out := make(map[string]float64, len(p.values))
	for id, v := range p.values {
		out[id] = v
	}
	return out
}

// TopIncreases returns the n suppliers whose risk grew the most under
// propagation, descending by increase, ties broken by id.
func (p *Propagated) TopIncreases(n int) []Increase {
	rows := make([]Increase, 0, len(p.values))
	for _, id := range p.g.NodeIDs() {
		composite := p.scores[id].Composite
		rows = append(rows, Increase{
			SupplierID: id,
			Composite:  composite,
			Propagated: p.values[id],
			Increase:   p.values[id] - composite,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Increase != rows[j].Increase {
			return rows[i].Increase > rows[j].Increase
		}
		return rows[i].SupplierID < rows[j].SupplierID
	})
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return rows
}

// HiddenVulnerabilities returns suppliers that look safe on their own numbers
// but are pushed over the threshold by inherited risk: composite below the
// threshold, propagated at or above it. Sorted by increase descending,
// ties by id.
func (p *Propagated) HiddenVulnerabilities() []Increase {
	threshold := p.hiddenThreshold
	var rows []Increase
	for _, id := range p.g.NodeIDs() {
		composite := p.scores[id].Composite
		propagated := p.values[id]
		if composite < threshold && propagated >= threshold {
			rows = append(rows, Increase{
				SupplierID: id,
				Composite:  composite,
				Propagated: propagated,
				Increase:   propagated - composite,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Increase != rows[j].Increase {
			return rows[i].Increase > rows[j].Increase
		}
		return rows[i].SupplierID < rows[j].SupplierID
	})
	return rows
}

// TracePath returns the supplier plus its direct upstream sources with both
// scores, for drill-down on where inherited risk comes from.
func (p *Propagated) TracePath(id string) ([]PathStep, error) {
	node, err := p.g.Node(id)
	if err != nil {
		return nil, err
	}

	path := []PathStep{{
		SupplierID: node.ID,
		Name:       node.Name,
		Tier:       node.Tier,
		Composite:  p.scores[id].Composite,
		Propagated: p.values[id],
	}}
	for _, up := range p.g.Predecessors(id) {
		upNode, _ := p.g.Node(up)
		path = append(path, PathStep{
			SupplierID: upNode.ID,
			Name:       upNode.Name,
			Tier:       upNode.Tier,
			Composite:  p.scores[up].Composite,
			Propagated: p.values[up],
		})
	}
	return path, nil
}

