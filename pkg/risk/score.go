package risk

import (
	"math"

	"github.com/chainsight-io/chainsight/pkg/graph"
	"github.com/chainsight-io/chainsight/pkg/model"
)

// Scores is the per-supplier risk breakdown. All dimensions are 0-100,
// higher meaning riskier.
type Scores struct {
	Geopolitical    float64        `json:"geopolitical"`
	NaturalDisaster float64        `json:"natural_disaster"`
	Financial       float64        `json:"financial"`
	Logistics       float64        `json:"logistics"`
	Concentration   float64        `json:"concentration"`
	Composite       float64        `json:"composite"`
	Category        model.Category `json:"category"`
}

// ScoreAll computes the five risk dimensions and the weighted composite for
// every supplier. The graph is not mutated; results come back as an
// annotation map keyed by supplier id.
func ScoreAll(g *graph.Graph, cfg *Config) map[string]Scores {
	scores := make(map[string]Scores, g.NodeCount())

	for _, id := range g.NodeIDs() {
		node, _ := g.Node(id)

		s := Scores{
			Geopolitical:    node.PoliticalStability,
			NaturalDisaster: node.NaturalDisasterFreq,
			Financial:       100 - node.FinancialHealth,
			Logistics:       100 - node.LogisticsPerformance,
			Concentration:   concentrationRisk(cfg, node.Tier, g.InDegree(id)),
		}

		w := cfg.Weights
		composite := s.Geopolitical*w.Geopolitical +
			s.NaturalDisaster*w.NaturalDisaster +
			s.Financial*w.Financial +
			s.Logistics*w.Logistics +
			s.Concentration*w.Concentration

		s.Composite = clamp(composite, 0, 100)
		s.Category = model.CategoryFor(s.Composite)
		scores[id] = s
	}

	return scores
}

// concentrationRisk is a step function of the upstream supplier count.
// A node with at most one upstream source is heavily concentrated; each
// additional source reduces the risk down to a floor.
func concentrationRisk(cfg *Config, tier, upstreamCount int) float64 {
	c := cfg.Concentration
	if upstreamCount <= 1 {
		if tier == model.TierAssembly {
			return c.Tier1Single
		}
		return c.Tier23Single
	}
	return math.Max(c.Base, c.Tier23Single-float64(upstreamCount)*c.ReductionPerSupplier)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
