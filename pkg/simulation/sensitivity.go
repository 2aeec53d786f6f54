package simulation

import (
	"sort"
	"sync"

	"github.com/chainsight-io/chainsight/pkg/bom"
	"github.com/chainsight-io/chainsight/pkg/graph"
	"github.com/chainsight-io/chainsight/pkg/model"
	"github.com/chainsight-io/chainsight/pkg/risk"
)

// CriticalityRow is one supplier in the criticality ranking.
// Criticality = (propagated risk / 100) × total revenue exposure.
type CriticalityRow struct {
	Rank             int            `json:"rank"`
	SupplierID       string         `json:"supplier_id"`
	Name             string         `json:"name"`
	Tier             int            `json:"tier"`
	Country          string         `json:"country"`
	Component        string         `json:"component"`
	ContractValue    float64        `json:"contract_value_eur_m"`
	PropagatedRisk   float64        `json:"propagated_risk"`
	RiskCategory     model.Category `json:"risk_category"`
	DirectExposure   float64        `json:"direct_revenue_exposure"`
	IndirectExposure float64        `json:"indirect_revenue_exposure"`
	TotalExposure    float64        `json:"total_revenue_exposure"`
	Criticality      float64        `json:"criticality_score"`
	AffectedProducts int            `json:"affected_products"`
	DownstreamCount  int            `json:"downstream_suppliers"`
}

// Pareto describes how concentrated criticality is across the supplier base.
type Pareto struct {
	TotalSuppliers   int     `json:"total_suppliers"`
	TotalCriticality float64 `json:"total_criticality"`
	// CountTo50 is the smallest supplier count whose cumulative criticality
	// crosses 50% of the total; CountTo80 likewise for 80%.
	CountTo50  int     `json:"suppliers_to_50_percent"`
	CountTo80  int     `json:"suppliers_to_80_percent"`
	Top10Share float64 `json:"top_10_share_percent"`
}

// Analyzer ranks suppliers by criticality against one run's annotations.
type Analyzer struct {
	g     *graph.Graph
	bom   *bom.Index
	prop  *risk.Propagated
	reach *graph.Reach

	rankOnce sync.Once
	ranking  []CriticalityRow // computed once per run
}

// NewAnalyzer wires a sensitivity analyzer over one run.
func NewAnalyzer(g *graph.Graph, idx *bom.Index, prop *risk.Propagated, reach *graph.Reach) *Analyzer {
	return &Analyzer{g: g, bom: idx, prop: prop, reach: reach}
}

// Ranking returns every supplier ordered by criticality descending, ties
// broken by id ascending. The ordering is a deterministic total order for a
// fixed graph. The returned slice is shared; callers must not modify it.
func (a *Analyzer) Ranking() []CriticalityRow {
	a.rankOnce.Do(a.computeRanking)
	return a.ranking
}

func (a *Analyzer) computeRanking() {
	rows := make([]CriticalityRow, 0, a.g.NodeCount())
	for _, id := range a.g.NodeIDs() {
		node, _ := a.g.Node(id)
		exposure := a.bom.ExposureOf(id, a.reach)
		propagated := a.prop.Value(id)

		rows = append(rows, CriticalityRow{
			SupplierID:       id,
			Name:             node.Name,
			Tier:             node.Tier,
			Country:          node.Country,
			Component:        node.Component,
			ContractValue:    node.ContractValue,
			PropagatedRisk:   propagated,
			RiskCategory:     model.CategoryFor(propagated),
			DirectExposure:   exposure.Direct,
			IndirectExposure: exposure.Indirect,
			TotalExposure:    exposure.Total,
			Criticality:      propagated / 100.0 * exposure.Total,
			AffectedProducts: exposure.AffectedProducts,
			DownstreamCount:  exposure.DownstreamCount,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Criticality != rows[j].Criticality {
			return rows[i].Criticality > rows[j].Criticality
		}
		return rows[i].SupplierID < rows[j].SupplierID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	a.ranking = rows
}

// TopCritical returns the first n rows of the ranking.
func (a *Analyzer) TopCritical(n int) []CriticalityRow {
	ranking := a.Ranking()
	if n > len(ranking) {
		n = len(ranking)
	}
	return ranking[:n]
}

// ParetoAnalysis computes how few suppliers carry half and 80% of the total
// criticality, plus the top-10 share.
func (a *Analyzer) ParetoAnalysis() Pareto {
	ranking := a.Ranking()

	total := 0.0
	for _, row := range ranking {
		total += row.Criticality
	}

	p := Pareto{
		TotalSuppliers:   len(ranking),
		TotalCriticality: total,
	}
	if total == 0 {
		return p
	}

	cumulative := 0.0
	for i, row := range ranking {
		cumulative += row.Criticality
		share := cumulative / total * 100
		if p.CountTo50 == 0 && share >= 50 {
			p.CountTo50 = i + 1
		}
		if p.CountTo80 == 0 && share >= 80 {
			p.CountTo80 = i + 1
		}
		if i < 10 {
			p.Top10Share = cumulative / total * 100
		}
	}
	return p
}
