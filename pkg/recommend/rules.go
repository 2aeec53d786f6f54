// Package recommend turns a fully annotated supplier graph into a
// prioritized, rule-based action list plus an executive summary.
package recommend

import (
	"fmt"
	"sort"

	"github.com/chainsight-io/chainsight/pkg/graph"
	"github.com/chainsight-io/chainsight/pkg/risk"
)

// Severity orders recommendations. Lower rank = more urgent.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityWatch    Severity = "WATCH"
)

// severityRank maps severities to sort order.
func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityWatch:
		return 3
	default:
		return 4
	}
}

// Rule identifiers. Rules are independent and non-exclusive: one supplier can
// trigger several.
const (
	RuleCriticalNoBackup   = "R1_CRITICAL_NO_BACKUP"
	RuleSPOFHighRisk       = "R2_SPOF_HIGH_RISK"
	RuleHighValueNoBackup  = "R3_HIGH_VALUE_NO_BACKUP"
	RuleFinancialHealth    = "R4_FINANCIAL_HEALTH"
	RuleMediumRiskNoBackup = "R5_MEDIUM_RISK_NO_BACKUP"
)

// Rule thresholds.
const (
	criticalRiskThreshold = 75
	highRiskThreshold     = 55
	mediumRiskThreshold   = 45
	highValueThreshold    = 2.0 // contract value, EUR millions
	lowFinancialHealth    = 35
	spofImpactMultiplier  = 1.5
	highValueImpactFactor = 10
)

// Recommendation is one prioritized action for one supplier.
type Recommendation struct {
	SupplierID     string   `json:"supplier_id"`
	SupplierName   string   `json:"supplier_name"`
	Tier           int      `json:"tier"`
	Country        string   `json:"country"`
	Component      string   `json:"component"`
	Rule           string   `json:"rule"`
	Severity       Severity `json:"severity"`
	Action         string   `json:"action"`
	Reason         string   `json:"reason"`
	Timeline       string   `json:"timeline"`
	ImpactScore    float64  `json:"impact_score"`
	PropagatedRisk float64  `json:"propagated_risk"`
	ContractValue  float64  `json:"contract_value"`
}

// Engine evaluates the rule set against one run's annotations.
type Engine struct {
	g     *graph.Graph
	prop  *risk.Propagated
	spofs *risk.SPOFSet
}

// NewEngine wires a recommendation engine over one run.
func NewEngine(g *graph.Graph, prop *risk.Propagated, spofs *risk.SPOFSet) *Engine {
	return &Engine{g: g, prop: prop, spofs: spofs}
}

// Generate evaluates every rule against every supplier. The result is sorted
// by severity rank, then impact score descending, then supplier id, so the
// list is a deterministic priority order.
func (e *Engine) Generate() []Recommendation {
	var recs []Recommendation
	for _, id := range e.g.NodeIDs() {
		recs = append(recs, e.forSupplier(id)...)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		ri, rj := severityRank(recs[i].Severity), severityRank(recs[j].Severity)
		if ri != rj {
			return ri < rj
		}
		if recs[i].ImpactScore != recs[j].ImpactScore {
			return recs[i].ImpactScore > recs[j].ImpactScore
		}
		return recs[i].SupplierID < recs[j].SupplierID
	})
	return recs
}

// forSupplier fires every matching rule for one supplier. Impact scores are
// rule-specific and only meaningful for ordering within a severity band.
func (e *Engine) forSupplier(id string) []Recommendation {
	node, _ := e.g.Node(id)
	propagated := e.prop.Value(id)
	var recs []Recommendation

	if propagated >= criticalRiskThreshold && !node.HasBackup {
		recs = append(recs, e.newRec(node, propagated, RuleCriticalNoBackup, SeverityCritical,
			fmt.Sprintf("Qualify alternative supplier immediately for %s", node.Component),
			fmt.Sprintf("CRITICAL risk (%.1f) with no backup supplier", propagated),
			"0-30 days",
			propagated*node.ContractValue))
	}

	if e.spofs.IsSPOF(id) && propagated >= highRiskThreshold {
		recs = append(recs, e.newRec(node, propagated, RuleSPOFHighRisk, SeverityHigh,
			fmt.Sprintf("Establish dual-sourcing for %s", node.Component),
			fmt.Sprintf("Single point of failure with HIGH risk (%.1f)", propagated),
			"30-60 days",
			propagated*node.ContractValue*spofImpactMultiplier))
	}

	if propagated >= highRiskThreshold && node.ContractValue >= highValueThreshold && !node.HasBackup {
		recs = append(recs, e.newRec(node, propagated, RuleHighValueNoBackup, SeverityHigh,
			fmt.Sprintf("Establish backup for high-value dependency: %s", node.Component),
			fmt.Sprintf("EUR %.1fM contract + HIGH risk (%.1f) + no backup", node.ContractValue, propagated),
			"30-60 days",
			node.ContractValue*highValueImpactFactor))
	}

	if node.FinancialHealth < lowFinancialHealth {
		recs = append(recs, e.newRec(node, propagated, RuleFinancialHealth, SeverityWatch,
			fmt.Sprintf("Monitor supplier financial stability for %s", node.Component),
			fmt.Sprintf("Low financial health score (%.0f)", node.FinancialHealth),
			"Ongoing",
			node.ContractValue))
	}

	if propagated >= mediumRiskThreshold && propagated < highRiskThreshold && !node.HasBackup {
		recs = append(recs, e.newRec(node, propagated, RuleMediumRiskNoBackup, SeverityMedium,
			fmt.Sprintf("Consider backup qualification for %s", node.Component),
			fmt.Sprintf("MEDIUM risk (%.1f) with no backup", propagated),
			"60-90 days",
			propagated))
	}

	return recs
}

func (e *Engine) newRec(node *graph.Node, propagated float64, rule string, severity Severity, action, reason, timeline string, impact float64) Recommendation {
	return Recommendation{
		SupplierID:     node.ID,
		SupplierName:   node.Name,
		Tier:           node.Tier,
		Country:        node.Country,
		Component:      node.Component,
		Rule:           rule,
		Severity:       severity,
		Action:         action,
		Reason:         reason,
		Timeline:       timeline,
		ImpactScore:    impact,
		PropagatedRisk: propagated,
		ContractValue:  node.ContractValue,
	}
}
