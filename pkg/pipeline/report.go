package pipeline

import (
	"github.com/chainsight-io/chainsight/pkg/model"
	"github.com/chainsight-io/chainsight/pkg/risk"
)

// SupplierReport is the fully annotated view of one supplier: master data
// plus every score the pipeline attached.
type SupplierReport struct {
	SupplierID    string  `json:"supplier_id"`
	Name          string  `json:"name"`
	Tier          int     `json:"tier"`
	Component     string  `json:"component"`
	Country       string  `json:"country"`
	CountryCode   string  `json:"country_code"`
	Region        string  `json:"region"`
	ContractValue float64 `json:"contract_value_eur_m"`
	HasBackup     bool    `json:"has_backup"`

	GeopoliticalRisk  float64 `json:"geopolitical_risk"`
	DisasterRisk      float64 `json:"disaster_risk"`
	FinancialRisk     float64 `json:"financial_risk"`
	LogisticsRisk     float64 `json:"logistics_risk"`
	ConcentrationRisk float64 `json:"concentration_risk"`

	CompositeScore  float64        `json:"composite_score"`
	PropagatedScore float64        `json:"propagated_score"`
	Category        model.Category `json:"risk_category"`

	IsSPOF     bool   `json:"is_spof"`
	SPOFReason string `json:"spof_reason,omitempty"`
}

// Report returns the annotated view of one supplier.
func (r *Run) Report(id string) (*SupplierReport, error) {
	node, err := r.g.Node(id)
	if err != nil {
		return nil, err
	}
	s := r.scores[id]
	propagated := r.prop.Value(id)

	return &SupplierReport{
		SupplierID:    node.ID,
		Name:          node.Name,
		Tier:          node.Tier,
		Component:     node.Component,
		Country:       node.Country,
		CountryCode:   node.CountryCode,
		Region:        node.Region,
		ContractValue: node.ContractValue,
		HasBackup:     node.HasBackup,

		GeopoliticalRisk:  s.Geopolitical,
		DisasterRisk:      s.NaturalDisaster,
		FinancialRisk:     s.Financial,
		LogisticsRisk:     s.Logistics,
		ConcentrationRisk: s.Concentration,

		CompositeScore:  s.Composite,
		PropagatedScore: propagated,
		Category:        model.CategoryFor(propagated),

		IsSPOF:     r.spofs.IsSPOF(id),
		SPOFReason: r.spofs.Reason(id),
	}, nil
}

// Reports returns the annotated view of every supplier in id order.
func (r *Run) Reports() []*SupplierReport {
	out := make([]*SupplierReport, 0, r.g.NodeCount())
	for _, id := range r.g.NodeIDs() {
		report, _ := r.Report(id)
		out = append(out, report)
	}
	return out
}

// CategoryCounts tallies suppliers per risk category of the propagated score.
func (r *Run) CategoryCounts() map[model.Category]int {
	counts := make(map[model.Category]int, 4)
	for _, id := range r.g.NodeIDs() {
		counts[model.CategoryFor(r.prop.Value(id))]++
	}
	return counts
}

// Config returns the risk configuration the run was built with.
func (r *Run) Config() *risk.Config { return r.cfg }
