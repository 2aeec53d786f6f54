package recommend

import (
	"fmt"
	"sort"

	"github.com/chainsight-io/chainsight/pkg/model"
)

// regionalConcentrationLimit is the share of tier-1/2 suppliers in a single
// region above which diversification is recommended.
const regionalConcentrationLimit = 40.0

// RegionalFinding flags one over-concentrated region.
type RegionalFinding struct {
	Region        string   `json:"region"`
	Severity      Severity `json:"severity"`
	Concentration float64  `json:"concentration_percent"`
	SupplierCount int      `json:"supplier_count"`
	Action        string   `json:"action"`
	Reason        string   `json:"reason"`
	Timeline      string   `json:"timeline"`
}

// Regional flags every region holding more than 40% of the tier-1/2 supplier
// base. Findings come back sorted by concentration descending, ties by
// region name.
func (e *Engine) Regional() []RegionalFinding {
	counts := make(map[string]int)
	total := 0
	for _, id := range e.g.NodeIDs() {
		node, _ := e.g.Node(id)
		if node.Tier == model.TierAssembly || node.Tier == model.TierComponent {
			counts[node.Region]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	var findings []RegionalFinding
	for region, count := range counts {
		concentration := float64(count) / float64(total) * 100
		if concentration <= regionalConcentrationLimit {
			continue
		}
		findings = append(findings, RegionalFinding{
			Region:        region,
			Severity:      SeverityMedium,
			Concentration: concentration,
			SupplierCount: count,
			Action:        fmt.Sprintf("Diversify sourcing away from %s", region),
			Reason:        fmt.Sprintf("%.1f%% of tier-1/2 suppliers concentrated in %s", concentration, region),
			Timeline:      "60-90 days",
		})
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Concentration != findings[j].Concentration {
			return findings[i].Concentration > findings[j].Concentration
		}
		return findings[i].Region < findings[j].Region
	})
	return findings
}
