package risk

import (
	"fmt"
	"sort"

	"github.com/chainsight-io/chainsight/pkg/graph"
	"github.com/chainsight-io/chainsight/pkg/model"
)

// A supplier with no backup is a single point of failure when any of:
//
//	(a) its propagated risk exceeds the configured threshold
//	(b) some downstream node sources exclusively from it (in-degree 1)
//	(c) removing it severs every remaining path from any tier-3 node
//	    to any tier-1 node
//
// Suppliers with a backup are never SPOFs, regardless of risk or topology.

// SPOFSet holds the detected single points of failure for one run.
type SPOFSet struct {
	flagged map[string]string // supplier id -> reason
	g       *graph.Graph
	prop    *Propagated
	reach   *graph.Reach
}

// SPOFImpact describes the blast radius if one SPOF fails.
type SPOFImpact struct {
	SupplierID       string  `json:"supplier_id"`
	Name             string  `json:"name"`
	Reason           string  `json:"reason"`
	DirectDownstream int     `json:"direct_downstream"`
	TotalAffected    int     `json:"total_affected"`
	Tier1Affected    int     `json:"tier1_affected"`
	Tier2Affected    int     `json:"tier2_affected"`
	Tier3Affected    int     `json:"tier3_affected"`
	ContractAtRisk   float64 `json:"contract_value_at_risk"`
}

// DetectSPOFs flags every single point of failure in the graph.
func DetectSPOFs(g *graph.Graph, prop *Propagated, reach *graph.Reach, cfg *Config) *SPOFSet {
	set := &SPOFSet{
		flagged: make(map[string]string),
		g:       g,
		prop:    prop,
		reach:   reach,
	}

	for _, id := range g.NodeIDs() {
		node, _ := g.Node(id)
		if node.HasBackup {
			continue
		}
		if reason := set.spofReason(id, cfg); reason != "" {
			set.flagged[id] = reason
		}
	}
	return set
}

// spofReason returns a human-readable reason if the node is a SPOF,
// or "" if it is not. Conditions are checked cheapest first.
func (s *SPOFSet) spofReason(id string, cfg *Config) string {
	propagated := s.prop.Value(id)
	if propagated > cfg.SPOFRiskThreshold {
		return fmt.Sprintf("high risk (%.1f) with no backup", propagated)
	}

	for _, target := range s.g.Successors(id) {
		if s.g.InDegree(target) == 1 {
			targetNode, _ := s.g.Node(target)
			return fmt.Sprintf("only supplier for %s (tier-%d)", target, targetNode.Tier)
		}
	}

	if s.removalDisconnects(id) {
		return "removal would sever all raw-material-to-assembly paths"
	}
	return ""
}

// removalDisconnects tests whether deleting the node leaves no path from any
// remaining tier-3 node to any remaining tier-1 node.
func (s *SPOFSet) removalDisconnects(removed string) bool {
	tier1 := s.g.TierIDs(model.TierAssembly)
	tier3 := s.g.TierIDs(model.TierRawMaterial)

	sawPair := false
	for _, t3 := range tier3 {
		if t3 == removed {
			continue
		}
		for _, t1 := range tier1 {
			if t1 == removed {
				continue
			}
			sawPair = true
			if s.g.PathExistsAvoiding(t3, t1, removed) {
				return false
			}
		}
	}
	return sawPair
}

// IsSPOF reports whether the supplier is flagged.
func (s *SPOFSet) IsSPOF(id string) bool {
	_, ok := s.flagged[id]
	return ok
}

// Reason returns why the supplier was flagged, or "" if it was not.
func (s *SPOFSet) Reason(id string) string { return s.flagged[id] }

// IDs returns all flagged supplier ids in sorted order.
func (s *SPOFSet) IDs() []string {
	ids := make([]string, 0, len(s.flagged))
	for id := range s.flagged {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of flagged suppliers.
func (s *SPOFSet) Count() int { return len(s.flagged) }

// Impact computes the blast radius for one flagged supplier: descendant
// counts by tier plus the total contract value of the affected subtree.
// Returns graph.ErrNodeNotFound if id is not a flagged SPOF.
func (s *SPOFSet) Impact(id string) (*SPOFImpact, error) {
	reason, ok := s.flagged[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a flagged SPOF", graph.ErrNodeNotFound, id)
	}
	node, _ := s.g.Node(id)

	impact := &SPOFImpact{
		SupplierID:       id,
		Name:             node.Name,
		Reason:           reason,
		DirectDownstream: s.g.OutDegree(id),
		ContractAtRisk:   node.ContractValue,
	}

	descendants := s.reach.Descendants(id)
	impact.TotalAffected = len(descendants)
	for _, desc := range descendants {
		descNode, _ := s.g.Node(desc)
		impact.ContractAtRisk += descNode.ContractValue
		switch descNode.Tier {
		case model.TierAssembly:
			impact.Tier1Affected++
		case model.TierComponent:
			impact.Tier2Affected++
		case model.TierRawMaterial:
			impact.Tier3Affected++
		}
	}
	return impact, nil
}

// Impacts returns impact reports for every flagged supplier, sorted by total
// affected descendants descending, ties by id.
func (s *SPOFSet) Impacts() []*SPOFImpact {
	reports := make([]*SPOFImpact, 0, len(s.flagged))
	for _, id := range s.IDs() {
		impact, _ := s.Impact(id)
		reports = append(reports, impact)
	}
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].TotalAffected != reports[j].TotalAffected {
			return reports[i].TotalAffected > reports[j].TotalAffected
		}
		return reports[i].SupplierID < reports[j].SupplierID
	})
	return reports
}
