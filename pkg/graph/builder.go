package graph

import (
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/chainsight-io/chainsight/pkg/model"
)

// validate is a singleton validator instance for record schemas.
var validate = validator.New()

// Build validates the input tables and constructs the supplier graph.
//
// The build is all-or-nothing. It fails with a *ValidationError when:
//   - any record violates its schema (tier range, score ranges, empty ids)
//   - a supplier id appears twice
//   - a dependency references a supplier that does not exist
//   - a supplier's country code is missing from the country table
//   - an edge does not run from a higher tier to a lower one
//   - the dependency graph contains a cycle
//
// Country fields are copied by value into each node so later mutation of the
// shared table cannot corrupt a built graph.
func Build(suppliers []model.Supplier, deps []model.Dependency, countries map[string]model.CountryRisk) (*Graph, error) {
	g := &Graph{
		nodes: make(map[string]*Node, len(suppliers)),
		out:   make(map[string][]string),
		in:    make(map[string][]string),
	}

	for i := range suppliers {
		s := &suppliers[i]
		if err := validate.Struct(s); err != nil {
			return nil, validationErr(ErrMalformedSchema, s.ID, firstBadField(err), "supplier record rejected: %v", err)
		}
		if _, exists := g.nodes[s.ID]; exists {
			return nil, validationErr(ErrDuplicateID, s.ID, "", "supplier id declared more than once")
		}
		country, ok := countries[s.CountryCode]
		if !ok {
			return nil, validationErr(ErrUnknownCountry, s.ID, "country_code", "country %q not in risk table", s.CountryCode)
		}
		g.nodes[s.ID] = newNode(s, country)
		g.order = append(g.order, s.ID)
	}
	sort.Strings(g.order)

	for i := range deps {
		d := &deps[i]
		if err := validate.Struct(d); err != nil {
			return nil, validationErr(ErrMalformedSchema, d.SourceID, firstBadField(err), "dependency record rejected: %v", err)
		}
		src, ok := g.nodes[d.SourceID]
		if !ok {
			return nil, validationErr(ErrMissingReference, d.SourceID, "source_id", "dependency source does not exist")
		}
		dst, ok := g.nodes[d.TargetID]
		if !ok {
			return nil, validationErr(ErrMissingReference, d.TargetID, "target_id", "dependency target does not exist")
		}
		// Material flows down the tiers: raw material toward assembly.
		if src.Tier <= dst.Tier {
			return nil, validationErr(ErrMalformedSchema, d.SourceID, "tier",
				"edge runs tier-%d -> tier-%d; edges must run from higher tiers to lower ones", src.Tier, dst.Tier)
		}
		g.edges = append(g.edges, Edge{From: d.SourceID, To: d.TargetID, Weight: d.Weight})
		g.out[d.SourceID] = append(g.out[d.SourceID], d.TargetID)
		g.in[d.TargetID] = append(g.in[d.TargetID], d.SourceID)
	}

	// Tier ordering already rules cycles out, but a direct check keeps the
	// DAG post-condition independent of the tier invariant.
	if cycle := findCycle(g); cycle != nil {
		return nil, validationErr(ErrCyclicGraph, cycle[0], "", "cycle: %v", cycle)
	}

	return g, nil
}

func newNode(s *model.Supplier, c model.CountryRisk) *Node {
	return &Node{
		ID:              s.ID,
		Name:            s.Name,
		Tier:            s.Tier,
		Component:       s.Component,
		Country:         s.Country,
		CountryCode:     s.CountryCode,
		Region:          s.Region,
		ContractValue:   s.ContractValue,
		LeadTimeDays:    s.LeadTimeDays,
		FinancialHealth: s.FinancialHealth,
		PastDisruptions: s.PastDisruptions,
		HasBackup:       s.HasBackup,

		PoliticalStability:   c.PoliticalStability,
		NaturalDisasterFreq:  c.NaturalDisasterFreq,
		LogisticsPerformance: c.LogisticsPerformance,
		TradeRestrictionRisk: c.TradeRestrictionRisk,
	}
}

// firstBadField extracts the first failing field name from a validator error.
func firstBadField(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return verrs[0].Field()
	}
	return ""
}
