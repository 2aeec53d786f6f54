package graph

import (
	"errors"
	"reflect"
	"testing"

	"github.com/chainsight-io/chainsight/pkg/model"
)

func testCountries() map[string]model.CountryRisk {
	return map[string]model.CountryRisk{
		"DE": {Country: "Germany", CountryCode: "DE", PoliticalStability: 18, NaturalDisasterFreq: 22, LogisticsPerformance: 92, TradeRestrictionRisk: 15},
		"TW": {Country: "Taiwan", CountryCode: "TW", PoliticalStability: 40, NaturalDisasterFreq: 65, LogisticsPerformance: 84, TradeRestrictionRisk: 42},
	}
}

func testSupplier(id string, tier int) model.Supplier {
	return model.Supplier{
		ID:              id,
		Name:            "Supplier " + id,
		Tier:            tier,
		Component:       "component-" + id,
		Country:         "Germany",
		CountryCode:     "DE",
		Region:          "Europe",
		ContractValue:   1.5,
		LeadTimeDays:    30,
		FinancialHealth: 80,
	}
}

func dep(src, dst string) model.Dependency {
	return model.Dependency{SourceID: src, TargetID: dst, Weight: 100}
}

func TestBuildValidChain(t *testing.T) {
	suppliers := []model.Supplier{
		testSupplier("raw", 3),
		testSupplier("mid", 2),
		testSupplier("asm", 1),
	}
	deps := []model.Dependency{dep("raw", "mid"), dep("mid", "asm")}

	g, err := Build(suppliers, deps, testCountries())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}
	if got := g.Predecessors("asm"); !reflect.DeepEqual(got, []string{"mid"}) {
		t.Errorf("Predecessors(asm) = %v, want [mid]", got)
	}
	if got := g.Successors("raw"); !reflect.DeepEqual(got, []string{"mid"}) {
		t.Errorf("Successors(raw) = %v, want [mid]", got)
	}
	if got := g.NodeIDs(); !reflect.DeepEqual(got, []string{"asm", "mid", "raw"}) {
		t.Errorf("NodeIDs = %v, want sorted ids", got)
	}
}

func TestBuildSkipTierEdgeAllowed(t *testing.T) {
	// Raw material feeding assembly directly is legal: material only has to
	// flow toward lower tiers, not visit every tier in between.
	suppliers := []model.Supplier{testSupplier("raw", 3), testSupplier("asm", 1)}
	if _, err := Build(suppliers, []model.Dependency{dep("raw", "asm")}, testCountries()); err != nil {
		t.Fatalf("tier-3 to tier-1 edge rejected: %v", err)
	}
}

func TestBuildCopiesCountryByValue(t *testing.T) {
	countries := testCountries()
	g, err := Build([]model.Supplier{testSupplier("a", 1)}, nil, countries)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	countries["DE"] = model.CountryRisk{CountryCode: "DE", PoliticalStability: 99}

	node, _ := g.Node("a")
	if node.PoliticalStability != 18 {
		t.Errorf("node saw mutated country table: PoliticalStability = %v, want 18", node.PoliticalStability)
	}
}

func TestBuildRejections(t *testing.T) {
	tests := []struct {
		name      string
		suppliers []model.Supplier
		deps      []model.Dependency
		wantErr   error
	}{
		{
			name:      "duplicate id",
			suppliers: []model.Supplier{testSupplier("a", 1), testSupplier("a", 2)},
			wantErr:   ErrDuplicateID,
		},
		{
			name: "unknown country",
			suppliers: func() []model.Supplier {
				s := testSupplier("a", 1)
				s.CountryCode = "XX"
				return []model.Supplier{s}
			}(),
			wantErr: ErrUnknownCountry,
		},
		{
			name:      "dangling dependency source",
			suppliers: []model.Supplier{testSupplier("a", 1)},
			deps:      []model.Dependency{dep("ghost", "a")},
			wantErr:   ErrMissingReference,
		},
		{
			name:      "dangling dependency target",
			suppliers: []model.Supplier{testSupplier("a", 2)},
			deps:      []model.Dependency{dep("a", "ghost")},
			wantErr:   ErrMissingReference,
		},
		{
			name:      "edge against tier direction",
			suppliers: []model.Supplier{testSupplier("asm", 1), testSupplier("mid", 2)},
			deps:      []model.Dependency{dep("asm", "mid")},
			wantErr:   ErrMalformedSchema,
		},
		{
			name:      "edge within one tier",
			suppliers: []model.Supplier{testSupplier("a", 2), testSupplier("b", 2)},
			deps:      []model.Dependency{dep("a", "b")},
			wantErr:   ErrMalformedSchema,
		},
		{
			name: "tier out of range",
			suppliers: func() []model.Supplier {
				s := testSupplier("a", 1)
				s.Tier = 5
				return []model.Supplier{s}
			}(),
			wantErr: ErrMalformedSchema,
		},
		{
			name: "financial health above 100",
			suppliers: func() []model.Supplier {
				s := testSupplier("a", 1)
				s.FinancialHealth = 120
				return []model.Supplier{s}
			}(),
			wantErr: ErrMalformedSchema,
		},
		{
			name:      "dependency weight out of range",
			suppliers: []model.Supplier{testSupplier("raw", 3), testSupplier("asm", 1)},
			deps:      []model.Dependency{{SourceID: "raw", TargetID: "asm", Weight: 150}},
			wantErr:   ErrMalformedSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.suppliers, tt.deps, testCountries())
			if err == nil {
				t.Fatal("Build succeeded, want error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error is not a *ValidationError: %T", err)
			}
		})
	}
}

func TestFindCycleDetectsManualCycle(t *testing.T) {
	// The tier rule keeps Build from ever producing a cycle, so the detector
	// is exercised on a hand-assembled graph.
	g := &Graph{
		nodes: map[string]*Node{"a": {ID: "a"}, "b": {ID: "b"}, "c": {ID: "c"}},
		order: []string{"a", "b", "c"},
		out:   map[string][]string{"a": {"b"}, "b": {"c"}, "c": {"a"}},
		in:    map[string][]string{"b": {"a"}, "c": {"b"}, "a": {"c"}},
	}
	cycle := findCycle(g)
	if cycle == nil {
		t.Fatal("findCycle returned nil for a cyclic graph")
	}
	if len(cycle) < 3 {
		t.Errorf("cycle = %v, want at least 3 nodes", cycle)
	}
}

func TestFindCycleNilOnDAG(t *testing.T) {
	g, err := Build(
		[]model.Supplier{testSupplier("raw", 3), testSupplier("mid", 2), testSupplier("asm", 1)},
		[]model.Dependency{dep("raw", "mid"), dep("mid", "asm"), dep("raw", "asm")},
		testCountries(),
	)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cycle := findCycle(g); cycle != nil {
		t.Errorf("findCycle = %v on a DAG, want nil", cycle)
	}
}
