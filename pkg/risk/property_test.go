package risk

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/chainsight-io/chainsight/pkg/graph"
	"github.com/chainsight-io/chainsight/pkg/model"
)

// TestPropagationInvariants verifies the cascade laws over randomized
// composites on a diamond-shaped network. These must hold for every input,
// not just the worked examples.
func TestPropagationInvariants(t *testing.T) {
	suppliers := []model.Supplier{
		testSupplier("raw", 3),
		testSupplier("mid-a", 2),
		testSupplier("mid-b", 2),
		testSupplier("asm", 1),
	}
	deps := []model.Dependency{
		dep("raw", "mid-a"),
		dep("raw", "mid-b"),
		dep("mid-a", "asm"),
		dep("mid-b", "asm"),
	}
	g, err := graph.Build(suppliers, deps, testCountries())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	cfg := DefaultConfig()

	propagate := func(raw, midA, midB, asm float64) *Propagated {
		scores := map[string]Scores{
			"raw":   {Composite: raw},
			"mid-a": {Composite: midA},
			"mid-b": {Composite: midB},
			"asm":   {Composite: asm},
		}
		p, err := Propagate(g, scores, cfg)
		if err != nil {
			t.Fatalf("Propagate failed: %v", err)
		}
		return p
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	score := gen.Float64Range(0, 100)

	properties.Property("propagated never drops below composite", prop.ForAll(
		func(raw, midA, midB, asm float64) bool {
			p := propagate(raw, midA, midB, asm)
			composites := map[string]float64{"raw": raw, "mid-a": midA, "mid-b": midB, "asm": asm}
			for id, composite := range composites {
				if p.Value(id) < composite {
					return false
				}
			}
			return true
		},
		score, score, score, score,
	))

	properties.Property("propagated stays within [0, 100]", prop.ForAll(
		func(raw, midA, midB, asm float64) bool {
			p := propagate(raw, midA, midB, asm)
			for _, id := range g.NodeIDs() {
				if v := p.Value(id); v < 0 || v > 100 {
					return false
				}
			}
			return true
		},
		score, score, score, score,
	))

	properties.Property("nodes without upstream keep their composite", prop.ForAll(
		func(raw, midA, midB, asm float64) bool {
			p := propagate(raw, midA, midB, asm)
			return p.Value("raw") == raw
		},
		score, score, score, score,
	))

	properties.Property("propagation is deterministic", prop.ForAll(
		func(raw, midA, midB, asm float64) bool {
			first := propagate(raw, midA, midB, asm)
			second := propagate(raw, midA, midB, asm)
			for _, id := range g.NodeIDs() {
				if first.Value(id) != second.Value(id) {
					return false
				}
			}
			return true
		},
		score, score, score, score,
	))

	properties.TestingRun(t)
}

// TestScoringInvariants verifies that composites stay in range for any
// country profile and financial health.
func TestScoringInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	idx := gen.Float64Range(0, 100)

	properties.Property("composite within [0, 100] for any country profile", prop.ForAll(
		func(political, disaster, logistics, trade, health float64) bool {
			countries := map[string]model.CountryRisk{
				"ZZ": {
					Country:              "Test",
					CountryCode:          "ZZ",
					PoliticalStability:   political,
					NaturalDisasterFreq:  disaster,
					LogisticsPerformance: logistics,
					TradeRestrictionRisk: trade,
				},
			}
			s := testSupplier("x", 1)
			s.Country = "Test"
			s.CountryCode = "ZZ"
			s.FinancialHealth = health

			g, err := graph.Build([]model.Supplier{s}, nil, countries)
			if err != nil {
				return false
			}
			composite := ScoreAll(g, DefaultConfig())["x"].Composite
			return composite >= 0 && composite <= 100
		},
		idx, idx, idx, idx, idx,
	))

	properties.TestingRun(t)
}
