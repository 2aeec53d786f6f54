package risk

import (
	"strings"
	"testing"

	"github.com/chainsight-io/chainsight/pkg/graph"
	"github.com/chainsight-io/chainsight/pkg/model"
)

func detect(t *testing.T, g *graph.Graph, scores map[string]Scores) *SPOFSet {
	t.Helper()
	cfg := DefaultConfig()
	prop, err := Propagate(g, scores, cfg)
	if err != nil {
		t.Fatalf("Propagate failed: %v", err)
	}
	return DetectSPOFs(g, prop, graph.NewReach(g), cfg)
}

func TestSPOFHighRiskNoBackup(t *testing.T) {
	g := buildGraph(t, []model.Supplier{testSupplier("solo", 3)}, nil)
	set := detect(t, g, map[string]Scores{"solo": {Composite: 70}})

	if !set.IsSPOF("solo") {
		t.Fatal("solo not flagged despite propagated 70 > 60 and no backup")
	}
	if !strings.Contains(set.Reason("solo"), "high risk") {
		t.Errorf("reason = %q, want high risk wording", set.Reason("solo"))
	}
}

func TestSPOFThresholdIsExclusive(t *testing.T) {
	g := buildGraph(t, []model.Supplier{testSupplier("solo", 3)}, nil)
	set := detect(t, g, map[string]Scores{"solo": {Composite: 60}})
	if set.IsSPOF("solo") {
		t.Errorf("flagged at exactly the threshold, want strictly greater: %q", set.Reason("solo"))
	}
}

func TestSPOFSoleSupplier(t *testing.T) {
	g := buildGraph(t,
		[]model.Supplier{testSupplier("mid", 2), testSupplier("asm", 1)},
		[]model.Dependency{dep("mid", "asm")},
	)
	set := detect(t, g, map[string]Scores{"mid": {Composite: 20}, "asm": {Composite: 20}})

	if !set.IsSPOF("mid") {
		t.Fatal("mid not flagged despite being asm's only source")
	}
	if !strings.Contains(set.Reason("mid"), "only supplier for asm") {
		t.Errorf("reason = %q, want sole-supplier wording", set.Reason("mid"))
	}
}

func TestSPOFCutVertex(t *testing.T) {
	// Every raw-to-assembly path runs through mid even though asm itself has
	// two sources, so mid is a structural SPOF without being a sole supplier.
	suppliers := []model.Supplier{
		testSupplier("raw", 3),
		testSupplier("mid", 2),
		testSupplier("side", 2),
		testSupplier("asm", 1),
	}
	deps := []model.Dependency{dep("raw", "mid"), dep("mid", "asm"), dep("side", "asm")}
	g := buildGraph(t, suppliers, deps)

	scores := map[string]Scores{
		"raw": {Composite: 20}, "mid": {Composite: 20},
		"side": {Composite: 20}, "asm": {Composite: 20},
	}
	set := detect(t, g, scores)

	if !set.IsSPOF("mid") {
		t.Fatal("mid not flagged despite being a cut vertex")
	}
	if !strings.Contains(set.Reason("mid"), "sever") {
		t.Errorf("reason = %q, want severed-paths wording", set.Reason("mid"))
	}
	if set.IsSPOF("side") {
		t.Errorf("side flagged: %q, but asm keeps a source without it and removal cuts nothing", set.Reason("side"))
	}
}

func TestBackupSuppressesAllSPOFRules(t *testing.T) {
	withBackup := testSupplier("mid", 2)
	withBackup.HasBackup = true
	g := buildGraph(t,
		[]model.Supplier{withBackup, testSupplier("asm", 1)},
		[]model.Dependency{dep("mid", "asm")},
	)
	// Sole supplier AND high risk, but the backup wins.
	set := detect(t, g, map[string]Scores{"mid": {Composite: 95}, "asm": {Composite: 20}})

	if set.IsSPOF("mid") {
		t.Errorf("supplier with backup flagged as SPOF: %q", set.Reason("mid"))
	}
}

func TestSPOFImpact(t *testing.T) {
	g := buildGraph(t,
		[]model.Supplier{testSupplier("raw", 3), testSupplier("mid", 2), testSupplier("asm", 1)},
		[]model.Dependency{dep("raw", "mid"), dep("mid", "asm")},
	)
	set := detect(t, g, chainScores(80, 50, 20))

	impact, err := set.Impact("raw")
	if err != nil {
		t.Fatalf("Impact failed: %v", err)
	}
	if impact.TotalAffected != 2 {
		t.Errorf("TotalAffected = %d, want 2", impact.TotalAffected)
	}
	if impact.Tier1Affected != 1 || impact.Tier2Affected != 1 {
		t.Errorf("tier counts = %d/%d, want 1/1", impact.Tier1Affected, impact.Tier2Affected)
	}
	// Contract value of raw itself plus both descendants, 1.5 each.
	if impact.ContractAtRisk != 4.5 {
		t.Errorf("ContractAtRisk = %v, want 4.5", impact.ContractAtRisk)
	}

	if _, err := set.Impact("asm"); err == nil {
		t.Error("Impact on an unflagged supplier succeeded, want error")
	}
}

func TestSPOFImpactsOrdering(t *testing.T) {
	g := buildGraph(t,
		[]model.Supplier{testSupplier("raw", 3), testSupplier("mid", 2), testSupplier("asm", 1)},
		[]model.Dependency{dep("raw", "mid"), dep("mid", "asm")},
	)
	set := detect(t, g, chainScores(80, 80, 20))

	reports := set.Impacts()
	for i := 1; i < len(reports); i++ {
		if reports[i-1].TotalAffected < reports[i].TotalAffected {
			t.Errorf("reports not sorted by blast radius: %d before %d",
				reports[i-1].TotalAffected, reports[i].TotalAffected)
		}
	}
}
