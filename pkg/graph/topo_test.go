package graph

import (
	"reflect"
	"testing"

	"github.com/chainsight-io/chainsight/pkg/model"
)

func buildDiamond(t *testing.T) *Graph {
	t.Helper()
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
	g, err := Build(suppliers, deps, testCountries())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestTopologicalOrderRespectsEdges(t *testing.T) {
	g := buildDiamond(t)
	order, err := TopologicalOrder(g)
	if err != nil {
		t.Fatalf("TopologicalOrder failed: %v", err)
	}
	if len(order) != g.NodeCount() {
		t.Fatalf("order has %d nodes, want %d", len(order), g.NodeCount())
	}

	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, e := range g.Edges() {
		if pos[e.From] >= pos[e.To] {
			t.Errorf("edge %s -> %s violated: positions %d >= %d", e.From, e.To, pos[e.From], pos[e.To])
		}
	}
}

func TestTopologicalOrderDeterministic(t *testing.T) {
	g := buildDiamond(t)
	first, err := TopologicalOrder(g)
	if err != nil {
		t.Fatalf("TopologicalOrder failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := TopologicalOrder(g)
		if err != nil {
			t.Fatalf("TopologicalOrder failed: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("order changed between calls: %v vs %v", first, again)
		}
	}
	// Sorted frontier means equal-rank nodes come out in id order.
	want := []string{"raw", "mid-a", "mid-b", "asm"}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("order = %v, want %v", first, want)
	}
}

func TestReachDescendantsAndAncestors(t *testing.T) {
	g := buildDiamond(t)
	r := NewReach(g)

	if got := r.Descendants("raw"); !reflect.DeepEqual(got, []string{"asm", "mid-a", "mid-b"}) {
		t.Errorf("Descendants(raw) = %v", got)
	}
	if got := r.Descendants("asm"); len(got) != 0 {
		t.Errorf("Descendants(asm) = %v, want empty", got)
	}
	if got := r.Ancestors("asm"); !reflect.DeepEqual(got, []string{"mid-a", "mid-b", "raw"}) {
		t.Errorf("Ancestors(asm) = %v", got)
	}
	if got := r.Ancestors("raw"); len(got) != 0 {
		t.Errorf("Ancestors(raw) = %v, want empty", got)
	}
}

func TestPathExistsAvoiding(t *testing.T) {
	g := buildDiamond(t)

	if !g.PathExistsAvoiding("raw", "asm", "mid-a") {
		t.Error("path raw->asm should survive removing mid-a (mid-b remains)")
	}
	if !g.PathExistsAvoiding("raw", "asm", "mid-b") {
		t.Error("path raw->asm should survive removing mid-b (mid-a remains)")
	}
	if g.PathExistsAvoiding("raw", "asm", "raw") {
		t.Error("no path can start at a removed node")
	}
	if g.PathExistsAvoiding("mid-a", "mid-b", "") {
		t.Error("siblings are not connected")
	}
}
