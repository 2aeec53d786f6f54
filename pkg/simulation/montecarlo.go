package simulation

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/chainsight-io/chainsight/pkg/bom"
	"github.com/chainsight-io/chainsight/pkg/graph"
	"github.com/chainsight-io/chainsight/pkg/risk"
)

// Failure model constants. The duration cap is configurable through
// SimulatorConfig; the probability ceiling is fixed.
const (
	failureProbabilityCap = 0.95
	durationBaselineDays  = 30.0

	// Revenue loss per affected product is uniform over this range:
	// disruptions delay orders more often than they cancel them outright.
	lossFractionMin = 0.1
	lossFractionMax = 0.5
)

// SimulatorConfig carries the tunable failure-model constants.
type SimulatorConfig struct {
	// DurationCap bounds the duration multiplier min(duration/30, cap).
	DurationCap float64 `yaml:"duration_cap"`
}

// DefaultSimulatorConfig returns the standard failure model.
func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{DurationCap: 1.5}
}

// Result is one completed Monte Carlo run: the full per-iteration impact
// distribution plus its statistics. Ephemeral, never persisted by the core.
type Result struct {
	Target           string        `json:"target"`
	DurationDays     int           `json:"duration_days"`
	Iterations       int           `json:"iterations"`
	Scenario         Scenario      `json:"scenario_type"`
	CandidateCount   int           `json:"affected_suppliers_count"`
	AffectedProducts []string      `json:"affected_products"`
	Impacts          []float64     `json:"all_results"`
	Summary          Summary       `json:"summary"`
	Histogram        Histogram     `json:"histogram"`
	Runtime          time.Duration `json:"-"`
}

// Simulator samples disruption scenarios against a scored graph and BOM.
// Safe for repeated Run calls; each run draws from its own seeded RNGs.
type Simulator struct {
	g     *graph.Graph
	bom   *bom.Index
	prop  *risk.Propagated
	reach *graph.Reach
	cfg   SimulatorConfig
}

// NewSimulator wires a simulator over one run's graph, BOM and propagated
// risk annotations.
func NewSimulator(g *graph.Graph, idx *bom.Index, prop *risk.Propagated, reach *graph.Reach, cfg SimulatorConfig) *Simulator {
	return &Simulator{g: g, bom: idx, prop: prop, reach: reach, cfg: cfg}
}

// Run executes a full Monte Carlo simulation. A fixed (Params, input graph)
// pair produces a bit-identical distribution: candidates and products are
// visited in sorted order and every random draw comes from RNGs derived
// deterministically from the seed.
func (s *Simulator) Run(p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	candidates, err := s.expandScenario(p.Target, p.Scenario)
	if err != nil {
		return nil, err
	}

	workers := p.Workers
	if workers == 0 {
		workers = 1
	}
	if workers > p.Iterations {
		workers = p.Iterations
	}

	start := time.Now()
	impacts := make([]float64, p.Iterations)

	// Contiguous shards; worker w owns [w*chunk, ...) and an RNG seeded
	// Seed+w, so no iteration can observe another worker's draws.
	chunk := (p.Iterations + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > p.Iterations {
			hi = p.Iterations
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int, seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := lo; i < hi; i++ {
				impacts[i] = s.runIteration(rng, candidates, p.DurationDays)
			}
		}(lo, hi, p.Seed+int64(w))
	}
	wg.Wait()

	candidateSet := make(map[string]bool, len(candidates))
	for _, id := range candidates {
		candidateSet[id] = true
	}

	return &Result{
		Target:           p.Target,
		DurationDays:     p.DurationDays,
		Iterations:       p.Iterations,
		Scenario:         p.Scenario,
		CandidateCount:   len(candidates),
		AffectedProducts: s.bom.ProductsDependingOnAny(candidateSet),
		Impacts:          impacts,
		Summary:          Summarize(impacts),
		Histogram:        NewHistogram(impacts, p.Bins),
		Runtime:          time.Since(start),
	}, nil
}

// expandScenario resolves the candidate supplier set for a scenario.
// Candidates come back sorted so iteration order is deterministic.
func (s *Simulator) expandScenario(target string, scenario Scenario) ([]string, error) {
	if !s.g.HasNode(target) {
		return nil, fmt.Errorf("%w: supplier %s", ErrTargetNotFound, target)
	}

	affected := map[string]bool{target: true}
	switch scenario {
	case ScenarioSingleNode:
		for _, id := range s.reach.Descendants(target) {
			affected[id] = true
		}

	case ScenarioRegional:
		node, _ := s.g.Node(target)
		for _, id := range s.g.RegionIDs(node.Region) {
			affected[id] = true
		}

	case ScenarioCorrelated:
		upstream := make(map[string]bool)
		for _, up := range s.g.Predecessors(target) {
			upstream[up] = true
		}
		for _, id := range s.g.NodeIDs() {
			for _, up := range s.g.Predecessors(id) {
				if upstream[up] {
					affected[id] = true
					break
				}
			}
		}

	default:
		return nil, &ParamError{Detail: fmt.Sprintf("unknown scenario type %q", scenario)}
	}

	candidates := make([]string, 0, len(affected))
	for id := range affected {
		candidates = append(candidates, id)
	}
	sort.Strings(candidates)
	return candidates, nil
}

// runIteration draws one disruption: Bernoulli failure per candidate, then
// revenue loss per affected product.
func (s *Simulator) runIteration(rng *rand.Rand, candidates []string, durationDays int) float64 {
	failed := make(map[string]bool)
	for _, id := range candidates {
		if rng.Float64() < s.failureProbability(id, durationDays) {
			failed[id] = true
		}
	}
	if len(failed) == 0 {
		return 0
	}
	return s.revenueImpact(rng, failed)
}

// failureProbability scales propagated risk by disruption duration,
// capped at failureProbabilityCap.
func (s *Simulator) failureProbability(id string, durationDays int) float64 {
	base := s.prop.Value(id) / 100.0
	durationFactor := float64(durationDays) / durationBaselineDays
	if durationFactor > s.cfg.DurationCap {
		durationFactor = s.cfg.DurationCap
	}
	p := base * durationFactor
	if p > failureProbabilityCap {
		p = failureProbabilityCap
	}
	return p
}

// revenueImpact sums the loss over every product depending on at least one
// failed supplier. Each such product loses a uniform(0.1, 0.5) fraction of
// its annual revenue this iteration.
func (s *Simulator) revenueImpact(rng *rand.Rand, failed map[string]bool) float64 {
	total := 0.0
	for _, pid := range s.bom.ProductsDependingOnAny(failed) {
		product, _ := s.bom.Product(pid)
		fraction := lossFractionMin + (lossFractionMax-lossFractionMin)*rng.Float64()
		total += product.AnnualRevenue * fraction
	}
	return total
}
