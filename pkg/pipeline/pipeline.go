// Package pipeline runs the full analysis chain over one input set: build
// the graph, score every supplier, propagate risk, detect single points of
// failure, then serve simulations, rankings and recommendations against the
// frozen result. A Run is immutable once built; changed inputs mean a new Run.
package pipeline

import (
	"time"

	"github.com/chainsight-io/chainsight/pkg/bom"
	"github.com/chainsight-io/chainsight/pkg/graph"
	"github.com/chainsight-io/chainsight/pkg/logging"
	"github.com/chainsight-io/chainsight/pkg/metrics"
	"github.com/chainsight-io/chainsight/pkg/model"
	"github.com/chainsight-io/chainsight/pkg/recommend"
	"github.com/chainsight-io/chainsight/pkg/risk"
	"github.com/chainsight-io/chainsight/pkg/simulation"
)

// Inputs is one complete upload: the four tables after file parsing.
// Countries is the already-merged table (baseline plus overrides).
type Inputs struct {
	Suppliers    []model.Supplier
	Dependencies []model.Dependency
	Countries    map[string]model.CountryRisk
	Products     []model.Product
}

// Options tunes a run. Zero value means defaults everywhere.
type Options struct {
	RiskConfig      *risk.Config
	SimulatorConfig *simulation.SimulatorConfig
	Logger          logging.Logger
}

// Run is one completed analysis: the graph plus every annotation layer,
// ready for read-only queries.
type Run struct {
	g        *graph.Graph
	scores   map[string]risk.Scores
	prop     *risk.Propagated
	spofs    *risk.SPOFSet
	reach    *graph.Reach
	bom      *bom.Index
	sim      *simulation.Simulator
	analyzer *simulation.Analyzer
	engine   *recommend.Engine
	cfg      *risk.Config
	builtAt  time.Time
	log      logging.Logger
}

// New executes the build, score, propagate and SPOF stages and wires the
// on-demand stages (simulation, sensitivity, recommendations) over the result.
// Any input defect aborts the whole run with a *graph.ValidationError.
func New(in Inputs, opts Options) (*Run, error) {
	cfg := opts.RiskConfig
	if cfg == nil {
		cfg = risk.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	simCfg := simulation.DefaultSimulatorConfig()
	if opts.SimulatorConfig != nil {
		simCfg = *opts.SimulatorConfig
	}
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}

	stageStart := time.Now()
	g, err := graph.Build(in.Suppliers, in.Dependencies, in.Countries)
	if err != nil {
		metrics.PipelineRunErrors.Inc()
		log.Warn("graph build rejected", logging.Field{Key: "error", Value: err.Error()})
		return nil, err
	}
	observeStage("build", stageStart)

	stageStart = time.Now()
	scores := risk.ScoreAll(g, cfg)
	observeStage("score", stageStart)

	stageStart = time.Now()
	prop, err := risk.Propagate(g, scores, cfg)
	if err != nil {
		metrics.PipelineRunErrors.Inc()
		return nil, err
	}
	observeStage("propagate", stageStart)

	reach := graph.NewReach(g)

	stageStart = time.Now()
	spofs := risk.DetectSPOFs(g, prop, reach, cfg)
	observeStage("spof", stageStart)

	idx := bom.NewIndex(in.Products)

	run := &Run{
		g:        g,
		scores:   scores,
		prop:     prop,
		spofs:    spofs,
		reach:    reach,
		bom:      idx,
		sim:      simulation.NewSimulator(g, idx, prop, reach, simCfg),
		analyzer: simulation.NewAnalyzer(g, idx, prop, reach),
		engine:   recommend.NewEngine(g, prop, spofs),
		cfg:      cfg,
		builtAt:  time.Now(),
		log:      log,
	}

	metrics.PipelineRunsTotal.Inc()
	metrics.GraphNodes.Set(float64(g.NodeCount()))
	metrics.GraphEdges.Set(float64(g.EdgeCount()))
	metrics.SPOFsDetected.Set(float64(spofs.Count()))
	log.Info("analysis run complete",
		logging.Field{Key: "suppliers", Value: g.NodeCount()},
		logging.Field{Key: "dependencies", Value: g.EdgeCount()},
		logging.Field{Key: "products", Value: len(in.Products)},
		logging.Field{Key: "spofs", Value: spofs.Count()},
	)
	return run, nil
}

func observeStage(stage string, start time.Time) {
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Graph returns the underlying supplier graph.
func (r *Run) Graph() *graph.Graph { return r.g }

// Scores returns the per-dimension scores for one supplier.
func (r *Run) Scores(id string) (risk.Scores, bool) {
	s, ok := r.scores[id]
	return s, ok
}

// Propagated returns the cascaded risk annotations.
func (r *Run) Propagated() *risk.Propagated { return r.prop }

// SPOFs returns the detected single points of failure.
func (r *Run) SPOFs() *risk.SPOFSet { return r.spofs }

// BOM returns the product exposure index.
func (r *Run) BOM() *bom.Index { return r.bom }

// BuiltAt returns when the run finished building.
func (r *Run) BuiltAt() time.Time { return r.builtAt }

// Simulate runs one Monte Carlo disruption simulation against this run.
func (r *Run) Simulate(p simulation.Params) (*simulation.Result, error) {
	start := time.Now()
	result, err := r.sim.Run(p)
	if err != nil {
		metrics.SimulationErrors.Inc()
		return nil, err
	}
	metrics.SimulationsTotal.WithLabelValues(string(p.Scenario)).Inc()
	metrics.SimulationIterations.Add(float64(p.Iterations))
	metrics.SimulationDuration.Observe(time.Since(start).Seconds())
	r.log.Info("simulation complete",
		logging.Field{Key: "target", Value: p.Target},
		logging.Field{Key: "scenario", Value: string(p.Scenario)},
		logging.Field{Key: "iterations", Value: p.Iterations},
		logging.Field{Key: "mean_impact", Value: result.Summary.Mean},
	)
	return result, nil
}

// Ranking returns every supplier ordered by criticality.
func (r *Run) Ranking() []simulation.CriticalityRow { return r.analyzer.Ranking() }

// TopCritical returns the n most critical suppliers.
func (r *Run) TopCritical(n int) []simulation.CriticalityRow { return r.analyzer.TopCritical(n) }

// Pareto returns the criticality concentration analysis.
func (r *Run) Pareto() simulation.Pareto { return r.analyzer.ParetoAnalysis() }

// Recommendations returns the prioritized action list.
func (r *Run) Recommendations() []recommend.Recommendation { return r.engine.Generate() }

// Regional returns regions exceeding the concentration limit.
func (r *Run) Regional() []recommend.RegionalFinding { return r.engine.Regional() }

// Summary aggregates the recommendation list for reporting.
func (r *Run) Summary() recommend.ExecutiveSummary {
	return recommend.Summarize(r.engine.Generate())
}
