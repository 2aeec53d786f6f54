// Command chainsight runs the full supply chain analysis over CSV inputs and
// prints the results as JSON. Optionally runs one Monte Carlo disruption
// simulation and writes a compressed snapshot of the run.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chainsight-io/chainsight/pkg/archive"
	"github.com/chainsight-io/chainsight/pkg/baseline"
	"github.com/chainsight-io/chainsight/pkg/dataio"
	"github.com/chainsight-io/chainsight/pkg/logging"
	"github.com/chainsight-io/chainsight/pkg/model"
	"github.com/chainsight-io/chainsight/pkg/pipeline"
	"github.com/chainsight-io/chainsight/pkg/risk"
	"github.com/chainsight-io/chainsight/pkg/simulation"
)

func main() {
	var (
		suppliersPath = flag.String("suppliers", "", "supplier master CSV (required)")
		depsPath      = flag.String("dependencies", "", "dependency CSV (required)")
		productsPath  = flag.String("products", "", "product BOM CSV (required)")
		countriesPath = flag.String("countries", "", "country risk override CSV (optional)")
		configPath    = flag.String("config", "", "risk weights YAML (optional)")
		snapshotPath  = flag.String("snapshot", "", "write a compressed snapshot of the run")
		topN          = flag.Int("top", 10, "rows in the criticality ranking")

		simTarget     = flag.String("simulate", "", "supplier id to disrupt (enables simulation)")
		simScenario   = flag.String("scenario", string(simulation.ScenarioSingleNode), "scenario: single_node, regional, correlated")
		simDuration   = flag.Int("duration", 30, "disruption duration in days")
		simIterations = flag.Int("iterations", 10000, "Monte Carlo iterations")
		simSeed       = flag.Int64("seed", 42, "RNG seed")
		simWorkers    = flag.Int("workers", 4, "simulation worker goroutines")
	)
	flag.Parse()

	log := logging.NewDefaultLogger()
	if err := run(log, *suppliersPath, *depsPath, *productsPath, *countriesPath, *configPath, *snapshotPath, *topN,
		*simTarget, *simScenario, *simDuration, *simIterations, *simSeed, *simWorkers); err != nil {
		log.Error("analysis failed", logging.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
}

func run(log logging.Logger, suppliersPath, depsPath, productsPath, countriesPath, configPath, snapshotPath string, topN int,
	simTarget, simScenario string, simDuration, simIterations int, simSeed int64, simWorkers int) error {
	if suppliersPath == "" || depsPath == "" || productsPath == "" {
		flag.Usage()
		return fmt.Errorf("-suppliers, -dependencies and -products are required")
	}

	in, err := loadInputs(suppliersPath, depsPath, productsPath, countriesPath)
	if err != nil {
		return err
	}

	opts := pipeline.Options{Logger: log}
	if configPath != "" {
		cfg, err := risk.LoadConfig(configPath)
		if err != nil {
			return err
		}
		opts.RiskConfig = cfg
	}

	runResult, err := pipeline.New(*in, opts)
	if err != nil {
		return err
	}

	report := map[string]any{
		"suppliers":       runResult.Reports(),
		"category_counts": runResult.CategoryCounts(),
		"hidden_risks":    runResult.Propagated().HiddenVulnerabilities(),
		"spof_impacts":    runResult.SPOFs().Impacts(),
		"ranking":         runResult.TopCritical(topN),
		"pareto":          runResult.Pareto(),
		"recommendations": runResult.Recommendations(),
		"regional_alerts": runResult.Regional(),
		"summary":         runResult.Summary(),
	}

	if simTarget != "" {
		result, err := runResult.Simulate(simulation.Params{
			Target:       simTarget,
			DurationDays: simDuration,
			Iterations:   simIterations,
			Scenario:     simulation.Scenario(simScenario),
			Seed:         simSeed,
			Workers:      simWorkers,
		})
		if err != nil {
			return err
		}
		result.Impacts = nil // distribution stays out of the printed report
		report["simulation"] = result
	}

	if snapshotPath != "" {
		f, err := os.Create(snapshotPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := archive.Export(f, runResult, *in); err != nil {
			return err
		}
		log.Info("snapshot written", logging.Field{Key: "path", Value: snapshotPath})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func loadInputs(suppliersPath, depsPath, productsPath, countriesPath string) (*pipeline.Inputs, error) {
	suppliers, err := readFile(suppliersPath, dataio.ReadSuppliers)
	if err != nil {
		return nil, err
	}
	deps, err := readFile(depsPath, dataio.ReadDependencies)
	if err != nil {
		return nil, err
	}
	products, err := readFile(productsPath, dataio.ReadProducts)
	if err != nil {
		return nil, err
	}

	base, err := baseline.Load()
	if err != nil {
		return nil, err
	}
	var overrides []model.CountryRisk
	if countriesPath != "" {
		if overrides, err = readFile(countriesPath, dataio.ReadCountryRisk); err != nil {
			return nil, err
		}
	}

	return &pipeline.Inputs{
		Suppliers:    suppliers,
		Dependencies: deps,
		Countries:    baseline.Merge(base, overrides),
		Products:     products,
	}, nil
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f)
}
