// Package simulation estimates financial exposure under disruption scenarios
// with Monte Carlo sampling, and ranks suppliers by criticality (propagated
// risk weighted by dependent revenue).
package simulation

import (
	"errors"
	"fmt"

	"github.com/chainsight-io/chainsight/pkg/validation"
)

// Scenario selects which suppliers a disruption can touch.
type Scenario string

const (
	// ScenarioSingleNode hits the target plus its whole downstream cascade.
	ScenarioSingleNode Scenario = "single_node"
	// ScenarioRegional hits every supplier sharing the target's region.
	ScenarioRegional Scenario = "regional"
	// ScenarioCorrelated hits every supplier sharing at least one upstream
	// source with the target.
	ScenarioCorrelated Scenario = "correlated"
)

// Declared bounds. Parameters outside these are a configuration error,
// never silently clamped.
const (
	MinDurationDays = 7
	MaxDurationDays = 90
	MinIterations   = 100
	MaxIterations   = 100000
	MaxWorkers      = 64
	DefaultBins     = 30
	MaxBins         = 500
)

// ErrTargetNotFound marks a simulation target that is absent from the run.
var ErrTargetNotFound = errors.New("simulation target not found")

// ParamError is a fatal parameter problem, reported before any sampling runs.
type ParamError struct {
	Detail string
}

// Error implements the error interface.
func (e *ParamError) Error() string {
	return fmt.Sprintf("simulation params: %s", e.Detail)
}

// Params configures one Monte Carlo run.
type Params struct {
	Target       string   `json:"target" yaml:"target"`
	DurationDays int      `json:"duration_days" yaml:"duration_days"`
	Iterations   int      `json:"iterations" yaml:"iterations"`
	Scenario     Scenario `json:"scenario_type" yaml:"scenario_type"`
	Seed         int64    `json:"seed" yaml:"seed"`

	// Workers shards iterations across goroutines. Each worker draws from an
	// independent RNG seeded Seed+workerIndex, so a given (Params, Workers)
	// pair is bit-reproducible. Zero means 1.
	Workers int `json:"workers,omitempty" yaml:"workers"`

	// Bins is the histogram bin count. Zero means DefaultBins.
	Bins int `json:"bins,omitempty" yaml:"bins"`
}

// Validate checks all parameters against the declared bounds.
func (p *Params) Validate() error {
	workers := p.Workers
	if workers == 0 {
		workers = 1
	}
	bins := p.Bins
	if bins == 0 {
		bins = DefaultBins
	}
	err := validation.NewConfigValidator("simulation").
		Required("target", p.Target).
		RangeInt("duration_days", p.DurationDays, MinDurationDays, MaxDurationDays).
		RangeInt("iterations", p.Iterations, MinIterations, MaxIterations).
		RangeInt("workers", workers, 1, MaxWorkers).
		RangeInt("bins", bins, 1, MaxBins).
		OneOf("scenario_type", string(p.Scenario),
			string(ScenarioSingleNode), string(ScenarioRegional), string(ScenarioCorrelated)).
		Err()
	if err != nil {
		return &ParamError{Detail: err.Error()}
	}
	return nil
}
