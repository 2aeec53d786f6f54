// Package risk computes per-supplier risk: five weighted dimensions blended
// into a composite score, composite risk cascaded upward through the
// dependency graph, and single-point-of-failure detection on the propagated
// scores.
package risk

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chainsight-io/chainsight/pkg/validation"
)

// weightTolerance is how far the dimension weights may drift from 1.0.
const weightTolerance = 1e-6

// Weights are the five risk dimension weights. They must sum to 1.0.
type Weights struct {
	Geopolitical    float64 `yaml:"geopolitical"`
	NaturalDisaster float64 `yaml:"natural_disaster"`
	Financial       float64 `yaml:"financial"`
	Logistics       float64 `yaml:"logistics"`
	Concentration   float64 `yaml:"concentration"`
}

// Propagation controls how upstream risk blends into a node's own risk.
// Own + Inherited must sum to 1.0. The defaults model partial inheritance;
// they are configuration, not load-bearing business rules.
type Propagation struct {
	Own       float64 `yaml:"own"`
	Inherited float64 `yaml:"inherited"`
}

// Concentration holds the step-function parameters for concentration risk.
type Concentration struct {
	// Tier1Single applies to tier-1 nodes with at most one upstream
	// supplier; Tier23Single to the other tiers. Every upstream supplier
	// beyond the first reduces risk by ReductionPerSupplier down to Base.
	Tier1Single          float64 `yaml:"tier1_single"`
	Tier23Single         float64 `yaml:"tier23_single"`
	Base                 float64 `yaml:"base"`
	ReductionPerSupplier float64 `yaml:"reduction_per_supplier"`
}

// Config carries all scoring and propagation parameters.
type Config struct {
	Weights       Weights       `yaml:"weights"`
	Propagation   Propagation   `yaml:"propagation"`
	Concentration Concentration `yaml:"concentration"`

	// SPOFRiskThreshold is the propagated score above which a backup-less
	// supplier is flagged regardless of topology.
	SPOFRiskThreshold float64 `yaml:"spof_risk_threshold"`

	// HiddenVulnThreshold separates "looks safe" composites from
	// "actually exposed" propagated scores.
	HiddenVulnThreshold float64 `yaml:"hidden_vuln_threshold"`
}

// DefaultConfig returns the standard weights and thresholds.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Geopolitical:    0.30,
			NaturalDisaster: 0.20,
			Financial:       0.20,
			Logistics:       0.15,
			Concentration:   0.15,
		},
		Propagation: Propagation{Own: 0.6, Inherited: 0.4},
		Concentration: Concentration{
			Tier1Single:          75,
			Tier23Single:         60,
			Base:                 10,
			ReductionPerSupplier: 15,
		},
		SPOFRiskThreshold:   60,
		HiddenVulnThreshold: 55,
	}
}

// LoadConfig reads a YAML config file and validates it. Missing fields fall
// back to the defaults, so a file can override only the weights.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Field: "file", Detail: err.Error()}
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ConfigError{Field: "yaml", Detail: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on any out-of-range parameter. Weights that do not sum
// to 1.0 are a configuration error, never silently renormalized.
func (c *Config) Validate() error {
	w := c.Weights
	err := validation.NewConfigValidator("risk").
		RangeFloat("weights.geopolitical", w.Geopolitical, 0, 1).
		RangeFloat("weights.natural_disaster", w.NaturalDisaster, 0, 1).
		RangeFloat("weights.financial", w.Financial, 0, 1).
		RangeFloat("weights.logistics", w.Logistics, 0, 1).
		RangeFloat("weights.concentration", w.Concentration, 0, 1).
		SumsTo("weights", 1.0, weightTolerance,
			w.Geopolitical, w.NaturalDisaster, w.Financial, w.Logistics, w.Concentration).
		RangeFloat("propagation.own", c.Propagation.Own, 0, 1).
		RangeFloat("propagation.inherited", c.Propagation.Inherited, 0, 1).
		SumsTo("propagation", 1.0, weightTolerance, c.Propagation.Own, c.Propagation.Inherited).
		RangeFloat("concentration.tier1_single", c.Concentration.Tier1Single, 0, 100).
		RangeFloat("concentration.tier23_single", c.Concentration.Tier23Single, 0, 100).
		RangeFloat("concentration.base", c.Concentration.Base, 0, 100).
		PositiveFloat("concentration.reduction_per_supplier", c.Concentration.ReductionPerSupplier).
		RangeFloat("spof_risk_threshold", c.SPOFRiskThreshold, 0, 100).
		RangeFloat("hidden_vuln_threshold", c.HiddenVulnThreshold, 0, 100).
		Err()
	if err != nil {
		return &ConfigError{Field: "risk", Detail: err.Error()}
	}
	return nil
}

// ConfigError is a fatal configuration problem, reported at load time.
type ConfigError struct {
	Field  string
	Detail string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("risk config %s: %s", e.Field, e.Detail)
}
