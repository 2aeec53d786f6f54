// Package model defines the typed input records for a supply-chain analysis
// run: suppliers, dependency edges, country risk profiles, and product
// bill-of-materials entries. Records carry go-playground/validator tags;
// callers validate rows before handing them to the graph builder.
package model

// Tier positions in the supply chain. Tier-1 is finished assembly,
// Tier-3 is raw material.
const (
	TierAssembly    = 1
	TierComponent   = 2
	TierRawMaterial = 3
)

// Supplier is one row of the supplier master data.
type Supplier struct {
	ID              string  `json:"id" yaml:"id" validate:"required"`
	Name            string  `json:"name" yaml:"name" validate:"required"`
	Tier            int     `json:"tier" yaml:"tier" validate:"required,min=1,max=3"`
	Component       string  `json:"component" yaml:"component" validate:"required"`
	Country         string  `json:"country" yaml:"country" validate:"required"`
	CountryCode     string  `json:"country_code" yaml:"country_code" validate:"required,len=2"`
	Region          string  `json:"region" yaml:"region" validate:"required"`
	ContractValue   float64 `json:"contract_value_eur_m" yaml:"contract_value_eur_m" validate:"min=0"`
	LeadTimeDays    int     `json:"lead_time_days" yaml:"lead_time_days" validate:"min=0"`
	FinancialHealth float64 `json:"financial_health" yaml:"financial_health" validate:"min=0,max=100"`
	PastDisruptions int     `json:"past_disruptions" yaml:"past_disruptions" validate:"min=0"`
	HasBackup       bool    `json:"has_backup" yaml:"has_backup"`
}

// Dependency is a directed edge: Source feeds Target. Weight is the
// percentage of Target's input sourced through this edge.
type Dependency struct {
	SourceID string  `json:"source_id" yaml:"source_id" validate:"required"`
	TargetID string  `json:"target_id" yaml:"target_id" validate:"required"`
	Weight   float64 `json:"dependency_weight" yaml:"dependency_weight" validate:"min=0,max=100"`
}

// CountryRisk is the read-only risk profile for one country.
// All indices are 0-100, higher meaning riskier (logistics performance is
// inverted by the scorer).
type CountryRisk struct {
	Country              string  `json:"country" yaml:"country"`
	CountryCode          string  `json:"country_code" yaml:"country_code" validate:"required,len=2"`
	PoliticalStability   float64 `json:"political_stability" yaml:"political_stability" validate:"min=0,max=100"`
	NaturalDisasterFreq  float64 `json:"natural_disaster_freq" yaml:"natural_disaster_freq" validate:"min=0,max=100"`
	LogisticsPerformance float64 `json:"logistics_performance" yaml:"logistics_performance" validate:"min=0,max=100"`
	TradeRestrictionRisk float64 `json:"trade_restriction_risk" yaml:"trade_restriction_risk" validate:"min=0,max=100"`
}

// Product is one bill-of-materials entry: a product, its annual revenue,
// and the tier-1 suppliers it depends on. Never mutated by the analysis.
type Product struct {
	ID            string   `json:"product_id" yaml:"product_id" validate:"required"`
	Name          string   `json:"product_name" yaml:"product_name" validate:"required"`
	AnnualRevenue float64  `json:"annual_revenue_eur_m" yaml:"annual_revenue_eur_m" validate:"min=0"`
	SupplierIDs   []string `json:"supplier_ids" yaml:"supplier_ids" validate:"required,min=1"`
}
