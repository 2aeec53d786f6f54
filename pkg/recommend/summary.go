package recommend

// ExecutiveSummary aggregates a recommendation list for reporting.
type ExecutiveSummary struct {
	Total         int     `json:"total_recommendations"`
	CriticalCount int     `json:"critical_count"`
	HighCount     int     `json:"high_count"`
	MediumCount   int     `json:"medium_count"`
	WatchCount    int     `json:"watch_count"`
	// Contract value carried by suppliers with CRITICAL / HIGH findings.
	CriticalContractValue float64 `json:"critical_contract_value"`
	HighContractValue     float64 `json:"high_contract_value"`
	UniqueSuppliers       int     `json:"unique_suppliers"`
	UniqueCountries       int     `json:"unique_countries"`
}

// Summarize aggregates severity counts, contract value at risk, and distinct
// supplier/country counts over a recommendation list.
func Summarize(recs []Recommendation) ExecutiveSummary {
	summary := ExecutiveSummary{Total: len(recs)}
	suppliers := make(map[string]bool)
	countries := make(map[string]bool)

	for _, rec := range recs {
		suppliers[rec.SupplierID] = true
		countries[rec.Country] = true
		switch rec.Severity {
		case SeverityCritical:
			summary.CriticalCount++
			summary.CriticalContractValue += rec.ContractValue
		case SeverityHigh:
			summary.HighCount++
			summary.HighContractValue += rec.ContractValue
		case SeverityMedium:
			summary.MediumCount++
		case SeverityWatch:
			summary.WatchCount++
		}
	}

	summary.UniqueSuppliers = len(suppliers)
	summary.UniqueCountries = len(countries)
	return summary
}
