// Package baseline ships a built-in country risk reference table and merges
// caller-supplied overrides over it. The table is loaded once from an
// embedded CSV; callers always receive copies, never the shared map.
package baseline

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"strconv"
	"sync"

	"github.com/chainsight-io/chainsight/pkg/model"
)

//go:embed country_risk_baseline.csv
var baselineCSV []byte

var (
	loadOnce sync.Once
	table    map[string]model.CountryRisk
	loadErr  error
)

// Load returns the built-in country risk baseline keyed by ISO code.
// The embedded table is parsed once; the returned map is a fresh copy.
func Load() (map[string]model.CountryRisk, error) {
	loadOnce.Do(func() {
		table, loadErr = parse(baselineCSV)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	out := make(map[string]model.CountryRisk, len(table))
	for code, risk := range table {
		out[code] = risk
	}
	return out, nil
}

// Merge layers overrides on top of the baseline: an override wins for its
// country code, the baseline fills every remaining country. Inputs are not
// modified.
func Merge(base map[string]model.CountryRisk, overrides []model.CountryRisk) map[string]model.CountryRisk {
	merged := make(map[string]model.CountryRisk, len(base)+len(overrides))
	for code, risk := range base {
		merged[code] = risk
	}
	for _, override := range overrides {
		merged[override.CountryCode] = override
	}
	return merged
}

func parse(data []byte) (map[string]model.CountryRisk, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse country baseline: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("country baseline is empty")
	}

	result := make(map[string]model.CountryRisk, len(records)-1)
	for _, row := range records[1:] { // skip header
		if len(row) != 6 {
			return nil, fmt.Errorf("country baseline: want 6 columns, got %d", len(row))
		}
		risk := model.CountryRisk{Country: row[0], CountryCode: row[1]}
		fields := []*float64{
			&risk.PoliticalStability,
			&risk.NaturalDisasterFreq,
			&risk.LogisticsPerformance,
			&risk.TradeRestrictionRisk,
		}
		for i, dst := range fields {
			v, err := strconv.ParseFloat(row[i+2], 64)
			if err != nil {
				return nil, fmt.Errorf("country baseline %s: %w", risk.CountryCode, err)
			}
			*dst = v
		}
		result[risk.CountryCode] = risk
	}
	return result, nil
}
