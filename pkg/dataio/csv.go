// Package dataio reads the four tabular inputs (suppliers, dependencies,
// country risk, product BOM) from CSV. Rows are schema-validated here so the
// boundary rejects malformed uploads before the core ever sees them; the
// analytics core itself stays file-format free.
package dataio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/chainsight-io/chainsight/pkg/model"
)

var validate = validator.New()

// ReadSuppliers parses the supplier master CSV:
// id,name,tier,component,country,country_code,region,contract_value_eur_m,
// lead_time_days,financial_health,past_disruptions,has_backup
func ReadSuppliers(r io.Reader) ([]model.Supplier, error) {
	rows, err := readTable(r, 12, "suppliers", true)
	if err != nil {
		return nil, err
	}

	suppliers := make([]model.Supplier, 0, len(rows))
	for i, row := range rows {
		line := i + 2 // header is line 1
		s := model.Supplier{
			ID:          strings.TrimSpace(row[0]),
			Name:        strings.TrimSpace(row[1]),
			Component:   strings.TrimSpace(row[3]),
			Country:     strings.TrimSpace(row[4]),
			CountryCode: strings.TrimSpace(row[5]),
			Region:      strings.TrimSpace(row[6]),
		}
		if s.Tier, err = parseInt("suppliers", line, "tier", row[2]); err != nil {
			return nil, err
		}
		if s.ContractValue, err = parseFloat("suppliers", line, "contract_value_eur_m", row[7]); err != nil {
			return nil, err
		}
		if s.LeadTimeDays, err = parseInt("suppliers", line, "lead_time_days", row[8]); err != nil {
			return nil, err
		}
		if s.FinancialHealth, err = parseFloat("suppliers", line, "financial_health", row[9]); err != nil {
			return nil, err
		}
		if s.PastDisruptions, err = parseInt("suppliers", line, "past_disruptions", row[10]); err != nil {
			return nil, err
		}
		if s.HasBackup, err = parseBool("suppliers", line, "has_backup", row[11]); err != nil {
			return nil, err
		}
		if err := validate.Struct(&s); err != nil {
			return nil, fmt.Errorf("suppliers line %d: %w", line, err)
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, nil
}

// ReadDependencies parses the dependency CSV:
// source_id,target_id,dependency_weight
// A header-only file is a valid network with no dependencies.
func ReadDependencies(r io.Reader) ([]model.Dependency, error) {
	rows, err := readTable(r, 3, "dependencies", false)
	if err != nil {
		return nil, err
	}

	deps := make([]model.Dependency, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		d := model.Dependency{
			SourceID: strings.TrimSpace(row[0]),
			TargetID: strings.TrimSpace(row[1]),
		}
		if d.Weight, err = parseFloat("dependencies", line, "dependency_weight", row[2]); err != nil {
			return nil, err
		}
		if err := validate.Struct(&d); err != nil {
			return nil, fmt.Errorf("dependencies line %d: %w", line, err)
		}
		deps = append(deps, d)
	}
	return deps, nil
}

// ReadCountryRisk parses a country risk override CSV:
// country,country_code,political_stability,natural_disaster_freq,
// logistics_performance,trade_restriction_risk
// Overrides are optional, so a header-only file yields no overrides.
func ReadCountryRisk(r io.Reader) ([]model.CountryRisk, error) {
	rows, err := readTable(r, 6, "country_risk", false)
	if err != nil {
		return nil, err
	}

	countries := make([]model.CountryRisk, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		c := model.CountryRisk{
			Country:     strings.TrimSpace(row[0]),
			CountryCode: strings.TrimSpace(row[1]),
		}
		if c.PoliticalStability, err = parseFloat("country_risk", line, "political_stability", row[2]); err != nil {
			return nil, err
		}
		if c.NaturalDisasterFreq, err = parseFloat("country_risk", line, "natural_disaster_freq", row[3]); err != nil {
			return nil, err
		}
		if c.LogisticsPerformance, err = parseFloat("country_risk", line, "logistics_performance", row[4]); err != nil {
			return nil, err
		}
		if c.TradeRestrictionRisk, err = parseFloat("country_risk", line, "trade_restriction_risk", row[5]); err != nil {
			return nil, err
		}
		if err := validate.Struct(&c); err != nil {
			return nil, fmt.Errorf("country_risk line %d: %w", line, err)
		}
		countries = append(countries, c)
	}
	return countries, nil
}

// ReadProducts parses the product BOM CSV:
// product_id,product_name,annual_revenue_eur_m,component_supplier_ids
// where component_supplier_ids is a comma-separated (quoted) id list.
func ReadProducts(r io.Reader) ([]model.Product, error) {
	rows, err := readTable(r, 4, "product_bom", true)
	if err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		p := model.Product{
			ID:   strings.TrimSpace(row[0]),
			Name: strings.TrimSpace(row[1]),
		}
		if p.AnnualRevenue, err = parseFloat("product_bom", line, "annual_revenue_eur_m", row[2]); err != nil {
			return nil, err
		}
		for _, id := range strings.Split(row[3], ",") {
			if id = strings.TrimSpace(id); id != "" {
				p.SupplierIDs = append(p.SupplierIDs, id)
			}
		}
		if err := validate.Struct(&p); err != nil {
			return nil, fmt.Errorf("product_bom line %d: %w", line, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func readTable(r io.Reader, columns int, table string, requireRows bool) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = columns
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", table, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header", table)
	}
	if requireRows && len(records) < 2 {
		return nil, fmt.Errorf("%s: no data rows", table)
	}
	return records[1:], nil
}

func parseInt(table string, line int, field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s line %d: %s: %w", table, line, field, err)
	}
	return v, nil
}

func parseFloat(table string, line int, field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: %s: %w", table, line, field, err)
	}
	return v, nil
}

func parseBool(table string, line int, field, raw string) (bool, error) {
	v, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return false, fmt.Errorf("%s line %d: %s: %w", table, line, field, err)
	}
	return v, nil
}
