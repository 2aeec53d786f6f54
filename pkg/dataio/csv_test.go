package dataio

import (
	"reflect"
	"strings"
	"testing"
)

const suppliersCSV = `id,name,tier,component,country,country_code,region,contract_value_eur_m,lead_time_days,financial_health,past_disruptions,has_backup
S001,Acme Chips,2,microcontroller,Taiwan,TW,Asia,3.5,45,72,1,false
S002,Bolt GmbH,1,chassis,Germany,DE,Europe,8.0,14,91,0,true
`

const depsCSV = `source_id,target_id,dependency_weight
S001,S002,80
`

const countryCSV = `country,country_code,political_stability,natural_disaster_freq,logistics_performance,trade_restriction_risk
Atlantis,AT,10,20,30,40
`

const productsCSV = `product_id,product_name,annual_revenue_eur_m,component_supplier_ids
P001,Controller X,120.5,"S002,S001"
P002,Widget,40,S002
`

func TestReadSuppliers(t *testing.T) {
	suppliers, err := ReadSuppliers(strings.NewReader(suppliersCSV))
	if err != nil {
		t.Fatalf("ReadSuppliers failed: %v", err)
	}
	if len(suppliers) != 2 {
		t.Fatalf("got %d suppliers, want 2", len(suppliers))
	}

	s := suppliers[0]
	if s.ID != "S001" || s.Tier != 2 || s.CountryCode != "TW" {
		t.Errorf("first supplier parsed wrong: %+v", s)
	}
	if s.ContractValue != 3.5 || s.LeadTimeDays != 45 || s.FinancialHealth != 72 || s.PastDisruptions != 1 {
		t.Errorf("numeric fields parsed wrong: %+v", s)
	}
	if s.HasBackup {
		t.Error("S001 has_backup = true, want false")
	}
	if !suppliers[1].HasBackup {
		t.Error("S002 has_backup = false, want true")
	}
}

func TestReadSuppliersRejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "wrong column count",
			csv:  "id,name,tier\nS001,Acme,2\n",
		},
		{
			name: "non-numeric tier",
			csv: strings.Replace(suppliersCSV,
				"S001,Acme Chips,2,", "S001,Acme Chips,two,", 1),
		},
		{
			name: "tier out of range",
			csv: strings.Replace(suppliersCSV,
				"S001,Acme Chips,2,", "S001,Acme Chips,7,", 1),
		},
		{
			name: "financial health above 100",
			csv: strings.Replace(suppliersCSV,
				",45,72,1,false", ",45,140,1,false", 1),
		},
		{
			name: "empty file",
			csv:  "id,name,tier,component,country,country_code,region,contract_value_eur_m,lead_time_days,financial_health,past_disruptions,has_backup\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadSuppliers(strings.NewReader(tt.csv)); err == nil {
				t.Error("bad CSV accepted")
			}
		})
	}
}

func TestReadDependencies(t *testing.T) {
	deps, err := ReadDependencies(strings.NewReader(depsCSV))
	if err != nil {
		t.Fatalf("ReadDependencies failed: %v", err)
	}
	if len(deps) != 1 {
		t.Fatalf("got %d deps, want 1", len(deps))
	}
	if deps[0].SourceID != "S001" || deps[0].TargetID != "S002" || deps[0].Weight != 80 {
		t.Errorf("dependency parsed wrong: %+v", deps[0])
	}

	bad := "source_id,target_id,dependency_weight\nS001,S002,150\n"
	if _, err := ReadDependencies(strings.NewReader(bad)); err == nil {
		t.Error("weight 150 accepted")
	}
}

func TestHeaderOnlyTables(t *testing.T) {
	// Dependencies and country overrides may legitimately be empty; the
	// supplier master and product BOM may not.
	deps, err := ReadDependencies(strings.NewReader("source_id,target_id,dependency_weight\n"))
	if err != nil {
		t.Errorf("header-only dependencies rejected: %v", err)
	}
	if len(deps) != 0 {
		t.Errorf("got %d deps from header-only file", len(deps))
	}

	countries, err := ReadCountryRisk(strings.NewReader("country,country_code,political_stability,natural_disaster_freq,logistics_performance,trade_restriction_risk\n"))
	if err != nil {
		t.Errorf("header-only country overrides rejected: %v", err)
	}
	if len(countries) != 0 {
		t.Errorf("got %d countries from header-only file", len(countries))
	}

	if _, err := ReadProducts(strings.NewReader("product_id,product_name,annual_revenue_eur_m,component_supplier_ids\n")); err == nil {
		t.Error("header-only product BOM accepted")
	}
	if _, err := ReadDependencies(strings.NewReader("")); err == nil {
		t.Error("dependency file without a header accepted")
	}
}

func TestReadCountryRisk(t *testing.T) {
	countries, err := ReadCountryRisk(strings.NewReader(countryCSV))
	if err != nil {
		t.Fatalf("ReadCountryRisk failed: %v", err)
	}
	if len(countries) != 1 {
		t.Fatalf("got %d countries, want 1", len(countries))
	}
	c := countries[0]
	if c.CountryCode != "AT" || c.PoliticalStability != 10 || c.TradeRestrictionRisk != 40 {
		t.Errorf("country parsed wrong: %+v", c)
	}
}

func TestReadProducts(t *testing.T) {
	products, err := ReadProducts(strings.NewReader(productsCSV))
	if err != nil {
		t.Fatalf("ReadProducts failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}

	p := products[0]
	if p.ID != "P001" || p.AnnualRevenue != 120.5 {
		t.Errorf("product parsed wrong: %+v", p)
	}
	if !reflect.DeepEqual(p.SupplierIDs, []string{"S002", "S001"}) {
		t.Errorf("supplier ids = %v, want [S002 S001]", p.SupplierIDs)
	}
	if !reflect.DeepEqual(products[1].SupplierIDs, []string{"S002"}) {
		t.Errorf("single supplier id = %v", products[1].SupplierIDs)
	}
}

func TestReadProductsRejectsEmptySupplierList(t *testing.T) {
	bad := "product_id,product_name,annual_revenue_eur_m,component_supplier_ids\nP001,Thing,10,\n"
	if _, err := ReadProducts(strings.NewReader(bad)); err == nil {
		t.Error("product with no suppliers accepted")
	}
}

func TestErrorsNameTableAndLine(t *testing.T) {
	bad := strings.Replace(suppliersCSV, "S002,Bolt GmbH,1,", "S002,Bolt GmbH,one,", 1)
	_, err := ReadSuppliers(strings.NewReader(bad))
	if err == nil {
		t.Fatal("bad CSV accepted")
	}
	if !strings.Contains(err.Error(), "suppliers line 3") {
		t.Errorf("error %q does not name the table and line", err)
	}
}
