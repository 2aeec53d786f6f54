// Package bom indexes the product bill of materials: which tier-1 suppliers
// feed which products, and how much annual revenue rides on each supplier
// directly and through its downstream cascade.
package bom

import (
	"sort"

	"github.com/chainsight-io/chainsight/pkg/graph"
	"github.com/chainsight-io/chainsight/pkg/model"
)

// Index holds the product/supplier maps for one run. Read-only after build.
type Index struct {
	products        map[string]model.Product
	productOrder    []string            // product ids, sorted
	productsBySupID map[string][]string // supplier id -> product ids, sorted
}

// Exposure is the revenue riding on one supplier.
type Exposure struct {
	Direct           float64 `json:"direct_revenue"`
	Indirect         float64 `json:"indirect_revenue"`
	WeightedIndirect float64 `json:"weighted_indirect_revenue"`
	Total            float64 `json:"total_exposure"`
	AffectedProducts int     `json:"affected_products"`
	DownstreamCount  int     `json:"downstream_suppliers"`
}

// indirectWeight discounts cascading revenue: downstream failures are
// possible, not certain.
const indirectWeight = 0.5

// NewIndex builds the product/supplier index.
func NewIndex(products []model.Product) *Index {
	idx := &Index{
		products:        make(map[string]model.Product, len(products)),
		productsBySupID: make(map[string][]string),
	}
	for _, p := range products {
		idx.products[p.ID] = p
		idx.productOrder = append(idx.productOrder, p.ID)
		for _, sup := range p.SupplierIDs {
			idx.productsBySupID[sup] = append(idx.productsBySupID[sup], p.ID)
		}
	}
	sort.Strings(idx.productOrder)
	for sup := range idx.productsBySupID {
		sort.Strings(idx.productsBySupID[sup])
	}
	return idx
}

// Product returns one BOM entry by id.
func (idx *Index) Product(id string) (model.Product, bool) {
	p, ok := idx.products[id]
	return p, ok
}

// ProductIDs returns all product ids in sorted order.
func (idx *Index) ProductIDs() []string {
	ids := make([]string, len(idx.productOrder))
	copy(ids, idx.productOrder)
	return ids
}

// ProductsOf returns the ids of products directly listing the supplier.
func (idx *Index) ProductsOf(supplierID string) []string {
	return idx.productsBySupID[supplierID]
}

// ProductsDependingOnAny returns the ids of products that list at least one
// supplier from the failed set, in sorted order.
func (idx *Index) ProductsDependingOnAny(failed map[string]bool) []string {
	var affected []string
	for _, pid := range idx.productOrder {
		for _, sup := range idx.products[pid].SupplierIDs {
			if failed[sup] {
				affected = append(affected, pid)
				break
			}
		}
	}
	return affected
}

// ExposureOf computes the revenue exposure of one supplier: the revenue of
// products listing it directly, plus half-weighted revenue of products that
// depend on any of its descendants (counted once, direct wins over indirect).
func (idx *Index) ExposureOf(supplierID string, reach *graph.Reach) Exposure {
	var exp Exposure

	direct := make(map[string]bool)
	for _, pid := range idx.productsBySupID[supplierID] {
		direct[pid] = true
		exp.Direct += idx.products[pid].AnnualRevenue
	}
	exp.AffectedProducts = len(direct)

	descendants := reach.Descendants(supplierID)
	exp.DownstreamCount = len(descendants)

	indirect := make(map[string]bool)
	for _, desc := range descendants {
		for _, pid := range idx.productsBySupID[desc] {
			if !direct[pid] && !indirect[pid] {
				indirect[pid] = true
				exp.Indirect += idx.products[pid].AnnualRevenue
			}
		}
	}

	exp.WeightedIndirect = exp.Indirect * indirectWeight
	exp.Total = exp.Direct + exp.WeightedIndirect
	return exp
}
