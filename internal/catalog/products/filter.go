package products

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocklane/stocklane/internal/catalog/shared"
)

// FilterSpec describes the active search/filter/sort criteria for a product
// list. The zero value matches everything and sorts by name ascending.
type FilterSpec struct {
	Search     string
	Category   string // category id or "all"
	Supplier   string // supplier id or "all"
	StockLevel string // "all", "out", "low" or "normal"
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	SortBy     string // "name", "price", "stock" or "created_at"
	SortOrder  string // "asc" or "desc"
}

// Sort keys accepted by Visible.
const (
	SortByName    = "name"
	SortByPrice   = "price"
	SortByStock   = "stock"
	SortByCreated = "created_at"
)

// Stock level facets accepted by Visible.
const (
	StockLevelAll    = "all"
	StockLevelOut    = "out"
	StockLevelLow    = "low"
	StockLevelNormal = "normal"
)

// Visible derives the ordered subset of products matching the spec. It is a
// pure function: the input slice is never mutated and equal sort keys keep
// their relative input order under either sort direction.
func Visible(products []Product, spec FilterSpec) []Product {
	visible := make([]Product, 0, len(products))
	for _, p := range products {
		if matches(p, spec) {
			visible = append(visible, p)
		}
	}
	sortProducts(visible, spec)
	return visible
}

func matches(p Product, spec FilterSpec) bool {
	if search := strings.TrimSpace(spec.Search); search != "" {
		needle := strings.ToLower(search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.SKU), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	if !facetMatches(spec.Category, p.CategoryID) {
		return false
	}
	if !facetMatches(spec.Supplier, p.SupplierID) {
		return false
	}
	switch spec.StockLevel {
	case "", StockLevelAll:
	case StockLevelOut:
		if p.Bucket() != StockOut {
			return false
		}
	case StockLevelLow:
		if p.Bucket() != StockLow {
			return false
		}
	case StockLevelNormal:
		if p.Bucket() != StockNormal {
			return false
		}
	default:
		return false
	}
	if spec.PriceMin != nil && p.Price.LessThan(*spec.PriceMin) {
		return false
	}
	if spec.PriceMax != nil && p.Price.GreaterThan(*spec.PriceMax) {
		return false
	}
	return true
}

func facetMatches(facet string, id *uuid.UUID) bool {
	if facet == "" || facet == shared.FilterAll {
		return true
	}
	return id != nil && id.String() == facet
}

func sortProducts(items []Product, spec FilterSpec) {
	desc := spec.SortOrder == shared.SortDesc
	less := lessFunc(spec.SortBy)
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

func lessFunc(sortBy string) func(a, b Product) bool {
	switch sortBy {
	case SortByPrice:
		return func(a, b Product) bool { return a.Price.LessThan(b.Price) }
	case SortByStock:
		return func(a, b Product) bool { return a.StockQuantity < b.StockQuantity }
	case SortByCreated:
		return func(a, b Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return func(a, b Product) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}
}
