package products

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fixtureProducts() ([]Product, uuid.UUID, uuid.UUID) {
	catElectronics := uuid.New()
	supAcme := uuid.New()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	items := []Product{
		{
			ID: uuid.New(), Name: "Wireless Mouse", SKU: "WM-100",
			Description: "ergonomic mouse", Price: price("29.90"),
			StockQuantity: 40, LowStockThreshold: 10,
			CategoryID: &catElectronics, SupplierID: &supAcme,
			CreatedAt: base,
		},
		{
			ID: uuid.New(), Name: "USB Cable", SKU: "UC-200",
			Price:         price("9.50"),
			StockQuantity: 3, LowStockThreshold: 5,
			CategoryID: &catElectronics,
			CreatedAt:  base.Add(24 * time.Hour),
		},
		{
			ID: uuid.New(), Name: "Desk Lamp", SKU: "DL-300",
			Price:         price("45.00"),
			StockQuantity: 0, LowStockThreshold: 5,
			SupplierID: &supAcme,
			CreatedAt:  base.Add(48 * time.Hour),
		},
		{
			ID: uuid.New(), Name: "notebook", SKU: "NB-400",
			Description:   "ruled paper notebook",
			Price:         price("4.25"),
			StockQuantity: 120, LowStockThreshold: 20,
			CreatedAt: base.Add(72 * time.Hour),
		},
	}
	return items, catElectronics, supAcme
}

func names(items []Product) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.Name
	}
	return out
}

func TestVisibleZeroSpecSortsByName(t *testing.T) {
	items, _, _ := fixtureProducts()

	got := Visible(items, FilterSpec{})
	require.Equal(t, []string{"Desk Lamp", "notebook", "USB Cable", "Wireless Mouse"}, names(got))

	// Input order untouched.
	require.Equal(t, "Wireless Mouse", items[0].Name)
}

func TestVisibleSearchIsCaseInsensitive(t *testing.T) {
	items, _, _ := fixtureProducts()

	got := Visible(items, FilterSpec{Search: "  MOUSE "})
	require.Equal(t, []string{"Wireless Mouse"}, names(got))

	// SKU and description participate in the search.
	got = Visible(items, FilterSpec{Search: "uc-200"})
	require.Equal(t, []string{"USB Cable"}, names(got))
	got = Visible(items, FilterSpec{Search: "ruled paper"})
	require.Equal(t, []string{"notebook"}, names(got))
}

func TestVisibleFacets(t *testing.T) {
	items, cat, sup := fixtureProducts()

	got := Visible(items, FilterSpec{Category: cat.String()})
	require.Equal(t, []string{"USB Cable", "Wireless Mouse"}, names(got))

	got = Visible(items, FilterSpec{Supplier: sup.String()})
	require.Equal(t, []string{"Desk Lamp", "Wireless Mouse"}, names(got))

	// "all" and empty behave identically.
	require.Len(t, Visible(items, FilterSpec{Category: "all", Supplier: "all"}), 4)

	// Unassigned products never match a concrete facet.
	got = Visible(items, FilterSpec{Category: uuid.New().String()})
	require.Empty(t, got)
}

func TestVisibleStockLevels(t *testing.T) {
	items, _, _ := fixtureProducts()

	require.Equal(t, []string{"Desk Lamp"}, names(Visible(items, FilterSpec{StockLevel: StockLevelOut})))
	require.Equal(t, []string{"USB Cable"}, names(Visible(items, FilterSpec{StockLevel: StockLevelLow})))
	require.Equal(t, []string{"notebook", "Wireless Mouse"}, names(Visible(items, FilterSpec{StockLevel: StockLevelNormal})))

	// An unknown stock level matches nothing rather than everything.
	require.Empty(t, Visible(items, FilterSpec{StockLevel: "backordered"}))
}

func TestVisiblePriceRange(t *testing.T) {
	items, _, _ := fixtureProducts()

	min := price("9.50")
	max := price("29.90")
	got := Visible(items, FilterSpec{PriceMin: &min, PriceMax: &max})
	// Bounds are inclusive.
	require.Equal(t, []string{"USB Cable", "Wireless Mouse"}, names(got))

	// Min above max yields an empty set, not an error.
	lo := price("50")
	hi := price("10")
	require.Empty(t, Visible(items, FilterSpec{PriceMin: &lo, PriceMax: &hi}))
}

func TestVisibleSortKeysAndOrder(t *testing.T) {
	items, _, _ := fixtureProducts()

	got := Visible(items, FilterSpec{SortBy: SortByPrice})
	require.Equal(t, []string{"notebook", "USB Cable", "Wireless Mouse", "Desk Lamp"}, names(got))

	got = Visible(items, FilterSpec{SortBy: SortByPrice, SortOrder: "desc"})
	require.Equal(t, []string{"Desk Lamp", "Wireless Mouse", "USB Cable", "notebook"}, names(got))

	got = Visible(items, FilterSpec{SortBy: SortByStock})
	require.Equal(t, []string{"Desk Lamp", "USB Cable", "Wireless Mouse", "notebook"}, names(got))

	got = Visible(items, FilterSpec{SortBy: SortByCreated, SortOrder: "desc"})
	require.Equal(t, []string{"notebook", "Desk Lamp", "USB Cable", "Wireless Mouse"}, names(got))
}

func TestVisibleSortIsStable(t *testing.T) {
	samePrice := price("10.00")
	items := []Product{
		{ID: uuid.New(), Name: "c", Price: samePrice},
		{ID: uuid.New(), Name: "a", Price: samePrice},
		{ID: uuid.New(), Name: "b", Price: samePrice},
	}

	// Equal keys keep input order in both directions.
	got := Visible(items, FilterSpec{SortBy: SortByPrice})
	require.Equal(t, []string{"c", "a", "b"}, names(got))

	got = Visible(items, FilterSpec{SortBy: SortByPrice, SortOrder: "desc"})
	require.Equal(t, []string{"c", "a", "b"}, names(got))
}

func TestVisibleDeterministic(t *testing.T) {
	items, cat, _ := fixtureProducts()
	spec := FilterSpec{Category: cat.String(), SortBy: SortByPrice}

	first := Visible(items, spec)
	second := Visible(items, spec)
	require.Equal(t, first, second)

	// Filtering the result again is a no-op.
	require.Equal(t, first, Visible(first, spec))
}

func TestVisibleEmptyInput(t *testing.T) {
	require.Empty(t, Visible(nil, FilterSpec{}))
	require.Empty(t, Visible([]Product{}, FilterSpec{Search: "x"}))
}
