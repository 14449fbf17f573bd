package domain

import (
	"github.com/samber/lo"
)

// CategoryID identifies the asset class a contribution stream belongs to.
type CategoryID string

const (
	CategoryLargeCap CategoryID = "large_cap"
	CategoryMidCap   CategoryID = "mid_cap"
	CategorySmallCap CategoryID = "small_cap"
	CategoryFlexiCap CategoryID = "flexi_cap"
	CategoryIndex    CategoryID = "index"
	CategoryDebt     CategoryID = "debt"
	CategoryHybrid   CategoryID = "hybrid"
	CategoryGold     CategoryID = "gold"
	CategoryELSS     CategoryID = "elss"
)

// Category describes an asset class and the return assumed when none is given.
type Category struct {
	ID                         CategoryID `json:"id"`
	DisplayName                string     `json:"displayName"`
	DefaultAnnualReturnPercent float64    `json:"defaultAnnualReturnPercent"`
}

// CategoryRegistry is the static table of known asset classes.
var CategoryRegistry = []Category{
	{ID: CategoryLargeCap, DisplayName: "Large Cap Equity", DefaultAnnualReturnPercent: 12},
	{ID: CategoryMidCap, DisplayName: "Mid Cap Equity", DefaultAnnualReturnPercent: 15},
	{ID: CategorySmallCap, DisplayName: "Small Cap Equity", DefaultAnnualReturnPercent: 18},
	{ID: CategoryFlexiCap, DisplayName: "Flexi Cap Equity", DefaultAnnualReturnPercent: 13},
	{ID: CategoryIndex, DisplayName: "Index Fund", DefaultAnnualReturnPercent: 11},
	{ID: CategoryDebt, DisplayName: "Debt Fund", DefaultAnnualReturnPercent: 7},
	{ID: CategoryHybrid, DisplayName: "Hybrid Fund", DefaultAnnualReturnPercent: 10},
	{ID: CategoryGold, DisplayName: "Gold", DefaultAnnualReturnPercent: 8},
	{ID: CategoryELSS, DisplayName: "ELSS (Tax Saver)", DefaultAnnualReturnPercent: 12},
}

// CategoryByID looks up a category in the registry.
// Returns the category and true if found, zero value and false otherwise.
func CategoryByID(id CategoryID) (Category, bool) {
	return lo.Find(CategoryRegistry, func(c Category) bool {
		return c.ID == id
	})
}

// DefaultReturn returns the registry's default annual return for id.
func DefaultReturn(id CategoryID) (float64, error) {
	c, ok := CategoryByID(id)
	if !ok {
		return 0, ErrUnknownCategory
	}
	return c.DefaultAnnualReturnPercent, nil
}
