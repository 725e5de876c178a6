package models

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// CategoryAll is the filter sentinel meaning "no category constraint".
const CategoryAll = "all"

const (
	DefaultPriceMin = 0
	DefaultPriceMax = 10000
)

// Criteria is the client-held filter and sort state. It is never persisted.
type Criteria struct {
	Query    string  `json:"query"`
	Category string  `json:"category"`
	PriceMin float64 `json:"price_min"`
	PriceMax float64 `json:"price_max"`
	Location string  `json:"location"`
	Sort     SortKey `json:"sort"`
}

func DefaultCriteria() Criteria {
	return Criteria{
		Category: CategoryAll,
		PriceMin: DefaultPriceMin,
		PriceMax: DefaultPriceMax,
		Sort:     SortNewest,
	}
}

// ParseSortKey maps user input to a sort key, falling back to newest.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceLow, SortPriceHigh, SortRating:
		return SortKey(s)
	default:
		return SortNewest
	}
}
