package marketplace

import (
	"sort"
	"strings"

	"kisan_bazaar/models"
)

// Apply returns the listings that satisfy every predicate of c, in the order c.Sort
// asks for. It never modifies listings; ties keep their fetch order.
func Apply(listings []models.Listing, c models.Criteria) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	if len(listings) == 0 {
		return out
	}

	query := strings.ToLower(c.Query)
	location := strings.ToLower(c.Location)

	for _, l := range listings {
		if Matches(l, c.Category, c.PriceMin, c.PriceMax, query, location) {
			out = append(out, l)
		}
	}

	sortListings(out, c.Sort)
	return out
}

// Matches evaluates the four filter predicates. query and location must already be
// lower-cased.
func Matches(l models.Listing, category string, minPrice, maxPrice float64, query, location string) bool {
	return matchesSearch(l, query) &&
		matchesCategory(l, category) &&
		l.Price >= minPrice && l.Price <= maxPrice &&
		matchesLocation(l, location)
}

func matchesSearch(l models.Listing, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Crop), query) ||
		strings.Contains(strings.ToLower(l.Farmer), query) ||
		strings.Contains(strings.ToLower(l.Location), query)
}

func matchesCategory(l models.Listing, category string) bool {
	return category == "" || category == models.CategoryAll || l.Category == category
}

func matchesLocation(l models.Listing, location string) bool {
	return location == "" || strings.Contains(strings.ToLower(l.Location), location)
}

func sortListings(ls []models.Listing, key models.SortKey) {
	switch key {
	case models.SortPriceLow:
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].Price < ls[j].Price })
	case models.SortPriceHigh:
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].Price > ls[j].Price })
	case models.SortRating:
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].Rating > ls[j].Rating })
	default:
		sort.SliceStable(ls, func(i, j int) bool { return newer(ls[i], ls[j]) })
	}
}

// newer orders by raw timestamp descending with pending records last.
func newer(a, b models.Listing) bool {
	if a.Pending != b.Pending {
		return !a.Pending
	}
	if a.Pending {
		return false
	}
	return a.DatePosted.After(b.DatePosted)
}
