package services

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"kisan_bazaar/models"
)

const topRatedLimit = 5

type InsightService struct {
	logger     *zap.Logger
	categories []models.Category
}

func NewInsightService(logger *zap.Logger, categories []models.Category) *InsightService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(categories) == 0 {
		categories = models.DefaultCategories
	}
	return &InsightService{logger: logger, categories: categories}
}

func (s *InsightService) Generate(listings []models.Listing) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByCategory: make(map[string]int),
		ListingsByLocation: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	var priced []models.Listing
	var rated []models.Listing

	for _, l := range listings {
		if l.Sold() {
			report.SoldListings++
		} else {
			report.ActiveListings++
		}
		if l.Price > 0 {
			priced = append(priced, l)
		}
		if l.Rating > 0 {
			rated = append(rated, l)
		}
		if l.Category != "" {
			report.ListingsByCategory[l.Category]++
		}
		if loc := strings.TrimSpace(l.Location); loc != "" {
			report.ListingsByLocation[loc]++
		}
	}

	// Price stats only cover listings with a real price
	if len(priced) > 0 {
		report.MinPrice = priced[0].Price
		report.MaxPrice = priced[0].Price
		mostExpensive := priced[0]
		var total float64
		for _, l := range priced {
			total += l.Price
			if l.Price < report.MinPrice {
				report.MinPrice = l.Price
			}
			if l.Price > report.MaxPrice {
				report.MaxPrice = l.Price
				mostExpensive = l
			}
		}
		report.MostExpensive = &mostExpensive
		report.AveragePrice = round2(total / float64(len(priced)))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}

	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].Rating > rated[j].Rating
	})
	if len(rated) > topRatedLimit {
		rated = rated[:topRatedLimit]
	}
	report.TopRated = rated

	s.logger.Debug("insights generated",
		zap.Int("total", report.TotalListings),
		zap.Int("priced", len(priced)),
		zap.Int("rated", len(rated)),
	)
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;32m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;32m  🌾 KISAN BAZAAR MARKET REPORT\033[0m\n")
	fmt.Fprintf(w, "\033[1;32m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total listings : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  Active         : \033[1m%d\033[0m\n", r.ActiveListings)
	fmt.Fprintf(w, "  Sold           : \033[1m%d\033[0m\n", r.SoldListings)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price Statistics (per quintal)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.AveragePrice > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m₹%.2f\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m₹%.2f\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m₹%.2f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.MostExpensive.Crop, 50))
		fmt.Fprintf(w, "  Location : %s\n", r.MostExpensive.Location)
		fmt.Fprintf(w, "  Price    : \033[1;31m₹%.2f\033[0m\n", r.MostExpensive.Price)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Top %d Rated Listings\033[0m\n", topRatedLimit)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopRated) == 0 {
		fmt.Fprintf(w, "  No rated listings found\n")
	} else {
		for i, l := range r.TopRated {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%.1f ★\033[0m\n",
				i+1, truncate(l.Crop, 38), l.Rating)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Listings by Category\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByCategory) == 0 {
		fmt.Fprintf(w, "  No category data\n")
	} else {
		// table order first, then anything the table doesn't know
		seen := make(map[string]bool)
		for _, c := range s.categories {
			if n, ok := r.ListingsByCategory[c.Value]; ok {
				fmt.Fprintf(w, "  %s %-27s %s (%d)\n", c.Icon, c.Label, bar(n), n)
				seen[c.Value] = true
			}
		}
		for _, lc := range sortedCounts(r.ListingsByCategory) {
			if !seen[lc.key] {
				fmt.Fprintf(w, "  %s %-27s %s (%d)\n", models.UnknownCropIcon, lc.key, bar(lc.count), lc.count)
			}
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Listings by Location\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByLocation) == 0 {
		fmt.Fprintf(w, "  No location data\n")
	} else {
		for _, lc := range sortedCounts(r.ListingsByLocation) {
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(lc.key, 28), bar(lc.count), lc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;32m%s\033[0m\n\n", sep)
}

type keyCount struct {
	key   string
	count int
}

// sortedCounts orders by count descending, then key, so output is stable.
func sortedCounts(m map[string]int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, n := range m {
		out = append(out, keyCount{k, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}

func bar(n int) string {
	if n > 40 {
		n = 40
	}
	return strings.Repeat("█", n)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
