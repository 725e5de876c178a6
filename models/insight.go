package models

// InsightReport summarises a set of listings for the market report.
type InsightReport struct {
	TotalListings      int
	ActiveListings     int
	SoldListings       int
	AveragePrice       float64
	MinPrice           float64
	MaxPrice           float64
	MostExpensive      *Listing
	TopRated           []Listing
	ListingsByCategory map[string]int
	ListingsByLocation map[string]int
}
