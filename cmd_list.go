package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"kisan_bazaar/marketplace"
	"kisan_bazaar/models"
)

var listOpts struct {
	query    string
	category string
	minPrice float64
	maxPrice float64
	location string
	sort     string
	asJSON   bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show listings matching the given filters",
	Long: `Fetches every listing in the collection, then filters and sorts locally.

Example:
  kisan list --query rice --category grains --max 5000 --sort price-low`,
	RunE: runList,
}

func init() {
	addFilterFlags(listCmd)
	listCmd.Flags().BoolVar(&listOpts.asJSON, "json", false, "Print the view as JSON")
}

// addFilterFlags binds the criteria flags shared by list, summary, export and watch.
func addFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&listOpts.query, "query", "q", "", "Match crop, farmer or location (case-insensitive)")
	f.StringVarP(&listOpts.category, "category", "c", models.CategoryAll, "Category value, or 'all'")
	f.Float64Var(&listOpts.minPrice, "min", models.DefaultPriceMin, "Minimum price (inclusive)")
	f.Float64Var(&listOpts.maxPrice, "max", models.DefaultPriceMax, "Maximum price (inclusive)")
	f.StringVarP(&listOpts.location, "location", "l", "", "Location substring")
	f.StringVarP(&listOpts.sort, "sort", "s", string(models.SortNewest), "newest, price-low, price-high or rating")
}

func listCriteria() models.Criteria {
	return models.Criteria{
		Query:    listOpts.query,
		Category: listOpts.category,
		PriceMin: listOpts.minPrice,
		PriceMax: listOpts.maxPrice,
		Location: listOpts.location,
		Sort:     models.ParseSortKey(listOpts.sort),
	}
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	a.pipeline.SetCriteria(listCriteria())
	if err := a.pipeline.Refresh(cmd.Context()); err != nil {
		return userError(err)
	}

	snap := a.pipeline.Snapshot()
	out := cmd.OutOrStdout()
	if listOpts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap.View)
	}
	printListings(out, snap, time.Now())
	return nil
}

func printListings(w io.Writer, snap marketplace.Snapshot, now time.Time) {
	fmt.Fprintf(w, "Showing %d of %d listings\n\n", len(snap.View), snap.Total)
	if len(snap.View) == 0 {
		fmt.Fprintln(w, "No listings match your filters.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CROP\tQTY\tPRICE\tGRADE\tLOCATION\tFARMER\tPOSTED\tID")
	for _, l := range snap.View {
		crop := strings.TrimSpace(l.CropIcon + " " + l.Crop)
		if l.Sold() {
			crop += " (sold)"
		}
		fmt.Fprintf(tw, "%s\t%g\t₹%.2f\t%s\t%s\t%s\t%s\t%s\n",
			crop, l.Quantity, l.Price, l.Grade, l.Location, l.Farmer,
			marketplace.FormatPosted(l, now), l.ID)
	}
	tw.Flush()
}
