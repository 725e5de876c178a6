package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	logFile string
)

var rootCmd = &cobra.Command{
	Use:   "kisan",
	Short: "Kisan Bazaar - farm produce marketplace",
	Long: `Kisan Bazaar lists crops offered by farmers and lets signed-in farmers
post new listings. Listings are read from the app's shared collection and
filtered locally by text, category, price range and location.

Storage is selected with STORAGE_BACKEND (supabase, postgres or sqlite).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this file (or set LOG_FILE)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(browseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
