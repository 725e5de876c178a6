package main

import (
	"github.com/spf13/cobra"

	"kisan_bazaar/services"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a market report for the listings matching the list filters",
	RunE:  runSummary,
}

func init() {
	addFilterFlags(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	a.pipeline.SetCriteria(listCriteria())
	if err := a.pipeline.Refresh(cmd.Context()); err != nil {
		return userError(err)
	}

	svc := services.NewInsightService(a.logger, a.cfg.Categories)
	svc.Print(cmd.OutOrStdout(), svc.Generate(a.pipeline.View()))
	return nil
}
