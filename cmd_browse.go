package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"kisan_bazaar/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse, filter and add listings interactively",
	RunE:  runBrowse,
}

func init() {
	addFilterFlags(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	quietConsole = true
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	a.pipeline.SetCriteria(listCriteria())

	p := tea.NewProgram(
		tui.New(cmd.Context(), a.pipeline, a.cfg.Categories, a.cfg.Scheduler.Interval),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)
	_, err = p.Run()
	return err
}
