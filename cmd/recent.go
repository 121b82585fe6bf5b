package cmd

import (
	"github.com/spf13/cobra"

	"github.com/whereisit-project/whereisit/internal/listing"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the newest lost and found reports",
	Long: `Show the six newest reports, as on the home page.

Examples:
  whereisit recent             # Newest reports
  whereisit recent -o json     # Output as JSON`,
	Args: exactArgs(0),
	RunE: runRecent,
}

func init() {
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, args []string) error {
	view := listing.NewRecentView(listingDeps())
	defer view.Unmount()

	if err := view.Load(cmd.Context()); err != nil {
		return shown(err)
	}
	posts := view.Posts()
	return emit(posts, func() error {
		if err := printer.Listings(posts); err != nil {
			return err
		}
		printer.PrintHints("recent")
		return nil
	})
}
