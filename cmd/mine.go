package cmd

import (
	"github.com/spf13/cobra"

	"github.com/whereisit-project/whereisit/internal/listing"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List the posts you created",
	Args:  exactArgs(0),
	RunE:  runMine,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func runMine(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if _, err := requireSession(ctx); err != nil {
		return err
	}

	view := listing.NewMyPostsView(listingDeps())
	defer view.Unmount()
	if err := view.Load(ctx); err != nil {
		return shown(err)
	}
	posts := view.Posts()
	return emit(posts, func() error {
		if err := printer.Listings(posts); err != nil {
			return err
		}
		printer.PrintHints("mine")
		return nil
	})
}
