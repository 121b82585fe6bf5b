package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whereisit-project/whereisit/internal/domain"
	"github.com/whereisit-project/whereisit/internal/listing"
)

var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"ls"},
	Short:   "Browse lost and found reports page by page",
	Long: `Browse every report with server-side pagination. Filters narrow the
loaded page.

Examples:
  whereisit browse                          # First page
  whereisit browse --page 3 --limit 9       # Third page, nine per page
  whereisit browse --type found --category keys
  whereisit browse --query wallet           # Title or location contains "wallet"`,
	Args: exactArgs(0),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().Int("page", 1, "page to load")
	browseCmd.Flags().Int("limit", 0, "items per page: 6, 7, 8 or 9 (default from config)")
	browseCmd.Flags().String("type", "all", "report type: all, lost or found")
	browseCmd.Flags().String("category", "all", "item category")
	browseCmd.Flags().String("query", "", "search title and location")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	fl := cmd.Flags()
	page, _ := fl.GetInt("page")
	limit, _ := fl.GetInt("limit")
	typ, _ := fl.GetString("type")
	category, _ := fl.GetString("category")
	query, _ := fl.GetString("query")

	if page < 1 {
		return usageError(fmt.Errorf("--page must be at least 1, got %d", page))
	}
	if limit == 0 {
		limit = cfg.Browse.DefaultLimit
	}
	filter, err := listing.ParseFilter(typ, category, query)
	if err != nil {
		return usageError(err)
	}
	view, err := listing.NewBrowseView(listingDeps(), limit)
	if err != nil {
		return usageError(err)
	}
	defer view.Unmount()

	view.SetFilter(filter)
	if err := view.MountAt(cmd.Context(), page); err != nil {
		return shown(err)
	}

	st := view.State()
	return emit(domain.PostPage{Posts: st.Visible, Pagination: st.Pagination}, func() error {
		if err := printer.Listings(st.Visible); err != nil {
			return err
		}
		printer.Pagination(st.Pagination, st.Window, len(st.Visible))
		printer.PrintHints("browse")
		return nil
	})
}
