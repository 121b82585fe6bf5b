package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whereisit-project/whereisit/internal/listing"
)

var recoveredCmd = &cobra.Command{
	Use:   "recovered",
	Short: "List items you recovered",
	Long: `List the recoveries you recorded, as cards or as a table.

Examples:
  whereisit recovered                  # Cards
  whereisit recovered --view table     # Table`,
	Args: exactArgs(0),
	RunE: runRecovered,
}

func init() {
	rootCmd.AddCommand(recoveredCmd)

	recoveredCmd.Flags().String("view", "grid", "layout: grid or table")
}

func runRecovered(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	layout, _ := cmd.Flags().GetString("view")
	if layout != "grid" && layout != "table" {
		return usageError(fmt.Errorf("invalid view %q: must be grid or table", layout))
	}
	if _, err := requireSession(ctx); err != nil {
		return err
	}

	view := listing.NewRecoveredView(listingDeps())
	defer view.Unmount()
	if err := view.Load(ctx); err != nil {
		return shown(err)
	}
	items := view.Items()
	return emit(items, func() error {
		if err := printer.Recovered(items, layout); err != nil {
			return err
		}
		printer.PrintHints("recovered")
		return nil
	})
}
