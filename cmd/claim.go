package cmd

import (
	"github.com/spf13/cobra"

	"github.com/whereisit-project/whereisit/internal/listing"
)

var claimCmd = &cobra.Command{
	Use:   "claim <id>",
	Short: "Record the recovery of an item",
	Long: `Record that an open lost or found item was recovered. A post can be
recovered once.

Examples:
  whereisit claim 665f1c2e --location "Gym front desk"
  whereisit claim 665f1c2e --location "Gym front desk" --date 2024-06-14`,
	Args: exactArgs(1, "<id>"),
	RunE: runClaim,
}

func init() {
	rootCmd.AddCommand(claimCmd)

	claimCmd.Flags().String("location", "", "where the item was recovered")
	claimCmd.Flags().String("date", "", "recovery date, YYYY-MM-DD (default today)")
}

func runClaim(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	location, _ := cmd.Flags().GetString("location")
	rawDate, _ := cmd.Flags().GetString("date")

	date, err := parseDate(rawDate)
	if err != nil {
		return err
	}
	if _, err := requireSession(ctx); err != nil {
		return err
	}

	view := listing.NewDetailView(listingDeps())
	defer view.Unmount()
	if err := view.Load(ctx, args[0]); err != nil {
		return shown(err)
	}
	if err := view.OpenClaim(); err != nil {
		return err
	}
	if err := view.Claim(ctx, listing.ClaimForm{Location: location, Date: date}); err != nil {
		return shown(err)
	}
	printer.PrintHints("claim")
	return nil
}
