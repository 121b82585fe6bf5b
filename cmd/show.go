package cmd

import (
	"github.com/spf13/cobra"

	"github.com/whereisit-project/whereisit/internal/listing"
	"github.com/whereisit-project/whereisit/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show post details",
	Long: `Show a post with its reporter's contact details. Requires sign-in.

Examples:
  whereisit show 665f1c2e                  # Post details
  whereisit show 665f1c2e --thumbnail      # Also check the thumbnail image
  whereisit show 665f1c2e --preview 40     # Thumbnail preview 40 columns wide`,
	Args: exactArgs(1, "<id>"),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("thumbnail", false, "check the thumbnail image")
	showCmd.Flags().Int("preview", 0, "print a text preview of the thumbnail this many columns wide")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	probe, _ := cmd.Flags().GetBool("thumbnail")
	width, _ := cmd.Flags().GetInt("preview")

	if _, err := requireSession(ctx); err != nil {
		return err
	}

	view := listing.NewDetailView(listingDeps())
	defer view.Unmount()
	if err := view.Load(ctx, args[0]); err != nil {
		return shown(err)
	}
	post, _ := view.Post()

	if format != output.FormatTable {
		return output.Encode(printer.Out(), format, post)
	}

	printer.ListingDetail(post)
	if probe || width > 0 {
		showThumbnail(cmd, post.Thumbnail, width)
	}
	if view.CanClaim() {
		printer.Print("\nStill open. Record its recovery with: whereisit claim %s --location <place>", post.ID)
	}
	printer.PrintHints("show")
	return nil
}

// showThumbnail prints the thumbnail check. A broken thumbnail is a
// warning, not a failure of the command.
func showThumbnail(cmd *cobra.Command, rawURL string, width int) {
	ctx := cmd.Context()
	prober, err := newProber()
	if err != nil {
		printer.Warning("Thumbnail check unavailable: %v", err)
		return
	}
	info, err := prober.Probe(ctx, rawURL)
	if err != nil {
		logger.DebugContext(ctx, "thumbnail probe failed", "url", rawURL, "error", err)
		printer.Warning("%s", output.FromError(err).Summary)
		return
	}
	var preview string
	if width > 0 {
		if preview, err = prober.Preview(ctx, rawURL, width); err != nil {
			printer.Warning("Thumbnail preview failed: %v", err)
		}
	}
	printer.Thumbnail(info, preview)
}
