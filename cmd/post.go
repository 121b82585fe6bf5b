package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/whereisit-project/whereisit/internal/domain"
	"github.com/whereisit-project/whereisit/internal/listing"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Create, update and delete your posts",
}

var postCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Report a lost or found item",
	Long: `Report a lost or found item as the signed-in user.

Examples:
  whereisit post create --type lost --title "Brown wallet" \
    --description "Leather, two cards inside" --category wallets \
    --location "Central station" --date 2024-06-14 \
    --thumbnail https://img.example.com/wallet.png`,
	Args: exactArgs(0),
	RunE: runPostCreate,
}

var postUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update one of your posts",
	Long: `Update the fields given on the command line. Only changed fields are sent.

Examples:
  whereisit post update 665f1c2e --location "Lost property office"
  whereisit post update 665f1c2e --type found --date 2024-06-15`,
	Args: exactArgs(1, "<id>"),
	RunE: runPostUpdate,
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your posts",
	Long: `Delete a post you created. Asks for confirmation unless --yes is given.

Examples:
  whereisit post delete 665f1c2e
  whereisit post delete 665f1c2e --yes`,
	Args: exactArgs(1, "<id>"),
	RunE: runPostDelete,
}

func init() {
	rootCmd.AddCommand(postCmd)
	postCmd.AddCommand(postCreateCmd, postUpdateCmd, postDeleteCmd)

	for _, c := range []*cobra.Command{postCreateCmd, postUpdateCmd} {
		c.Flags().String("type", "Lost", "report type: Lost or Found")
		c.Flags().String("title", "", "title")
		c.Flags().String("description", "", "description")
		c.Flags().String("category", "", "category: electronics, documents, pets, accessories, jewelry, wallets, keys, others")
		c.Flags().String("location", "", "where the item was lost or found")
		c.Flags().String("thumbnail", "", "image URL")
		c.Flags().String("date", "", "date lost or found, YYYY-MM-DD (default today)")
		c.Flags().Bool("check-thumbnail", false, "check that the thumbnail URL serves an image before submitting")
	}
	postDeleteCmd.Flags().Bool("yes", false, "skip confirmation")
}

func draftFromFlags(fl *pflag.FlagSet) (listing.Draft, error) {
	typ, _ := fl.GetString("type")
	title, _ := fl.GetString("title")
	description, _ := fl.GetString("description")
	category, _ := fl.GetString("category")
	location, _ := fl.GetString("location")
	thumb, _ := fl.GetString("thumbnail")
	rawDate, _ := fl.GetString("date")

	date, err := parseDate(rawDate)
	if err != nil {
		return listing.Draft{}, err
	}
	return listing.Draft{
		Title:       title,
		Description: description,
		Location:    location,
		Category:    domain.Category(category),
		Thumbnail:   thumb,
		PostType:    domain.PostType(typ),
		Date:        date,
	}.Normalize(), nil
}

func runPostCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	draft, err := draftFromFlags(cmd.Flags())
	if err != nil {
		return err
	}
	if _, err := requireSession(ctx); err != nil {
		return err
	}
	if check, _ := cmd.Flags().GetBool("check-thumbnail"); check && draft.Thumbnail != "" {
		if err := checkThumbnail(ctx, draft.Thumbnail); err != nil {
			return err
		}
	}

	if err := listing.NewMutator(listingDeps()).Create(ctx, draft); err != nil {
		return shown(err)
	}
	printer.PrintHints("post create")
	return nil
}

func runPostUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fl := cmd.Flags()

	if _, err := requireSession(ctx); err != nil {
		return err
	}
	session, err := listing.NewMutator(listingDeps()).Edit(ctx, args[0])
	if err != nil {
		return shown(err)
	}

	var editErr error
	fl.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "type":
			session.SetPostType(domain.PostType(f.Value.String()))
		case "title":
			session.SetTitle(f.Value.String())
		case "description":
			session.SetDescription(f.Value.String())
		case "category":
			session.SetCategory(domain.Category(f.Value.String()))
		case "location":
			session.SetLocation(f.Value.String())
		case "thumbnail":
			session.SetThumbnail(f.Value.String())
		case "date":
			date, err := parseDate(f.Value.String())
			if err != nil {
				editErr = err
				return
			}
			session.SetDate(date)
		}
	})
	if editErr != nil {
		return editErr
	}

	if check, _ := fl.GetBool("check-thumbnail"); check {
		if _, changed := session.Changes()["thumbnail"]; changed {
			if err := checkThumbnail(ctx, session.Form().Thumbnail); err != nil {
				return err
			}
		}
	}

	if err := session.Submit(ctx); err != nil {
		if errors.Is(err, domain.ErrNoChanges) {
			return nil
		}
		return shown(err)
	}
	printer.PrintHints("post update")
	return nil
}

func runPostDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		if !confirm(cmd.InOrStdin(), fmt.Sprintf("Delete post %s?", id)) {
			printer.Info("Cancelled")
			return nil
		}
	}
	if _, err := requireSession(ctx); err != nil {
		return err
	}

	view := listing.NewMyPostsView(listingDeps())
	defer view.Unmount()
	if err := view.Delete(ctx, id); err != nil {
		return shown(err)
	}
	printer.PrintHints("post delete")
	return nil
}
