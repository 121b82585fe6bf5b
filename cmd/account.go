package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/whereisit-project/whereisit/internal/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check your credentials",
	Long: `Sign in and print the account. Nothing is stored between commands; pass
--email and --password (or --id-token) to every command that needs an account.

Examples:
  whereisit login --email ana@example.com --password '...'
  whereisit login --provider google --id-token "$GOOGLE_ID_TOKEN"`,
	Args: exactArgs(0),
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create an account and sign in. Passwords need an uppercase letter, a
lowercase letter and at least 6 characters.

Examples:
  whereisit register --name "Ana Lima" --email ana@example.com --password 'Secret1'`,
	Args: exactArgs(0),
	RunE: runRegister,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change your display name or photo",
	Args:  exactArgs(0),
	RunE:  runProfileUpdate,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account and its activity",
	Args:  exactArgs(0),
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, profileCmd, whoamiCmd)
	profileCmd.AddCommand(profileUpdateCmd)

	registerCmd.Flags().String("name", "", "display name")
	registerCmd.Flags().String("photo-url", "", "profile photo URL")

	profileUpdateCmd.Flags().String("name", "", "new display name")
	profileUpdateCmd.Flags().String("photo-url", "", "new profile photo URL")
}

// accountSummary is the whoami result.
type accountSummary struct {
	Identity  domain.Identity `json:"identity" yaml:"identity"`
	Posts     int             `json:"posts" yaml:"posts"`
	Recovered int             `json:"recovered" yaml:"recovered"`
}

func runLogin(cmd *cobra.Command, args []string) error {
	id, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	return emit(id, func() error {
		printer.Success("Signed in as %s (%s)", id.DisplayName, id.Email)
		return nil
	})
}

func runRegister(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	photo, _ := cmd.Flags().GetString("photo-url")
	email, password := credentials()

	id, err := sessions.SignUp(cmd.Context(), domain.SignUpRequest{
		Name:     name,
		Email:    email,
		PhotoURL: photo,
		Password: password,
	})
	if err != nil {
		return err
	}
	return emit(id, func() error {
		printer.Success("Account created. Signed in as %s (%s)", id.DisplayName, id.Email)
		printer.PrintHints("register")
		return nil
	})
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	current, err := requireSession(ctx)
	if err != nil {
		return err
	}

	update := domain.ProfileUpdate{DisplayName: current.DisplayName, PhotoURL: current.PhotoURL}
	if cmd.Flags().Changed("name") {
		update.DisplayName, _ = cmd.Flags().GetString("name")
	}
	if cmd.Flags().Changed("photo-url") {
		update.PhotoURL, _ = cmd.Flags().GetString("photo-url")
	}

	id, err := sessions.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	return emit(id, func() error {
		printer.Success("Profile updated")
		printer.PrintHints("profile update")
		return nil
	})
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := requireSession(ctx)
	if err != nil {
		return err
	}

	summary, err := accountActivity(ctx, id)
	if err != nil {
		return err
	}
	return emit(summary, func() error {
		printer.Identity(summary.Identity, summary.Posts, summary.Recovered)
		return nil
	})
}

// accountActivity counts the user's posts and recoveries concurrently.
func accountActivity(ctx context.Context, id domain.Identity) (accountSummary, error) {
	summary := accountSummary{Identity: id}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		posts, err := client.MyPosts(gctx, id.Email)
		summary.Posts = len(posts)
		return err
	})
	g.Go(func() error {
		items, err := client.RecoveredItems(gctx, id.Email)
		summary.Recovered = len(items)
		return err
	})
	if err := g.Wait(); err != nil {
		return accountSummary{}, err
	}
	return summary, nil
}
