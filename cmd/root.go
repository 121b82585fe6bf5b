// Package cmd contains all CLI commands for whereisit
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/whereisit-project/whereisit/internal/api"
	"github.com/whereisit-project/whereisit/internal/auth"
	"github.com/whereisit-project/whereisit/internal/config"
	"github.com/whereisit-project/whereisit/internal/domain"
	"github.com/whereisit-project/whereisit/internal/listing"
	applog "github.com/whereisit-project/whereisit/internal/logger"
	"github.com/whereisit-project/whereisit/internal/output"
	"github.com/whereisit-project/whereisit/internal/telemetry"
	"github.com/whereisit-project/whereisit/internal/validator"
)

var (
	cfgFile      string
	verbose      bool
	quiet        bool
	outputFormat string
	colorMode    string
	emailFlag    string
	passwordFlag string
	providerFlag string
	idTokenFlag  string

	cfg               *config.Config
	logger            *slog.Logger
	printer           *output.Printer
	format            output.Format
	client            *api.Client
	sessions          *auth.Store
	shutdownTelemetry telemetry.ShutdownFunc
	version           = "dev"
)

// newIdentityProvider builds the identity provider the session store signs
// in against.
var newIdentityProvider = func(c *config.Config) domain.IdentityProvider {
	return auth.NewKratosGateway(c.Auth.KratosURL, c.Auth.Timeout)
}

// onSessionExpired runs after the API rejected the session and the store
// signed out. The shell swaps in its sign-in prompt.
var onSessionExpired = func() {}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "whereisit",
	Short: "WhereIsIt lost-and-found client",
	Long: `whereisit is a command-line client for the WhereIsIt lost-and-found service.

Browse lost and found reports, post your own, and record recoveries.
Commands that act on your account sign in with --email and --password
(or WHEREISIT_EMAIL and WHEREISIT_PASSWORD).

Example usage:
  whereisit recent                         # Newest reports
  whereisit browse --type lost --page 2    # Paginated feed with filters
  whereisit show <id>                      # Post details
  whereisit post create --title ...        # Report a lost or found item
  whereisit claim <id> --location "Gym"    # Record a recovery
  whereisit shell                          # Interactive session`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd)
	},
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	printer = nil
	err := rootCmd.ExecuteContext(ctx)
	closeApp(ctx)
	if err == nil {
		return output.ExitSuccess
	}

	cliErr := classify(err)
	p := printer
	if p == nil {
		p = output.NewPrinter(output.PrinterOptions{ColorMode: output.ColorNever, Err: rootCmd.ErrOrStderr()})
	}
	p.FormatError(cliErr)
	return cliErr.ExitCode
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is .whereisit.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")
	pf.StringVarP(&outputFormat, "output", "o", "", "output format: table, json, or yaml (default from config)")
	pf.StringVar(&colorMode, "color", "auto", "color output: auto, always, or never")
	pf.StringVar(&emailFlag, "email", "", "account email (or WHEREISIT_EMAIL)")
	pf.StringVar(&passwordFlag, "password", "", "account password (or WHEREISIT_PASSWORD)")
	pf.StringVar(&providerFlag, "provider", "google", "federated identity provider for --id-token")
	pf.StringVar(&idTokenFlag, "id-token", "", "ID token from the federated provider")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
}

// initApp loads configuration and builds the process-wide collaborators:
// logger, telemetry, API client and session store.
func initApp(cmd *cobra.Command) error {
	var err error

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return &output.CLIError{
			Summary:    "Invalid configuration",
			Detail:     err.Error(),
			Suggestion: "Check .whereisit.yaml and WHEREISIT_* environment variables",
			ExitCode:   output.ExitConfigError,
			Err:        err,
		}
	}

	mode, err := output.ParseColorMode(colorMode)
	if err != nil {
		return usageError(err)
	}
	f := outputFormat
	if f == "" {
		f = cfg.Output.Format
	}
	if format, err = output.ParseFormat(f); err != nil {
		return usageError(err)
	}
	printer = output.NewPrinter(output.PrinterOptions{
		ColorMode:    mode,
		ConfigColors: cfg.Output.Colors,
		Quiet:        quiet,
		Out:          cmd.OutOrStdout(),
		Err:          cmd.ErrOrStderr(),
	})

	logger = applog.New(applog.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
		OTel:    cfg.Telemetry.Enabled,
		Writer:  cmd.ErrOrStderr(),
	})

	shutdownTelemetry, err = telemetry.InitProvider(cmd.Context(), telemetry.Config{
		ServiceName:    "whereisit",
		ServiceVersion: version,
		OTLPEndpoint:   cfg.Telemetry.Endpoint,
		Enabled:        cfg.Telemetry.Enabled,
		SampleRatio:    cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		logger.Warn("telemetry disabled", "error", err)
		shutdownTelemetry = nil
	}

	client, err = api.New(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent + "/" + version,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		Logger:    logger,
	})
	if err != nil {
		return &output.CLIError{Summary: "Invalid API configuration", Detail: err.Error(), ExitCode: output.ExitConfigError, Err: err}
	}

	sessions = auth.NewStore(newIdentityProvider(cfg), auth.StoreOptions{
		RevokeOnClose: cfg.Auth.RevokeOnExit,
		Validator:     validator.New(),
		Logger:        logger,
	})
	sessions.Subscribe(auth.NewBackendSync(client, logger).Listener())
	client.OnUnauthorized(func(ctx context.Context) {
		if err := sessions.SignOut(ctx); err != nil {
			logger.WarnContext(ctx, "sign-out after rejected session failed", "error", err)
		}
		onSessionExpired()
	})

	logger.Debug("configuration loaded",
		"api", cfg.API.BaseURL,
		"kratos", cfg.Auth.KratosURL,
		"telemetry", cfg.Telemetry.Enabled,
	)
	return nil
}

// closeApp ends the session and flushes telemetry. It runs after every
// command, failed ones included.
func closeApp(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if sessions != nil {
		if err := sessions.Close(ctx); err != nil {
			logger.WarnContext(ctx, "closing session failed", "error", err)
		}
		sessions = nil
	}
	if shutdownTelemetry != nil {
		if err := shutdownTelemetry(ctx); err != nil {
			logger.WarnContext(ctx, "telemetry shutdown failed", "error", err)
		}
		shutdownTelemetry = nil
	}
}

// credentials returns the sign-in email and password from flags, falling
// back to the environment (and .env, loaded with the config).
func credentials() (string, string) {
	email, password := emailFlag, passwordFlag
	if email == "" {
		email = os.Getenv("WHEREISIT_EMAIL")
	}
	if password == "" {
		password = os.Getenv("WHEREISIT_PASSWORD")
	}
	return strings.TrimSpace(email), password
}

// requireSession returns the signed-in identity, signing in with the
// credentials given on the command line when needed.
func requireSession(ctx context.Context) (domain.Identity, error) {
	if id, ok := sessions.Current(); ok {
		return id, nil
	}
	if idTokenFlag != "" {
		return sessions.SignInWithProvider(ctx, providerFlag, idTokenFlag)
	}
	email, password := credentials()
	if email == "" || password == "" {
		return domain.Identity{}, domain.ErrNotSignedIn
	}
	return sessions.SignIn(ctx, email, password)
}

// listingDeps wires the listing views to the process collaborators.
func listingDeps() listing.Deps {
	return listing.Deps{
		API:      client,
		Session:  sessions,
		Notifier: printer,
		Logger:   logger,
	}
}

// emit writes v in the structured format, or calls table for table output.
func emit(v any, table func() error) error {
	if format == output.FormatTable {
		return table()
	}
	return output.Encode(printer.Out(), format, v)
}

// shown marks an error the listing views already reported as a notice.
func shown(err error) error {
	var cliErr *output.CLIError
	if err == nil || errors.As(err, &cliErr) || errors.Is(err, context.Canceled) {
		return err
	}
	cliErr = output.FromError(err)
	cliErr.Shown = true
	return cliErr
}

func usageError(err error) error {
	return &output.CLIError{
		Summary:    err.Error(),
		Suggestion: "Run with --help for usage",
		ExitCode:   output.ExitUsageError,
		Err:        err,
	}
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int, names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}
		if len(names) > 0 {
			return usageError(fmt.Errorf("%s requires %s", cmd.CommandPath(), strings.Join(names, " ")))
		}
		return usageError(fmt.Errorf("%s accepts %d arg(s), received %d", cmd.CommandPath(), n, len(args)))
	}
}

// classify turns any command error into a CLIError with an exit code.
func classify(err error) *output.CLIError {
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return usageError(err).(*output.CLIError)
	}
	return output.FromError(err)
}
