package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the configuration after defaults, .whereisit.yaml, .env and
WHEREISIT_* environment variables are applied.

Examples:
  whereisit config show            # Show all settings
  whereisit config show -o yaml    # Output as YAML`,
	Args: exactArgs(0),
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	return emit(cfg, func() error {
		printer.Header("Current Configuration")

		table := printer.NewTable([]string{"KEY", "VALUE"})
		table.AddRow("api.base_url", cfg.API.BaseURL)
		table.AddRow("api.timeout", cfg.API.Timeout.String())
		table.AddRow("api.rate_limit", strconv.FormatFloat(cfg.API.RateLimit, 'g', -1, 64))
		table.AddRow("api.burst", strconv.Itoa(cfg.API.Burst))
		table.AddRow("api.user_agent", cfg.API.UserAgent)
		table.AddRow("auth.kratos_url", cfg.Auth.KratosURL)
		table.AddRow("auth.timeout", cfg.Auth.Timeout.String())
		table.AddRow("auth.revoke_on_exit", strconv.FormatBool(cfg.Auth.RevokeOnExit))
		table.AddRow("browse.default_limit", strconv.Itoa(cfg.Browse.DefaultLimit))
		table.AddRow("logging.level", cfg.Logging.Level)
		table.AddRow("logging.format", cfg.Logging.Format)
		table.AddRow("output.colors", strconv.FormatBool(cfg.Output.Colors))
		table.AddRow("output.format", cfg.Output.Format)
		table.AddRow("telemetry.enabled", strconv.FormatBool(cfg.Telemetry.Enabled))
		table.AddRow("telemetry.endpoint", cfg.Telemetry.Endpoint)
		table.AddRow("telemetry.sample_ratio", fmt.Sprintf("%v", cfg.Telemetry.SampleRatio))
		table.AddRow("thumbnail.max_bytes", strconv.FormatInt(cfg.Thumbnail.MaxBytes, 10))
		table.AddRow("thumbnail.cache_size", strconv.Itoa(cfg.Thumbnail.CacheSize))
		table.AddRow("thumbnail.timeout", cfg.Thumbnail.Timeout.String())
		if err := table.Render(); err != nil {
			return err
		}
		printer.PrintHints("config show")
		return nil
	})
}
