package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Apurer/petstore-api-harness/internal/app/harness"
	"github.com/Apurer/petstore-api-harness/internal/scenarios"
)

var errScenariosFailed = errors.New("one or more scenarios failed")

var rootCmd = &cobra.Command{
	Use:   "petstore-harness",
	Short: "End-to-end checks for a Swagger Petstore deployment",
	Long: `petstore-harness runs a catalogue of positive and negative scenarios
against the pet, store and user endpoints of a Petstore v2 API.

Settings come from a properties or YAML file (api.base.url, api.timeout in
milliseconds, api.log.enabled), overridable with PETSTORE_* environment
variables and the flags below.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errScenariosFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("PETSTORE_HARNESS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "configuration file (default $PETSTORE_CONFIG or config.properties)")
	rootCmd.PersistentFlags().String("base-url", "", "override api.base.url")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable coloured output")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("base-url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
}

func registerCommands() {
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(configCmd())
}

func harnessConfig(filters scenarios.RegexFilters) (harness.Config, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log-level"))); err != nil {
		return harness.Config{}, fmt.Errorf("invalid --log-level: %w", err)
	}
	return harness.Config{
		ConfigFile: viper.GetString("config"),
		BaseURL:    viper.GetString("base-url"),
		Filters:    filters,
		LogLevel:   level,
		NoColor:    viper.GetBool("no-color"),
		Out:        os.Stdout,
		LogOut:     os.Stderr,
	}, nil
}

func addFilterFlags(cmd *cobra.Command, filters *scenarios.RegexFilters) {
	cmd.Flags().Var(&filters.MustMatch, "run", "regex pattern(s) to select scenarios to run")
	cmd.Flags().Var(&filters.MustNotMatch, "skip", "regex pattern(s) to select scenarios not to run")
}

func runCmd() *cobra.Command {
	var filters scenarios.RegexFilters
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scenario catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := harnessConfig(filters)
			if err != nil {
				return err
			}
			results, err := harness.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if !results.OK() {
				return errScenariosFailed
			}
			return nil
		},
	}
	addFilterFlags(cmd, &filters)
	return cmd
}

func listCmd() *cobra.Command {
	var filters scenarios.RegexFilters
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scenarios without running them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := harnessConfig(filters)
			if err != nil {
				return err
			}
			harness.NewReport(cfg.Out, cfg.NoColor).Catalogue(scenarios.Catalogue(), filters.AsFilter)
			return nil
		},
	}
	addFilterFlags(cmd, &filters)
	return cmd
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := harnessConfig(scenarios.RegexFilters{})
			if err != nil {
				return err
			}
			settings, err := cfg.LoadSettings()
			if err != nil {
				return err
			}
			harness.NewReport(cfg.Out, cfg.NoColor).Settings(settings)
			return nil
		},
	}
}
