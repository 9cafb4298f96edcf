// Package cli provides the command-line interface for the options dashboard.
package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"options-dashboard/internal/config"
	"options-dashboard/internal/dashboard"
	"options-dashboard/internal/exposure"
	"options-dashboard/internal/logging"
	"options-dashboard/internal/metrics"
	"options-dashboard/internal/provider"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-06-14"
)

// DefaultTimeout bounds a single CLI command.
const DefaultTimeout = 30 * time.Second

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Gateway *provider.Gateway
	Service *dashboard.Service

	// Greeks overrides the greek provider; random greeks are used when nil.
	Greeks exposure.GreekProvider
}

// NewRootCmd creates the root command for the CLI. Dependencies missing from
// app are built from the configuration before any command runs.
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "optionsdash",
		Short: "Options dashboard - option chains, greek exposure and indicators",
		Long: `optionsdash serves and prints options analytics for US equities.

It lists option expiries, shows normalized option chains, synthesizes gamma,
delta and vanna exposure per strike, and computes RSI and moving averages
from daily closes. Data comes from Yahoo Finance or, with --offline, from
built-in sample data.

Use 'optionsdash serve' to start the JSON API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/options-dashboard/config.toml)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("offline", false, "use built-in sample data instead of Yahoo Finance")
	rootCmd.PersistentFlags().Duration("timeout", DefaultTimeout, "timeout for a single command")
	rootCmd.PersistentFlags().Uint64("seed", 0, "seed for synthesized greeks (0 = random)")

	addCoreCommands(rootCmd, app)
	addMarketDataCommands(rootCmd, app)
	addServeCommand(rootCmd, app)

	return rootCmd
}

func (app *App) setup(cmd *cobra.Command) error {
	if app.Config == nil {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		app.Config = cfg
		app.Logger = logging.NewLoggerWithConfig(cfg.Logging.LogConfig())
	}

	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		app.Config.Provider.Kind = config.ProviderMemory
	}

	// Handle debug flag
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logging.SetDebugLevel()
		app.Logger = app.Logger.Level(zerolog.DebugLevel)
	}

	if app.Greeks == nil {
		if seed, _ := cmd.Flags().GetUint64("seed"); seed != 0 {
			app.Greeks = exposure.NewSeededRandomGreeks(seed)
		}
	}

	if app.Gateway == nil {
		metrics.Init()
		app.Gateway = provider.NewGateway(newProvider(app.Config), provider.GatewayConfig{
			HistoryRange: app.Config.Provider.HistoryRange,
		}, app.Logger)
		app.Logger.Debug().Str("provider", app.Gateway.ProviderName()).Msg("Quote provider initialized")
	}
	if app.Service == nil {
		app.Service = dashboard.NewService(app.Gateway, app.Greeks, dashboard.Config{
			TopN: app.Config.Display.TopN,
		}, app.Logger)
	}
	return nil
}

func newProvider(cfg *config.Config) provider.QuoteProvider {
	if cfg.IsOffline() {
		return provider.NewSampleProvider()
	}
	return provider.NewYahooProvider(cfg.Provider.YahooConfig())
}

// commandContext derives the per-command timeout context.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("optionsdash v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and check the application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			path := app.Config.Path
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if output.IsJSON() {
				output.JSON(map[string]string{"path": path})
			} else {
				output.Println(path)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Provider")
	output.Printf("  Kind:          %s\n", cfg.Provider.Kind)
	output.Printf("  Base URL:      %s\n", cfg.Provider.BaseURL)
	output.Printf("  Timeout:       %s\n", cfg.Provider.Timeout)
	output.Printf("  Rate Limit:    %.1f/s (burst %d)\n", cfg.Provider.RateLimit, cfg.Provider.Burst)
	output.Printf("  History Range: %s\n", cfg.Provider.HistoryRange)
	output.Println()

	output.Bold("Server")
	output.Printf("  Address:       %s\n", cfg.Server.Addr)
	output.Printf("  Compression:   %v\n", cfg.Server.Compression)
	output.Println()

	output.Bold("Display")
	output.Printf("  Ticker:        %s\n", cfg.Display.DefaultTicker)
	output.Printf("  Palette:       %s\n", cfg.Display.Palette)
	output.Printf("  Scale:         %s\n", cfg.Display.Scale)
	output.Printf("  Top N:         %d\n", cfg.Display.TopN)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:         %s\n", cfg.Logging.Level)
	output.Printf("  File:          %v\n", cfg.Logging.File)

	return nil
}
