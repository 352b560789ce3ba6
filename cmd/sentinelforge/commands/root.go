// Package commands implements the sentinelforge CLI.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/sentinelforge/sentinelforge/internal/api"
	"github.com/sentinelforge/sentinelforge/internal/config"
	"github.com/sentinelforge/sentinelforge/internal/session"
)

var (
	cfgFile   string
	serverURL string
	traceReqs bool
)

func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "sentinelforge",
		Short: "Client for the SentinelForge AI red-teaming platform",
		Long:  "SentinelForge: launch attack runs, explore findings, track drift and compliance, and watch live run progress from the terminal.",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "sentinelforge.yaml", "config file path")
	root.PersistentFlags().StringVar(&serverURL, "server", "", "backend URL (overrides config)")
	root.PersistentFlags().BoolVar(&traceReqs, "trace", false, "emit request traces to stderr")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newRunsCmd(),
		newScenariosCmd(),
		newCompareCmd(),
		newDriftCmd(),
		newComplianceCmd(),
		newReportsCmd(),
		newSchedulesCmd(),
		newWebhooksCmd(),
		newChannelsCmd(),
		newAPIKeysCmd(),
		newAuditCmd(),
		newScoringCmd(),
		newEvalCmd(),
		newHealthCmd(),
		newToolsCmd(),
		newUsersCmd(),
		newDashboardCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

// loadConfig resolves the effective client configuration from the
// config file, .env, environment, and flags.
func loadConfig() (*config.Config, error) {
	config.LoadEnvFile(".env")
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Output.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newClient builds the API client shared by all commands. A 401 on any
// call clears the token and tells the user to log in again, the CLI
// equivalent of the dashboard redirecting to the login page.
func newClient(cfg *config.Config) *api.Client {
	tokenPath, err := session.DefaultPath()
	if err != nil {
		tokenPath = ".sentinelforge-token"
	}
	store := session.NewFileStore(tokenPath)

	opts := []api.Option{
		api.WithLogger(newLogger(cfg)),
		api.WithUnauthorizedHook(func() {
			fmt.Fprintln(os.Stderr, "session expired, run 'sentinelforge login'")
		}),
	}
	if traceReqs {
		if err := setupTracing(); err == nil {
			opts = append(opts, api.WithTracing())
		}
	}

	return api.NewClient(cfg.Server.URL, store, opts...)
}

// setup is the common preamble for RunE bodies.
func setup() (*config.Config, *api.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, newClient(cfg), nil
}

// setupTracing installs a stdout span exporter for --trace runs.
func setupTracing() error {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
	if err != nil {
		return fmt.Errorf("creating trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return nil
}
