package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/promptpress/promptpress/pkg/cli"
	"github.com/promptpress/promptpress/pkg/config"
	"github.com/promptpress/promptpress/pkg/server"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the optimization API server",
	Long: `Start the HTTP API with the specified configuration.

The server exposes POST /api/optimize, GET /metrics, GET /metrics/prometheus,
and GET /healthz. The configuration file is watched for changes; the semantic
threshold can be tuned without a restart.

Examples:
  # Start with default config
  promptpress run

  # Start with custom config
  promptpress run --config /etc/promptpress/config.yaml

  # Override listen address
  promptpress run --listen 0.0.0.0:8080

  # Validate config without starting server
  promptpress run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	setupLogging(cfg.Telemetry.Logging)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Promptpress v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	pipeline, collector, prom, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Pipeline initialized (%d providers, policy %s)\n",
		len(cfg.Providers), cfg.Optimizer.Policy)

	ctx := cli.SetupSignalHandler()

	maintenance, err := server.NewMaintenance(cfg.Maintenance.SweepSchedule, pipeline.Cache(), prom)
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance: %w", err)
	}
	maintenance.Start()
	defer maintenance.Stop()

	watcher, err := config.NewWatcher(cfgFile, func(fresh *config.Config) {
		pipeline.Validator().SetThreshold(fresh.Optimizer.SemanticThreshold)
		slog.Info("applied configuration reload",
			"semantic_threshold", fresh.Optimizer.SemanticThreshold)
	})
	if err != nil {
		slog.Warn("configuration watcher unavailable", "error", err)
	} else {
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				slog.Warn("configuration watcher stopped", "error", err)
			}
		}()
		defer watcher.Close()
	}

	srv := server.NewServer(cfg.Server, pipeline, collector, prom)

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Optimize endpoint: http://%s/api/optimize\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Server.ListenAddress)
	fmt.Println("\nPress Ctrl+C to stop")

	return srv.Start(ctx)
}
