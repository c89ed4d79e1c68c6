package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptpress/promptpress/pkg/cli"
	"github.com/promptpress/promptpress/pkg/config"
	"github.com/promptpress/promptpress/pkg/optimizer"
)

var optimizeFlags struct {
	profile string
	mock    bool
	asJSON  bool
	timeout time.Duration
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize [prompt]",
	Short: "Optimize a single prompt from the terminal",
	Long: `Run one prompt through the full optimization pipeline and print the
result.

Examples:
  # Optimize a prompt against the configured providers
  promptpress optimize "Could you please summarize this report?"

  # Use mock providers (no network, no API keys)
  promptpress optimize --mock "Could you please summarize this report?"

  # Emit the raw result document
  promptpress optimize --json "Could you please summarize this report?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringVar(&optimizeFlags.profile, "profile", "", "optimization profile hint (e.g. concise)")
	optimizeCmd.Flags().BoolVar(&optimizeFlags.mock, "mock", false, "use mock providers instead of real APIs")
	optimizeCmd.Flags().BoolVar(&optimizeFlags.asJSON, "json", false, "print the full result as JSON")
	optimizeCmd.Flags().DurationVar(&optimizeFlags.timeout, "timeout", 2*time.Minute, "overall request timeout")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if optimizeFlags.mock {
		cfg.Optimizer.MockMode = true
	}

	setupLogging(cfg.Telemetry.Logging)

	pipeline, _, _, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	ctx, cancel := context.WithTimeout(context.Background(), optimizeFlags.timeout)
	defer cancel()

	result, err := pipeline.Optimize(ctx, optimizer.Request{
		Prompt:  strings.Join(args, " "),
		Profile: optimizeFlags.profile,
	})
	if err != nil {
		return err
	}

	if optimizeFlags.asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	cli.RenderResult(os.Stdout, result)
	return nil
}
