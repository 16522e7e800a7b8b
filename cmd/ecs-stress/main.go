// Command ecs-stress churns an entity allocator with a random create, clone
// and destroy workload and prints a timing report.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "ecs-stress",
	Short: "Stress test the entity allocator with a randomized churn workload.",
	Long: `Stress test the entity allocator. Each frame queues a random mix of ` +
		`create, clone and destroy operations, flushes them through a command ` +
		`buffer and checks the allocator's liveness against an independent record.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	def := defaults()
	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "Path to a TOML config file.")
	flags.Duration("duration", def.Run.Duration, "The total duration the test should run for.")
	flags.Int("entities", def.Run.Entities, "The initial number of entities to create.")
	flags.Int("batch", def.Run.Batch, "Operations queued per frame.")
	flags.Float64("destroy-ratio", def.Run.DestroyRatio, "Share of operations that destroy an entity.")
	flags.Float64("clone-ratio", def.Run.CloneRatio, "Share of operations that clone an entity.")
	flags.Int64("seed", def.Run.Seed, "Random seed for the workload.")
	flags.String("profile", "", "Write a profile of the run: cpu or mem.")
	flags.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flags.String("log-level", def.Logging.Level, "Log level.")
	flags.String("log-format", def.Logging.Format, "Log format: console or json.")
}

// resolveConfig loads the config file, if any, and applies explicitly set
// flags on top of it.
func resolveConfig(cmd *cobra.Command) (*Config, error) {
	cfg := defaults()
	if configPath != "" {
		loaded, err := Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	var err error
	if flags.Changed("duration") {
		cfg.Run.Duration, err = flags.GetDuration("duration")
	}
	if err == nil && flags.Changed("entities") {
		cfg.Run.Entities, err = flags.GetInt("entities")
	}
	if err == nil && flags.Changed("batch") {
		cfg.Run.Batch, err = flags.GetInt("batch")
	}
	if err == nil && flags.Changed("destroy-ratio") {
		cfg.Run.DestroyRatio, err = flags.GetFloat64("destroy-ratio")
	}
	if err == nil && flags.Changed("clone-ratio") {
		cfg.Run.CloneRatio, err = flags.GetFloat64("clone-ratio")
	}
	if err == nil && flags.Changed("seed") {
		cfg.Run.Seed, err = flags.GetInt64("seed")
	}
	if err == nil && flags.Changed("profile") {
		cfg.Run.Profile, err = flags.GetString("profile")
	}
	if err == nil && flags.Changed("gc-pause-metrics") {
		cfg.Run.GCPauseMetrics, err = flags.GetBool("gc-pause-metrics")
	}
	if err == nil && flags.Changed("log-level") {
		cfg.Logging.Level, err = flags.GetString("log-level")
	}
	if err == nil && flags.Changed("log-format") {
		cfg.Logging.Format, err = flags.GetString("log-format")
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Run.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	switch cfg.Run.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	log.Info("starting allocator stress test", zap.Int64("seed", cfg.Run.Seed))

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Run.Duration)
	defer cancel()

	report, err := runWorkload(ctx, cfg.Run, log)
	if err != nil {
		log.Error("workload failed", zap.Error(err))
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n--- Stress Test Report ---")
	if err := report.Generate(out); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Fprintln(out, "--- End of Report ---")

	log.Info("stress test complete")
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
