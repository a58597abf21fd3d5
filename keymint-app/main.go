package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/keymint/keymint/keymint-app/config"
	"github.com/keymint/keymint/log"
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "keymint",
		Short: "Ethereum key pair and address generator",
		Long: "keymint generates Ethereum key pairs: a random seed is hashed with\n" +
			"Keccak-256 into a secp256k1 private key, and the address is derived\n" +
			"from the Keccak-256 hash of the uncompressed public key.",
		RunE:         runGenerate,
		SilenceUsage: true,
	}

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Measure key generation throughput",
		Long:  "Runs the generator repeatedly and prints the elapsed wall-clock time in seconds.",
		RunE:  runBench,
	}

	batchCmd = &cobra.Command{
		Use:   "batch",
		Short: "Generate many keys into a JSON or YAML document",
		RunE:  runBatch,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run:   runVersion,
	}
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initCommands()
	return rootCmd.ExecuteContext(ctx)
}

func initCommands() {
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(versionCmd)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (optional)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-pretty", false, "enable pretty logging")

	// Metrics flags
	rootCmd.PersistentFlags().Bool("metrics", false, "serve Prometheus metrics while running")
	rootCmd.PersistentFlags().String("metrics-addr", "", "metrics listen address")

	// Bench flags
	benchCmd.Flags().Int("iterations", 0, "number of derivations to run")
	benchCmd.Flags().Int("workers", 0, "number of concurrent workers")

	// Batch flags
	batchCmd.Flags().Int("count", 0, "number of keys to generate")
	batchCmd.Flags().Int("workers", 0, "number of concurrent workers")
	batchCmd.Flags().String("format", "", "output format (json, yaml)")
	batchCmd.Flags().StringP("output", "o", "", "output path, - for stdout")
	batchCmd.Flags().Bool("include-private", false, "include private keys in the output")
}

// setup loads config, applies flag overrides and builds the application.
func setup(cmd *cobra.Command) (*App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	applyFlags(cmd, cfg)

	logger := log.New(cfg.Log.Level, cfg.Log.Pretty)

	logger.Debug().
		Str("version", Version).
		Str("go_version", runtime.Version()).
		Str("log_level", cfg.Log.Level).
		Bool("metrics_enabled", cfg.Metrics.Enabled).
		Msg("configuration loaded")

	return NewApp(cfg, logger.Logger)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	return app.RunGenerate(cmd.Context())
}

func runBench(cmd *cobra.Command, _ []string) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	return app.RunBench(cmd.Context())
}

func runBatch(cmd *cobra.Command, _ []string) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	return app.RunBatch(cmd.Context())
}

func runVersion(*cobra.Command, []string) {
	fmt.Printf("keymint\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
	fmt.Printf("Go Version: %s\n", runtime.Version())
	fmt.Printf("OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if f := cmd.Flag("log-level"); f != nil && f.Changed {
		cfg.Log.Level = f.Value.String()
	}
	if f := cmd.Flag("log-pretty"); f != nil && f.Changed {
		cfg.Log.Pretty, _ = cmd.Flags().GetBool("log-pretty")
	}
	if f := cmd.Flag("metrics"); f != nil && f.Changed {
		cfg.Metrics.Enabled, _ = cmd.Flags().GetBool("metrics")
	}
	if f := cmd.Flag("metrics-addr"); f != nil && f.Changed {
		cfg.Metrics.ListenAddr = f.Value.String()
	}

	// The workers flag lives on both bench and batch.
	if f := cmd.Flag("iterations"); f != nil && f.Changed {
		cfg.Bench.Iterations, _ = cmd.Flags().GetInt("iterations")
	}
	if cmd.Name() == "bench" {
		if f := cmd.Flag("workers"); f != nil && f.Changed {
			cfg.Bench.Workers, _ = cmd.Flags().GetInt("workers")
		}
	}

	if f := cmd.Flag("count"); f != nil && f.Changed {
		cfg.Batch.Count, _ = cmd.Flags().GetInt("count")
	}
	if cmd.Name() == "batch" {
		if f := cmd.Flag("workers"); f != nil && f.Changed {
			cfg.Batch.Workers, _ = cmd.Flags().GetInt("workers")
		}
	}
	if f := cmd.Flag("format"); f != nil && f.Changed {
		cfg.Batch.Format = f.Value.String()
	}
	if f := cmd.Flag("output"); f != nil && f.Changed {
		cfg.Batch.Output = f.Value.String()
	}
	if f := cmd.Flag("include-private"); f != nil && f.Changed {
		cfg.Batch.IncludePrivate, _ = cmd.Flags().GetBool("include-private")
	}
}
