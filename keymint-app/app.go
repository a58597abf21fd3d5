package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/keymint/keymint/internal/batch"
	"github.com/keymint/keymint/keymint-app/config"
	"github.com/keymint/keymint/server/ops"
	"github.com/keymint/keymint/x/bench"
	"github.com/keymint/keymint/x/keygen"
	"github.com/keymint/keymint/x/progress"
)

// App wires the generator, metrics and the optional ops endpoint together.
type App struct {
	cfg *config.Config
	log zerolog.Logger
	gen *keygen.Generator
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, log zerolog.Logger) (*App, error) {
	genCfg := keygen.GeneratorConfig{Logger: log}
	if cfg.Metrics.Enabled {
		genCfg.Metrics = keygen.NewMetrics()
	}

	return &App{
		cfg: cfg,
		log: log.With().Str("component", "app").Logger(),
		gen: keygen.NewGenerator(genCfg),
	}, nil
}

// RunGenerate generates a single key pair and prints the private key and
// address to stdout, nothing else.
func (a *App) RunGenerate(context.Context) error {
	key, err := a.gen.Generate()
	if err != nil {
		return err
	}

	fmt.Printf("private_key: %s\n", key.PrivateKeyHex())
	fmt.Printf("eth addr: %s\n", key.AddressHex())
	return nil
}

// RunBench runs the benchmark and prints the elapsed seconds to stdout.
func (a *App) RunBench(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.startOps(runCtx)

	benchCfg := bench.DefaultConfig(a.log)
	benchCfg.Iterations = a.cfg.Bench.Iterations
	benchCfg.Workers = a.cfg.Bench.Workers

	runner, err := bench.NewRunner(benchCfg, a.gen)
	if err != nil {
		return err
	}

	reporter := a.startProgress(runCtx, runner.Done)
	defer reporter.Stop(context.Background())

	res, err := runner.Run(runCtx)
	if err != nil {
		return err
	}

	fmt.Println(res.Elapsed.Seconds())
	return nil
}

// RunBatch generates a batch of keys and writes the encoded document.
func (a *App) RunBatch(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.startOps(runCtx)

	writer, err := batch.NewWriter(batch.Config{
		Count:          a.cfg.Batch.Count,
		Workers:        a.cfg.Batch.Workers,
		Format:         a.cfg.Batch.Format,
		Output:         a.cfg.Batch.Output,
		IncludePrivate: a.cfg.Batch.IncludePrivate,
		Logger:         a.log,
	}, a.gen)
	if err != nil {
		return err
	}

	reporter := a.startProgress(runCtx, writer.Done)
	defer reporter.Stop(context.Background())

	return writer.Run(runCtx)
}

// startOps serves /metrics and /healthz for the duration of the run when
// metrics are enabled.
func (a *App) startOps(ctx context.Context) {
	if !a.cfg.Metrics.Enabled {
		return
	}

	opsCfg := ops.DefaultConfig()
	opsCfg.ListenAddr = a.cfg.Metrics.ListenAddr
	srv := ops.NewServer(opsCfg, a.log)

	go func() {
		if err := srv.Start(ctx); err != nil {
			a.log.Error().Err(err).Msg("ops server failed")
		}
	}()
}

// startProgress logs throughput at the configured interval while a long
// run is in flight.
func (a *App) startProgress(ctx context.Context, counter func() uint64) *progress.Reporter {
	reporter := progress.NewReporter(progress.Config{
		Counter:  counter,
		Interval: a.cfg.Progress.Interval,
		Logger:   a.log,
		Handler: func(_ context.Context, info progress.ProgressInfo) error {
			a.log.Info().
				Uint64("done", info.Done).
				Dur("elapsed", info.Elapsed).
				Float64("keys_per_second", info.Rate).
				Msg("generation in progress")
			return nil
		},
	})

	_ = reporter.Start(ctx)
	return reporter
}
