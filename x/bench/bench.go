package bench

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/keymint/keymint/x/keygen"
)

// Result summarizes a completed benchmark run.
type Result struct {
	Iterations    int
	Workers       int
	Elapsed       time.Duration
	KeysPerSecond float64
}

// Runner measures wall-clock throughput of key pair generation.
type Runner struct {
	cfg  Config
	gen  *keygen.Generator
	log  zerolog.Logger
	done atomic.Uint64
}

// NewRunner constructs a Runner around an existing generator.
func NewRunner(cfg Config, gen *keygen.Generator) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		cfg: cfg,
		gen: gen,
		log: cfg.Logger,
	}, nil
}

// Done returns the number of derivations completed so far.
// Safe to call concurrently with Run, e.g. from a progress reporter.
func (r *Runner) Done() uint64 {
	return r.done.Load()
}

// Run performs the configured number of derivations split across workers
// and returns timing. The first generation error aborts the run.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	r.done.Store(0)

	var (
		wg       sync.WaitGroup
		firstErr error
		errOnce  sync.Once
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	per := r.cfg.Iterations / r.cfg.Workers
	extra := r.cfg.Iterations % r.cfg.Workers

	start := time.Now()
	for w := 0; w < r.cfg.Workers; w++ {
		n := per
		if w < extra {
			n++
		}
		if n == 0 {
			continue
		}

		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for i := 0; i < n; i++ {
				select {
				case <-runCtx.Done():
					fail(runCtx.Err())
					return
				default:
				}

				if _, err := r.gen.Generate(); err != nil {
					fail(err)
					return
				}
				r.done.Add(1)
			}
		}(n)
	}
	wg.Wait()
	elapsed := time.Since(start)

	if firstErr != nil {
		// Distinguish caller cancellation from generation failure.
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, fmt.Errorf("benchmark aborted: %w", firstErr)
	}

	res := Result{
		Iterations: r.cfg.Iterations,
		Workers:    r.cfg.Workers,
		Elapsed:    elapsed,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		res.KeysPerSecond = float64(res.Iterations) / secs
	}

	r.log.Debug().
		Int("iterations", res.Iterations).
		Int("workers", res.Workers).
		Dur("elapsed", res.Elapsed).
		Float64("keys_per_second", res.KeysPerSecond).
		Msg("benchmark complete")

	return res, nil
}
