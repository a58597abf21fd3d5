package batch

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/keymint/keymint/x/codec"
	"github.com/keymint/keymint/x/keygen"
)

// Record is one generated key in batch output. PrivateKey is empty unless
// the run was asked to include key material.
type Record struct {
	Index      int    `json:"index"                 yaml:"index"`
	Address    string `json:"address"               yaml:"address"`
	PublicKey  string `json:"public_key"            yaml:"public_key"`
	PrivateKey string `json:"private_key,omitempty" yaml:"private_key,omitempty"`
}

// Run is the envelope written by a batch generation run.
type Run struct {
	ID          string    `json:"id"           yaml:"id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Count       int       `json:"count"        yaml:"count"`
	Keys        []Record  `json:"keys"         yaml:"keys"`
}

// Config configures a batch Writer.
type Config struct {
	// Count is the number of keys to generate.
	Count int
	// Workers is the number of concurrent generation goroutines.
	Workers int
	// Format selects the output encoder ("json" or "yaml"; empty means json).
	Format string
	// Output is the destination path; "-" or empty writes to stdout.
	Output string
	// IncludePrivate emits private key material into the output.
	IncludePrivate bool
	Logger         zerolog.Logger
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Count <= 0 {
		return fmt.Errorf("batch: count must be positive, got %d", c.Count)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("batch: workers must be positive, got %d", c.Workers)
	}
	if _, err := codec.ForFormat(c.Format); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	return nil
}

// Writer generates a batch of keys and writes them out in one document.
type Writer struct {
	cfg  Config
	gen  *keygen.Generator
	log  zerolog.Logger
	done atomic.Uint64
}

// NewWriter constructs a Writer around an existing generator.
func NewWriter(cfg Config, gen *keygen.Generator) (*Writer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Writer{
		cfg: cfg,
		gen: gen,
		log: cfg.Logger.With().Str("component", "batch").Logger(),
	}, nil
}

// Done returns the number of keys generated so far.
// Safe to call concurrently with Run, e.g. from a progress reporter.
func (w *Writer) Done() uint64 {
	return w.done.Load()
}

// Run generates the configured number of keys and writes the encoded run
// to the configured destination.
func (w *Writer) Run(ctx context.Context) error {
	run, err := w.generate(ctx)
	if err != nil {
		return err
	}

	enc, err := codec.ForFormat(w.cfg.Format)
	if err != nil {
		return err
	}
	data, err := enc.Encode(run)
	if err != nil {
		return fmt.Errorf("batch: encode run: %w", err)
	}

	if w.cfg.Output == "" || w.cfg.Output == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(w.cfg.Output, data, 0o600); err != nil {
		return fmt.Errorf("batch: write %s: %w", w.cfg.Output, err)
	}

	w.log.Info().
		Str("run_id", run.ID).
		Int("count", run.Count).
		Str("output", w.cfg.Output).
		Msg("batch written")
	return nil
}

// generate fans the work out across workers. Records land at their own
// index so output order is stable regardless of scheduling.
func (w *Writer) generate(ctx context.Context) (*Run, error) {
	w.done.Store(0)

	run := &Run{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Count:       w.cfg.Count,
		Keys:        make([]Record, w.cfg.Count),
	}

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

	next := atomic.Int64{}
	workers := w.cfg.Workers
	if workers > w.cfg.Count {
		workers = w.cfg.Count
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				idx := int(next.Add(1)) - 1
				if idx >= w.cfg.Count {
					return
				}

				select {
				case <-runCtx.Done():
					fail(runCtx.Err())
					return
				default:
				}

				key, err := w.gen.Generate()
				if err != nil {
					fail(err)
					return
				}

				rec := Record{
					Index:     idx,
					Address:   key.AddressHex(),
					PublicKey: key.PublicKeyHex(),
				}
				if w.cfg.IncludePrivate {
					rec.PrivateKey = key.PrivateKeyHex()
				}
				run.Keys[idx] = rec
				w.done.Add(1)
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("batch: generation failed: %w", firstErr)
	}
	return run, nil
}
