package progress

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ProgressInfo is a snapshot of a long-running generation job.
type ProgressInfo struct {
	// Done is the number of completed items at sample time.
	Done uint64
	// Elapsed is the time since the reporter started.
	Elapsed time.Duration
	// Rate is the average completion rate in items per second.
	Rate float64
}

// Callback is invoked on every sample tick.
type Callback func(ctx context.Context, info ProgressInfo) error

// Config configures a Reporter.
type Config struct {
	// Handler is the function invoked on every sample. Required before Start.
	Handler Callback
	// Counter returns the current number of completed items. Required.
	Counter func() uint64
	// Interval is the sampling cadence. Defaults to DefaultInterval.
	Interval time.Duration
	// Now returns the current time. Useful for deterministic tests. Defaults to time.Now if nil.
	Now    func() time.Time
	Logger zerolog.Logger
}

// DefaultInterval is the sampling cadence used when none is configured.
const DefaultInterval = 5 * time.Second

// Reporter samples a completion counter at a fixed interval and hands
// throughput snapshots to a callback, typically for periodic log lines
// during batch or benchmark runs.
type Reporter struct {
	log     zerolog.Logger
	cancel  context.CancelFunc
	started bool

	handler  Callback
	counter  func() uint64
	interval time.Duration
	now      func() time.Time
	startAt  time.Time
}

// NewReporter constructs a Reporter.
// If cfg.Handler is nil, SetHandler must be called before Start.
func NewReporter(cfg Config) *Reporter {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	return &Reporter{
		handler:  cfg.Handler,
		counter:  cfg.Counter,
		interval: cfg.Interval,
		now:      cfg.Now,
		log:      cfg.Logger.With().Str("component", "progress").Logger(),
	}
}

// SetHandler sets the callback invoked on each sample.
// It should be called before Start; otherwise Start will panic.
func (r *Reporter) SetHandler(handler Callback) {
	r.handler = handler
}

// Start begins sampling until the context is canceled or Stop is called.
func (r *Reporter) Start(ctx context.Context) error {
	if r.handler == nil || r.counter == nil {
		panic("progress: Reporter requires a handler and a counter to start")
	}

	if r.started {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.started = true
	r.startAt = r.now()

	go r.run(runCtx)
	return nil
}

// Stop halts the reporter.
func (r *Reporter) Stop(context.Context) error {
	if !r.started {
		return nil
	}

	r.started = false
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	return nil
}

func (r *Reporter) run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.emit(ctx); err != nil {
				return
			}
		}
	}
}

// emit samples the counter and invokes the handler.
func (r *Reporter) emit(ctx context.Context) error {
	elapsed := r.now().Sub(r.startAt)
	done := r.counter()

	var rate float64
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(done) / secs
	}

	info := ProgressInfo{
		Done:    done,
		Elapsed: elapsed,
		Rate:    rate,
	}

	if err := r.handler(ctx, info); err != nil {
		r.log.Error().Err(err).Uint64("done", done).Msg("progress handler returned error")
		return err
	}
	return nil
}
