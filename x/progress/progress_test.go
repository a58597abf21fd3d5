package progress

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestReporterEmitsSamples(t *testing.T) {
	t.Parallel()

	var done atomic.Uint64
	done.Store(42)

	events := make(chan ProgressInfo, 10)
	r := NewReporter(Config{
		Counter:  done.Load,
		Interval: 10 * time.Millisecond,
		Logger:   zerolog.Nop(),
		Handler: func(_ context.Context, info ProgressInfo) error {
			events <- info
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, r.Start(ctx))
	defer r.Stop(context.Background())

	select {
	case info := <-events:
		require.Equal(t, uint64(42), info.Done)
		require.Greater(t, info.Elapsed, time.Duration(0))
		require.Greater(t, info.Rate, 0.0)
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for progress sample")
	}

	done.Store(100)
	select {
	case info := <-events:
		require.Equal(t, uint64(100), info.Done)
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for second progress sample")
	}
}

func TestReporterStopsOnHandlerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	r := NewReporter(Config{
		Counter:  func() uint64 { return 0 },
		Interval: 5 * time.Millisecond,
		Logger:   zerolog.Nop(),
		Handler: func(context.Context, ProgressInfo) error {
			calls.Add(1)
			return errors.New("stop sampling")
		},
	})

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop(context.Background())

	require.Eventually(t, func() bool {
		return calls.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// Loop exited after the first handler error.
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, int64(1), calls.Load())
}

func TestReporterStopHaltsSampling(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	r := NewReporter(Config{
		Counter:  func() uint64 { return 0 },
		Interval: 5 * time.Millisecond,
		Logger:   zerolog.Nop(),
		Handler: func(context.Context, ProgressInfo) error {
			calls.Add(1)
			return nil
		},
	})

	require.NoError(t, r.Start(context.Background()))
	require.Eventually(t, func() bool {
		return calls.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, r.Stop(context.Background()))
	settled := calls.Load()
	time.Sleep(30 * time.Millisecond)
	require.LessOrEqual(t, calls.Load(), settled+1)
}

func TestReporterRequiresHandler(t *testing.T) {
	t.Parallel()

	r := NewReporter(Config{
		Counter: func() uint64 { return 0 },
		Logger:  zerolog.Nop(),
	})

	require.Panics(t, func() {
		_ = r.Start(context.Background())
	})
}
