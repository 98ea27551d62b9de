package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tazone/worker"
)

func TestRunCollectsResultsInOrder(t *testing.T) {
	p := worker.New(worker.Config{Concurrency: 2})

	jobs := []worker.Job{
		{ID: "a", Run: func(ctx context.Context) error { return nil }},
		{ID: "b", Run: func(ctx context.Context) error { return errors.New("boom") }},
		{ID: "c", Run: func(ctx context.Context) error { return nil }},
	}

	results, err := p.Run(context.Background(), jobs, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, "a", results[0].ID)
	require.NoError(t, results[0].Err)
	require.Equal(t, "b", results[1].ID)
	require.EqualError(t, results[1].Err, "boom")
	require.Equal(t, "c", results[2].ID)
	require.NoError(t, results[2].Err)
}

func TestRunRecoversPanicPerJob(t *testing.T) {
	p := worker.New(worker.Config{Concurrency: 1})

	jobs := []worker.Job{
		{ID: "panics", Run: func(ctx context.Context) error { panic("kaboom") }},
		{ID: "fine", Run: func(ctx context.Context) error { return nil }},
	}

	results, err := p.Run(context.Background(), jobs, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	var pe *worker.PanicError
	require.ErrorAs(t, results[0].Err, &pe)
	require.Equal(t, "panics", pe.JobID)
	require.NoError(t, results[1].Err)
}

func TestRunRejectsAlreadyCancelledContext(t *testing.T) {
	p := worker.New(worker.DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, []worker.Job{{ID: "x", Run: func(context.Context) error { return nil }}}, nil)
	require.Error(t, err)
}

func TestPerJobTimeoutCancelsLongRunningJob(t *testing.T) {
	p := worker.New(worker.Config{Concurrency: 1, PerJobTimeout: 10 * time.Millisecond})

	jobs := []worker.Job{
		{ID: "slow", Run: func(ctx context.Context) error {
			select {
			case <-time.After(200 * time.Millisecond):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}},
	}

	results, err := p.Run(context.Background(), jobs, nil)
	require.NoError(t, err)
	require.ErrorIs(t, results[0].Err, context.DeadlineExceeded)
}
