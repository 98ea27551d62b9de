package worker

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/tazone/internal/obslog"
)

// Config bounds how a Pool runs a batch.
type Config struct {
	// Concurrency is the maximum number of jobs running at once.
	// Non-positive means unbounded.
	Concurrency int

	// PerJobTimeout, if positive, cancels an individual job's context
	// after this long.
	PerJobTimeout time.Duration

	// TotalTimeout, if positive, cancels the whole batch after this
	// long; jobs already running are allowed to observe ctx.Done().
	TotalTimeout time.Duration
}

// DefaultConfig returns a Pool configuration suitable for running one
// analysis per CPU-bound job with no deadline.
func DefaultConfig() Config {
	return Config{Concurrency: 4}
}

// Job is one unit of batch work. Run should respect ctx cancellation.
type Job struct {
	ID  string
	Run func(ctx context.Context) error
}

// Result carries the outcome of one Job.
type Result struct {
	ID       string
	Err      error
	Duration time.Duration
}

// PanicError wraps a panic recovered from inside a Job's Run, so a
// misbehaving analysis degrades to a per-job error instead of taking
// down the whole batch.
type PanicError struct {
	JobID     string
	Recovered interface{}
	Stack     []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker: job %s panicked: %v", e.JobID, e.Recovered)
}

// ProgressFunc is invoked after each job completes, from whichever
// goroutine ran it.
type ProgressFunc func(done, total int, last Result)

// Pool runs batches of Jobs with bounded concurrency.
type Pool struct {
	cfg Config
}

// New builds a Pool from cfg.
func New(cfg Config) *Pool {
	return &Pool{cfg: cfg}
}

// Run executes every job in jobs, each in its own goroutine subject to
// the Pool's concurrency limit, and returns one Result per job in the
// same order as jobs. A job's panic or error never aborts the batch;
// it is recorded in that job's Result. Run itself only returns an
// error if ctx is already done when called.
func (p *Pool) Run(ctx context.Context, jobs []Job, progress ProgressFunc) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := obslog.Named("worker")

	if p.cfg.TotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.TotalTimeout)
		defer cancel()
	}

	results := make([]Result, len(jobs))
	var done int64

	g, gCtx := errgroup.WithContext(ctx)
	if p.cfg.Concurrency > 0 {
		g.SetLimit(p.cfg.Concurrency)
	}

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = p.runOne(gCtx, job, logger)
			n := atomic.AddInt64(&done, 1)
			if progress != nil {
				progress(int(n), len(jobs), results[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func (p *Pool) runOne(ctx context.Context, job Job, logger zerolog.Logger) (res Result) {
	jobCtx := ctx
	var cancel context.CancelFunc
	if p.cfg.PerJobTimeout > 0 {
		jobCtx, cancel = context.WithTimeout(ctx, p.cfg.PerJobTimeout)
		defer cancel()
	}

	start := time.Now()
	res.ID = job.ID

	defer func() {
		res.Duration = time.Since(start)
		if r := recover(); r != nil {
			res.Err = &PanicError{JobID: job.ID, Recovered: r, Stack: debug.Stack()}
			logger.Error().Str("job", job.ID).Interface("recovered", r).Msg("job panicked")
		}
	}()

	res.Err = job.Run(jobCtx)
	return res
}
