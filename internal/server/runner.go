// Package server runs the periodic maintenance that keeps caches and sessions bounded.
package server

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Config for the maintenance runner.
type Config struct {
	// Interval between runs of each task. Defaults to ten minutes.
	Interval time.Duration
	// RunAtStart runs every task once before the first tick.
	RunAtStart bool
}

// Task is one unit of periodic maintenance. Run reports how many records it removed.
type Task struct {
	Name string
	Run  func(ctx context.Context) (int64, error)
}

// Runner runs maintenance tasks on a fixed interval until its context ends.
type Runner struct {
	config Config
	tasks  []Task
	logger *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(cfg Config, logger *slog.Logger, tasks ...Task) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	return &Runner{
		config: cfg,
		tasks:  tasks,
		logger: logger,
	}
}

// Run starts one loop per task and blocks until ctx is canceled.
// Task failures are logged and retried on the next tick.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, task := range r.tasks {
		g.Go(func() error {
			return r.loop(ctx, task)
		})
	}

	// Keeps Run blocking when no tasks are registered.
	g.Go(func() error {
		<-ctx.Done()
		return ctx.Err()
	})

	return g.Wait()
}

// RunOnce executes every task once, sequentially.
func (r *Runner) RunOnce(ctx context.Context) {
	for _, task := range r.tasks {
		r.execute(ctx, task)
	}
}

func (r *Runner) loop(ctx context.Context, task Task) error {
	if r.config.RunAtStart {
		r.execute(ctx, task)
	}

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.execute(ctx, task)
		}
	}
}

func (r *Runner) execute(ctx context.Context, task Task) {
	start := time.Now()
	n, err := task.Run(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Warn("maintenance task failed", "task", task.Name, "error", err)
		}
		return
	}
	if n > 0 {
		r.logger.Info("maintenance task", "task", task.Name, "removed", n, "duration", time.Since(start))
	}
}

// Int adapts a task function returning int.
func Int(fn func(ctx context.Context) (int, error)) func(ctx context.Context) (int64, error) {
	return func(ctx context.Context) (int64, error) {
		n, err := fn(ctx)
		return int64(n), err
	}
}
