// Package catalogue tells the kits plugin to re-read its data file after
// this daemon has rewritten it.
package catalogue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// CommandRunner executes a host console command.
type CommandRunner interface {
	RunCommand(command string)
}

// Reloader coalesces reload signals. Any number of Signal calls made while
// a reload is pending produce a single host command, and commands are
// spaced at least interval apart.
type Reloader struct {
	runner  CommandRunner
	command string
	limiter *rate.Limiter
	pending chan struct{}
	logger  *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewReloader(runner CommandRunner, command string, interval time.Duration, logger *slog.Logger) *Reloader {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Reloader{
		runner:  runner,
		command: command,
		limiter: rate.NewLimiter(limit, 1),
		pending: make(chan struct{}, 1),
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Signal requests a reload. It never blocks.
func (r *Reloader) Signal() {
	select {
	case r.pending <- struct{}{}:
	default:
	}
}

// Start runs the reload worker until Stop is called.
func (r *Reloader) Start(ctx context.Context) error {
	ctx, r.cancel = context.WithCancel(context.WithoutCancel(ctx))
	go r.run(ctx)
	return nil
}

// Stop flushes a pending signal and stops the worker.
func (r *Reloader) Stop(context.Context) error {
	r.once.Do(func() {
		if r.cancel != nil {
			r.cancel()
			<-r.done
		}
		select {
		case <-r.pending:
			r.emit()
		default:
		}
	})
	return nil
}

func (r *Reloader) run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.pending:
			if err := r.limiter.Wait(ctx); err != nil {
				// shutting down; leave the signal for Stop to flush
				r.Signal()
				return
			}
			r.emit()
		}
	}
}

func (r *Reloader) emit() {
	r.logger.Debug("requesting kit catalogue reload", "command", r.command)
	r.runner.RunCommand(r.command)
}
