package worker

import (
	"context"
	"time"
)

type StartOptions[J any] struct {
	Ctx    context.Context
	Sem    chan struct{}
	Jobs   <-chan J
	Handle func(context.Context, J)
	// With IdleTimeout > 0, OnIdle is called after that long without a job
	// and the worker exits when it returns true.
	IdleTimeout time.Duration
	OnIdle      func() bool
	// Done is called once when the worker goroutine returns.
	Done func()
}

func Start[J any](opts StartOptions[J]) {
	go func() {
		if opts.Done != nil {
			defer opts.Done()
		}
		var idle <-chan time.Time
		var timer *time.Timer
		if opts.IdleTimeout > 0 && opts.OnIdle != nil {
			timer = time.NewTimer(opts.IdleTimeout)
			defer timer.Stop()
			idle = timer.C
		}
		for {
			select {
			case <-opts.Ctx.Done():
				return
			case <-idle:
				if opts.OnIdle() {
					return
				}
				timer.Reset(opts.IdleTimeout)
			case job, ok := <-opts.Jobs:
				if !ok {
					return
				}
				if opts.Sem != nil {
					select {
					case opts.Sem <- struct{}{}:
					case <-opts.Ctx.Done():
						return
					}
				}
				func() {
					if opts.Sem != nil {
						defer func() { <-opts.Sem }()
					}
					opts.Handle(opts.Ctx, job)
				}()
				if timer != nil {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(opts.IdleTimeout)
				}
			}
		}
	}()
}

func Enqueue[J any](ctx, workersCtx context.Context, jobs chan<- J, job J) error {
	if ctx == nil {
		ctx = workersCtx
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-workersCtx.Done():
		return workersCtx.Err()
	case jobs <- job:
		return nil
	}
}
