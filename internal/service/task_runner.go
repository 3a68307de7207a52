package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultTaskTimeout = 5 * time.Second

// TaskRunner runs post-commit side effects (notifications, audit entries)
// outside the request. Each task gets its own timeout; failures are logged
// and never reported back to the caller.
type TaskRunner struct {
	log     *logrus.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewTaskRunner(log *logrus.Logger, timeout time.Duration) *TaskRunner {
	if timeout <= 0 {
		timeout = defaultTaskTimeout
	}
	return &TaskRunner{log: log, timeout: timeout}
}

// Go runs fn in the background with a fresh context bounded by the runner timeout
func (r *TaskRunner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Errorf("Background task %s panicked: %v", name, rec)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			r.log.Warnf("Failed to %s (non-fatal): %+v", name, err)
		}
	}()
}

// Wait blocks until every started task has finished or ctx is done
func (r *TaskRunner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
