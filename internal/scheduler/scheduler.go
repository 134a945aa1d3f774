// Package scheduler triggers the batch jobs on fixed intervals.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	svcErr "github.com/samdevvv/telofundi/internal/errors"
)

type job struct {
	name     string
	interval time.Duration
	run      func(context.Context) error
}

type Scheduler struct {
	log  *slog.Logger
	jobs []job
}

func New(log *slog.Logger) *Scheduler {
	return &Scheduler{log: log.With("component", "scheduler")}
}

// Every registers run to fire every interval. A non-positive interval
// disables the job.
func (s *Scheduler) Every(name string, interval time.Duration, run func(context.Context) error) {
	if interval <= 0 {
		s.log.Info("job disabled", "job", name)
		return
	}
	s.jobs = append(s.jobs, job{name: name, interval: interval, run: run})
}

// Start runs every registered job on its own ticker and blocks until ctx
// is canceled and in-flight runs return. The first run happens one
// interval after Start. Runs of the same job never overlap; a tick that
// fires while the previous run is still going is dropped.
func (s *Scheduler) Start(ctx context.Context) {
	var wg sync.WaitGroup
	for _, j := range s.jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.loop(ctx, j)
		}()
	}
	s.log.Info("scheduler started", "jobs", len(s.jobs))
	wg.Wait()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fire(ctx, j)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, j job) {
	err := j.run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, svcErr.ErrJobInProgress):
		s.log.Info("job already running elsewhere", "job", j.name)
	case ctx.Err() != nil:
		s.log.Info("job interrupted by shutdown", "job", j.name)
	default:
		s.log.Error("scheduled job failed", "job", j.name, "err", err)
	}
}
