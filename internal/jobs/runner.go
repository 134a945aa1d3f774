// Package jobs runs the batch jobs (scoring, purge) under a Redis lock and
// records a summary of each run.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/samdevvv/telofundi/internal/cache"
	svcErr "github.com/samdevvv/telofundi/internal/errors"
	"github.com/samdevvv/telofundi/internal/metrics"
	"github.com/samdevvv/telofundi/internal/utils/besteffort"
)

// Job names. They double as lock/last-run key suffixes and metric labels.
const (
	Discovery = "discovery"
	Trending  = "trending"
	Purge     = "purge"
)

// lockGrace extends the lock past the job timeout to cover bookkeeping.
const lockGrace = 30 * time.Second

// Known reports whether name is a job this service runs.
func Known(name string) bool {
	switch name {
	case Discovery, Trending, Purge:
		return true
	}
	return false
}

// LastRun is the stored summary of a job's latest completed run.
type LastRun struct {
	Job        string          `json:"job"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
	DurationMs int64           `json:"durationMs"`
	Status     string          `json:"status"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
}

type Runner struct {
	cache   *cache.RedisCache
	log     *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewRunner builds a Runner. A nil cache disables locking and last-run
// bookkeeping; a zero timeout runs jobs without a deadline.
func NewRunner(c *cache.RedisCache, log *slog.Logger, timeout time.Duration) *Runner {
	return &Runner{
		cache:   c,
		log:     log,
		timeout: timeout,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Run executes fn as job name.
//
// Behavior:
//   - Returns ErrJobInProgress when another holder owns the job lock.
//   - A Redis failure while locking is logged and the job runs unlocked;
//     every job is idempotent.
//   - fn runs under the runner timeout.
//   - The result is stored as the job's LastRun even when fn fails.
func Run[T any](ctx context.Context, r *Runner, name string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	log := r.log.With("job", name)

	release, err := r.lock(ctx, name, log)
	if err != nil {
		return zero, err
	}
	defer release()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	started := r.now()
	log.Info("job started")

	res, runErr := fn(ctx)

	finished := r.now()
	status := "ok"
	if runErr != nil {
		status = "error"
	}
	metrics.JobDuration.WithLabelValues(name, status).Observe(finished.Sub(started).Seconds())

	if runErr != nil {
		log.Error("job failed", "err", runErr, "duration", finished.Sub(started))
	} else {
		log.Info("job finished", "result", res, "duration", finished.Sub(started))
	}

	r.record(ctx, name, LastRun{
		Job:        name,
		StartedAt:  started,
		FinishedAt: finished,
		DurationMs: finished.Sub(started).Milliseconds(),
		Status:     status,
	}, res, runErr)

	return res, runErr
}

func (r *Runner) lock(ctx context.Context, name string, log *slog.Logger) (func(), error) {
	noop := func() {}
	if r.cache == nil {
		return noop, nil
	}

	key := r.cache.KeyForJobLock(name)
	token := uuid.NewString()
	ttl := r.timeout + lockGrace
	if r.timeout <= 0 {
		ttl = time.Hour
	}

	ok, err := r.cache.TryLock(ctx, key, token, ttl)
	if err != nil {
		log.Warn("job lock unavailable, running unlocked", "err", err)
		return noop, nil
	}
	if !ok {
		log.Info("job skipped, lock held elsewhere")
		return nil, svcErr.ErrJobInProgress
	}

	return func() {
		besteffort.Run(context.WithoutCancel(ctx), log, "jobs.unlock", func(ctx context.Context) error {
			_, err := r.cache.Unlock(ctx, key, token)
			return err
		})
	}, nil
}

func (r *Runner) record(ctx context.Context, name string, run LastRun, res any, runErr error) {
	if r.cache == nil {
		return
	}
	if runErr != nil {
		run.Error = runErr.Error()
	} else if raw, err := json.Marshal(res); err == nil {
		run.Result = raw
	}

	besteffort.Run(context.WithoutCancel(ctx), r.log, "jobs.last_run", func(ctx context.Context) error {
		return r.cache.SetJSON(ctx, r.cache.KeyForLastRun(name), run, 0)
	})
}

// LastRun returns the stored summary of the latest run of name.
// NotFound when the job never ran or no cache is configured.
func (r *Runner) LastRun(ctx context.Context, name string) (*LastRun, error) {
	if r.cache == nil {
		return nil, &svcErr.NotFoundError{Entity: "job run " + name}
	}
	var run LastRun
	found, err := r.cache.GetJSON(ctx, r.cache.KeyForLastRun(name), &run)
	if err != nil {
		return nil, svcErr.Repo(svcErr.KindUnavailable, "jobs.last_run", err)
	}
	if !found {
		return nil, &svcErr.NotFoundError{Entity: "job run " + name}
	}
	return &run, nil
}
