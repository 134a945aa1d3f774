package ranking

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	svcErr "github.com/samdevvv/telofundi/internal/errors"
	"github.com/samdevvv/telofundi/internal/jobs"
	"github.com/samdevvv/telofundi/internal/metrics"
	"github.com/samdevvv/telofundi/internal/repository"
	"github.com/samdevvv/telofundi/internal/scoring"
)

const (
	trendingWindow = 7 * 24 * time.Hour
	trendingBurst  = 24 * time.Hour
)

// TrendingResult summarizes one trending scoring run. Skipped counts
// interactions without a target and targets without a reputation row.
type TrendingResult struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// TrendingScorer recomputes the trending score of every user that received
// interactions in the last seven days.
type TrendingScorer struct {
	store   ScoringStore
	log     *slog.Logger
	now     func() time.Time
	workers int
	limiter *rate.Limiter
}

func NewTrendingScorer(store ScoringStore, log *slog.Logger, opts ScorerOptions) *TrendingScorer {
	return &TrendingScorer{
		store:   store,
		log:     log.With("job", jobs.Trending),
		now:     opts.clock(),
		workers: opts.workers(),
		limiter: newWriteLimiter(opts.WritesPerSecond),
	}
}

// Run scores every recent interaction target.
//
// Users with no interactions in the window keep their previous trending
// score; there is no decay pass.
func (s *TrendingScorer) Run(ctx context.Context) (TrendingResult, error) {
	now := s.now()

	targets, err := s.store.ListInteractionTargets(ctx, now.Add(-trendingWindow))
	if err != nil {
		return TrendingResult{}, err
	}
	s.log.Debug("trending targets loaded", "count", len(targets))

	var updated, skipped, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, t := range targets {
		if t.TargetUserID == nil {
			skipped.Add(1)
			continue
		}
		g.Go(func() error {
			userID := *t.TargetUserID
			err := s.scoreTarget(ctx, userID, t, now)
			switch {
			case err == nil:
				updated.Add(1)
				metrics.ScoredUsers.WithLabelValues(jobs.Trending, metrics.OutcomeUpdated).Inc()
			case svcErr.IsNotFound(err):
				skipped.Add(1)
				metrics.ScoredUsers.WithLabelValues(jobs.Trending, metrics.OutcomeSkipped).Inc()
				s.log.Info("trending target has no reputation, skipped", "user_id", userID)
			default:
				failed.Add(1)
				metrics.ScoredUsers.WithLabelValues(jobs.Trending, metrics.OutcomeFailed).Inc()
				s.log.Warn("trending score update failed", "user_id", userID, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	res := TrendingResult{
		Updated: int(updated.Load()),
		Skipped: int(skipped.Load()),
		Failed:  int(failed.Load()),
	}
	return res, ctx.Err()
}

func (s *TrendingScorer) scoreTarget(ctx context.Context, userID uint64, week repository.TargetAggregate, now time.Time) error {
	day, err := s.store.GetInteractionAggregates(ctx, repository.AggregateQuery{
		TargetID: &userID,
		Since:    now.Add(-trendingBurst),
	})
	if err != nil {
		return err
	}

	score := scoring.TrendingScore(scoring.TrendingStats{
		Interactions7d:  week.Count,
		WeightSum7d:     week.WeightSum,
		Interactions24h: day.Count,
	})

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	upd := repository.NewReputationUpdate().
		TrendingScore(score).
		LastScoreUpdate(now)
	return s.store.WriteReputation(ctx, userID, upd)
}
