package ranking

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/samdevvv/telofundi/internal/db"
	svcErr "github.com/samdevvv/telofundi/internal/errors"
	"github.com/samdevvv/telofundi/internal/jobs"
	"github.com/samdevvv/telofundi/internal/metrics"
	"github.com/samdevvv/telofundi/internal/repository"
	"github.com/samdevvv/telofundi/internal/scoring"
)

// DiscoveryResult summarizes one discovery scoring run.
type DiscoveryResult struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// DiscoveryScorer recomputes the discovery score of every active user.
type DiscoveryScorer struct {
	store   ScoringStore
	log     *slog.Logger
	now     func() time.Time
	workers int
	limiter *rate.Limiter
}

func NewDiscoveryScorer(store ScoringStore, log *slog.Logger, opts ScorerOptions) *DiscoveryScorer {
	return &DiscoveryScorer{
		store:   store,
		log:     log.With("job", jobs.Discovery),
		now:     opts.clock(),
		workers: opts.workers(),
		limiter: newWriteLimiter(opts.WritesPerSecond),
	}
}

// Run scores all active, non-banned users.
//
// Behavior:
//   - Listing candidates failing aborts the run.
//   - A failure for one user is logged and counted; the rest continue.
//   - Every user is scored against the same clock reading, so rerunning
//     with unchanged data and clock writes identical scores.
func (s *DiscoveryScorer) Run(ctx context.Context) (DiscoveryResult, error) {
	users, err := s.store.ListActiveCandidates(ctx, repository.CandidateFilter{})
	if err != nil {
		return DiscoveryResult{}, err
	}

	now := s.now()
	s.log.Debug("discovery candidates loaded", "count", len(users))

	var updated, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.workers)

	for i := range users {
		u := &users[i]
		g.Go(func() error {
			if err := s.scoreUser(ctx, u, now); err != nil {
				failed.Add(1)
				metrics.ScoredUsers.WithLabelValues(jobs.Discovery, metrics.OutcomeFailed).Inc()
				s.log.Warn("discovery score update failed", "user_id", u.ID, "err", err)
				return nil
			}
			updated.Add(1)
			metrics.ScoredUsers.WithLabelValues(jobs.Discovery, metrics.OutcomeUpdated).Inc()
			return nil
		})
	}
	_ = g.Wait()

	res := DiscoveryResult{Updated: int(updated.Load()), Failed: int(failed.Load())}
	return res, ctx.Err()
}

func (s *DiscoveryScorer) scoreUser(ctx context.Context, u *db.User, now time.Time) error {
	if u.Reputation == nil {
		return &svcErr.NotFoundError{Entity: "reputation", ID: u.ID}
	}

	posts, err := s.store.CountActivePosts(ctx, u.ID)
	if err != nil {
		return err
	}

	score := scoring.DiscoveryScore(discoveryInput(u, posts), now)

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	upd := repository.NewReputationUpdate().
		DiscoveryScore(score).
		LastScoreUpdate(now)
	return s.store.WriteReputation(ctx, u.ID, upd)
}

func discoveryInput(u *db.User, posts int64) scoring.DiscoveryInput {
	rep := u.Reputation
	return scoring.DiscoveryInput{
		CreatedAt:           u.CreatedAt,
		LastActiveAt:        u.LastActiveAt,
		ProfileCompleteness: rep.ProfileCompleteness,
		Verified:            u.IsVerified(),
		ActivePosts:         posts,
		LikesReceived:       rep.TotalLikes,
		FavoritesReceived:   rep.TotalFavorites,
		OverallScore:        rep.OverallScore,
	}
}

func newWriteLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
