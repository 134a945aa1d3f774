package ranking

import (
	"context"
	"time"

	"github.com/samdevvv/telofundi/internal/app"
	"github.com/samdevvv/telofundi/internal/db"
	svcErr "github.com/samdevvv/telofundi/internal/errors"
	"github.com/samdevvv/telofundi/internal/jobs"
	"github.com/samdevvv/telofundi/internal/utils/pagination"
)

// Service is the ranking subsystem facade used by the HTTP handlers, the
// gRPC jobs API, the scheduler and the scorer CLI.
type Service struct {
	appCtx    *app.AppContext
	discovery *DiscoveryScorer
	trending  *TrendingScorer
	ranker    *Ranker
}

type Option func(*ScorerOptions)

// WithClock pins the clock used by scorers and the online filter.
func WithClock(now func() time.Time) Option {
	return func(o *ScorerOptions) { o.Now = now }
}

// NewRankingService wires scorers and ranker over the shared candidate
// repository. Tuning comes from the Scoring config section.
func NewRankingService(appCtx *app.AppContext, opts ...Option) *Service {
	so := ScorerOptions{
		Workers:         appCtx.Config.Scoring.Workers,
		WritesPerSecond: appCtx.Config.Scoring.WritesPerSecond,
	}
	for _, opt := range opts {
		opt(&so)
	}

	store := appCtx.Candidates
	log := appCtx.Logger.With("service", "ranking")

	return &Service{
		appCtx:    appCtx,
		discovery: NewDiscoveryScorer(store, log, so),
		trending:  NewTrendingScorer(store, log, so),
		ranker:    NewRanker(store, log, so.clock()),
	}
}

// RunDiscoveryScoring recomputes every active user's discovery score under
// the discovery job lock.
func (s *Service) RunDiscoveryScoring(ctx context.Context) (DiscoveryResult, error) {
	return jobs.Run(ctx, s.appCtx.Jobs, jobs.Discovery, s.discovery.Run)
}

// RunTrendingScoring recomputes trending scores under the trending job lock.
func (s *Service) RunTrendingScoring(ctx context.Context) (TrendingResult, error) {
	return jobs.Run(ctx, s.appCtx.Jobs, jobs.Trending, s.trending.Run)
}

func (s *Service) Search(ctx context.Context, filters SearchFilters, page pagination.Params, requesterID uint64) (*SearchResult, error) {
	return s.ranker.Search(ctx, filters, page, requesterID)
}

func (s *Service) Recommend(ctx context.Context, userID uint64, userType string, limit int) ([]db.User, error) {
	return s.ranker.Recommend(ctx, userID, userType, limit)
}

// Reputation returns the persisted scores of a user.
func (s *Service) Reputation(ctx context.Context, userID uint64) (*db.Reputation, error) {
	return s.appCtx.Candidates.ReadReputation(ctx, userID)
}

// LastRun returns the summary of the latest run of job.
func (s *Service) LastRun(ctx context.Context, job string) (*jobs.LastRun, error) {
	if !jobs.Known(job) {
		return nil, svcErr.Invalid("job", "unknown job %q", job)
	}
	return s.appCtx.Jobs.LastRun(ctx, job)
}
