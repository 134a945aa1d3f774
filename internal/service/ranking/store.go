package ranking

import (
	"context"
	"time"

	"github.com/samdevvv/telofundi/internal/db"
	"github.com/samdevvv/telofundi/internal/repository"
)

// ScoringStore is what the scoring jobs read and write.
// It is satisfied by *repository.CandidateRepository.
type ScoringStore interface {
	ListActiveCandidates(ctx context.Context, filter repository.CandidateFilter) ([]db.User, error)
	CountActivePosts(ctx context.Context, userID uint64) (int64, error)
	ListInteractionTargets(ctx context.Context, since time.Time) ([]repository.TargetAggregate, error)
	GetInteractionAggregates(ctx context.Context, q repository.AggregateQuery) (repository.Aggregate, error)
	ReadReputation(ctx context.Context, userID uint64) (*db.Reputation, error)
	WriteReputation(ctx context.Context, userID uint64, upd *repository.ReputationUpdate) error
}

// RankingStore is the read side used by search and recommendations.
type RankingStore interface {
	SearchUsers(ctx context.Context, q repository.SearchQuery) ([]db.User, int64, error)
	RecommendUsers(ctx context.Context, q repository.RecommendQuery) ([]db.User, error)
	RecentInteractionTargets(ctx context.Context, actorID uint64, n int) ([]uint64, error)
}

// ScorerOptions tunes the batch scorers.
type ScorerOptions struct {
	// Workers bounds concurrent per-user updates. Values below 1 mean 1.
	Workers int
	// WritesPerSecond throttles reputation writes. Zero disables throttling.
	WritesPerSecond float64
	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

func (o ScorerOptions) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}

func (o ScorerOptions) clock() func() time.Time {
	if o.Now != nil {
		return o.Now
	}
	return func() time.Time { return time.Now().UTC() }
}
