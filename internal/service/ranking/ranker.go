package ranking

import (
	"context"
	"log/slog"
	"time"

	"github.com/samdevvv/telofundi/internal/db"
	"github.com/samdevvv/telofundi/internal/repository"
	"github.com/samdevvv/telofundi/internal/utils/pagination"
)

const (
	onlineWindow = 15 * time.Minute

	// recentInteractionWindow is how many of the requester's latest
	// interactions are excluded from recommendations.
	recentInteractionWindow = 100
)

// SearchResult is one page of search results.
type SearchResult struct {
	Users      []db.User       `json:"users"`
	Pagination pagination.Info `json:"pagination"`
}

// Ranker serves search and recommendations from persisted scores.
// It never computes scores itself.
type Ranker struct {
	store RankingStore
	log   *slog.Logger
	now   func() time.Time
}

func NewRanker(store RankingStore, log *slog.Logger, now func() time.Time) *Ranker {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Ranker{store: store, log: log, now: now}
}

// Search returns one page of visible users matching filters, ordered by
// the selected sort key. requesterID 0 means anonymous.
//
// Behavior:
//   - Input is validated before any query runs.
//   - Only ESCORT and AGENCY users are searchable.
//   - The requester and users blocked in either direction are excluded.
func (r *Ranker) Search(ctx context.Context, filters SearchFilters, page pagination.Params, requesterID uint64) (*SearchResult, error) {
	filters.normalize()
	if err := filters.validate(); err != nil {
		return nil, err
	}
	page, err := validatePage(page)
	if err != nil {
		return nil, err
	}

	q := repository.SearchQuery{
		RequesterID: requesterID,
		UserTypes:   filters.userTypes(),
		Text:        filters.Query,
		Location:    filters.Location,
		Verified:    filters.Verified,
		AgeMin:      filters.AgeMin,
		AgeMax:      filters.AgeMax,
		Services:    filters.Services,
		Languages:   filters.Languages,
		MinRating:   filters.MinRating,
		Sort:        filters.SortBy,
		Offset:      page.Offset(),
		Limit:       page.Limit,
	}
	if filters.Online {
		since := r.now().Add(-onlineWindow)
		q.OnlineSince = &since
	}

	users, total, err := r.store.SearchUsers(ctx, q)
	if err != nil {
		return nil, err
	}

	r.log.Debug("search served", "requester", requesterID, "sort", q.Sort, "total", total, "returned", len(users))

	return &SearchResult{
		Users:      users,
		Pagination: pagination.NewInfo(page, total),
	}, nil
}

// Recommend returns at most limit users of the types complementary to
// userType, excluding the requester, blocked pairs, users hidden from
// discovery and targets of the requester's latest 100 interactions.
func (r *Ranker) Recommend(ctx context.Context, userID uint64, userType string, limit int) ([]db.User, error) {
	types, limit, err := validateRecommend(userID, userType, limit)
	if err != nil {
		return nil, err
	}

	seen, err := r.store.RecentInteractionTargets(ctx, userID, recentInteractionWindow)
	if err != nil {
		return nil, err
	}

	users, err := r.store.RecommendUsers(ctx, repository.RecommendQuery{
		RequesterID: userID,
		UserTypes:   types,
		ExcludeIDs:  seen,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}

	r.log.Debug("recommendations served", "requester", userID, "excluded", len(seen), "returned", len(users))
	return users, nil
}
