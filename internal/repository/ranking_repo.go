package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/samdevvv/telofundi/internal/db"
)

// Sort keys accepted by SearchUsers.
const (
	SortRelevance = "relevance"
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPopular   = "popular"
	SortRating    = "rating"
	SortOnline    = "online"
)

// sortOrders maps sort keys to ORDER BY clauses. users.id is always the
// final key so pages are stable.
var sortOrders = map[string]string{
	SortRelevance: "r.discovery_score DESC, r.overall_score DESC, users.id ASC",
	SortNewest:    "users.created_at DESC, users.id ASC",
	SortOldest:    "users.created_at ASC, users.id ASC",
	SortPopular:   "users.profile_views DESC, r.overall_score DESC, users.id ASC",
	SortRating:    "r.overall_score DESC, users.profile_views DESC, users.id ASC",
	SortOnline:    "users.last_active_at DESC, r.discovery_score DESC, users.id ASC",
}

const recommendOrder = "r.discovery_score DESC, r.overall_score DESC, users.profile_views DESC, users.id ASC"

// ValidSort reports whether key is a known sort key.
func ValidSort(key string) bool {
	_, ok := sortOrders[key]
	return ok
}

// SearchQuery is a validated search request translated to predicates.
// Zero values mean "no filter".
type SearchQuery struct {
	RequesterID uint64
	UserTypes   []string
	Text        string
	Location    string
	Verified    *bool
	AgeMin      *int
	AgeMax      *int
	Services    []string
	Languages   []string
	MinRating   *float64
	OnlineSince *time.Time
	Sort        string
	Offset      int
	Limit       int
}

// RecommendQuery selects recommendation candidates.
type RecommendQuery struct {
	RequesterID uint64
	UserTypes   []string
	ExcludeIDs  []uint64
	Limit       int
}

const notBlockedEitherWay = `NOT EXISTS (
	SELECT 1 FROM user_blocks b
	WHERE (b.blocker_id = ? AND b.blocked_id = users.id)
	   OR (b.blocker_id = users.id AND b.blocked_id = ?)
)`

const hasTag = `EXISTS (
	SELECT 1 FROM profile_tags t
	WHERE t.user_id = users.id AND t.kind = ? AND t.value IN ?
)`

// visibleCandidates is the base candidate set shared by search and
// recommendations: active, non-banned, non-deleted users of the given types,
// excluding the requester and anyone blocked in either direction.
func (r *CandidateRepository) visibleCandidates(ctx context.Context, requesterID uint64, types []string) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&db.User{}).
		Joins("LEFT JOIN reputations r ON r.user_id = users.id").
		Joins("LEFT JOIN user_settings s ON s.user_id = users.id").
		Where("users.is_active = ? AND users.is_banned = ?", true, false)

	if len(types) > 0 {
		query = query.Where("users.user_type IN ?", types)
	}
	if requesterID != 0 {
		query = query.
			Where("users.id <> ?", requesterID).
			Where(notBlockedEitherWay, requesterID, requesterID)
	}
	return query
}

func preloadProfile(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Escort").
		Preload("Agency").
		Preload("Reputation").
		Preload("Tags")
}

// SearchUsers returns one page of users matching q and the total match count.
//
// Behavior:
//   - Only users with showInSearch (or no settings row) are candidates.
//   - Text matches username, first/last name and bio, case-insensitively.
//   - Age, services and languages only match escorts; verification and
//     rating match the escort or agency record.
//   - Ordered by q.Sort (relevance when empty).
func (r *CandidateRepository) SearchUsers(ctx context.Context, q SearchQuery) ([]db.User, int64, error) {
	query := r.visibleCandidates(ctx, q.RequesterID, q.UserTypes).
		Joins("LEFT JOIN escort_profiles e ON e.user_id = users.id").
		Joins("LEFT JOIN agency_profiles a ON a.user_id = users.id").
		Where("(s.user_id IS NULL OR s.show_in_search = ?)", true)

	if q.Text != "" {
		p := likePattern(q.Text)
		query = query.Where(
			`(LOWER(users.username) LIKE ? ESCAPE '!'
			 OR LOWER(users.first_name) LIKE ? ESCAPE '!'
			 OR LOWER(users.last_name) LIKE ? ESCAPE '!'
			 OR LOWER(users.bio) LIKE ? ESCAPE '!')`,
			p, p, p, p,
		)
	}
	if q.Location != "" {
		query = query.Where("LOWER(users.location) LIKE ? ESCAPE '!'", likePattern(q.Location))
	}
	if q.Verified != nil {
		if *q.Verified {
			query = query.Where("(e.is_verified = ? OR a.is_verified = ?)", true, true)
		} else {
			query = query.Where("(COALESCE(e.is_verified, ?) = ? AND COALESCE(a.is_verified, ?) = ?)", false, false, false, false)
		}
	}
	if q.AgeMin != nil {
		query = query.Where("e.age >= ?", *q.AgeMin)
	}
	if q.AgeMax != nil {
		query = query.Where("e.age <= ?", *q.AgeMax)
	}
	if len(q.Services) > 0 {
		query = query.Where(hasTag, db.TagService, q.Services)
	}
	if len(q.Languages) > 0 {
		query = query.Where(hasTag, db.TagLanguage, q.Languages)
	}
	if q.MinRating != nil {
		query = query.Where("COALESCE(e.rating, a.rating, 0) >= ?", *q.MinRating)
	}
	if q.OnlineSince != nil {
		query = query.Where("users.last_active_at >= ?", *q.OnlineSince)
	}

	base := query.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, wrap("users.search.count", err)
	}
	if total == 0 || q.Offset >= int(total) {
		return []db.User{}, total, nil
	}

	order, ok := sortOrders[q.Sort]
	if !ok {
		order = sortOrders[SortRelevance]
	}

	var users []db.User
	err := preloadProfile(base.Select("users.*")).
		Order(order).
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, wrap("users.search", err)
	}
	return users, total, nil
}

// RecommendUsers returns at most q.Limit users with showInDiscovery, ranked
// by discovery score, overall score and profile views.
func (r *CandidateRepository) RecommendUsers(ctx context.Context, q RecommendQuery) ([]db.User, error) {
	query := r.visibleCandidates(ctx, q.RequesterID, q.UserTypes).
		Where("(s.user_id IS NULL OR s.show_in_discovery = ?)", true)

	if len(q.ExcludeIDs) > 0 {
		query = query.Where("users.id NOT IN ?", q.ExcludeIDs)
	}

	var users []db.User
	err := preloadProfile(query.Select("users.*")).
		Order(recommendOrder).
		Limit(q.Limit).
		Find(&users).Error
	if err != nil {
		return nil, wrap("users.recommend", err)
	}
	return users, nil
}

// RecentInteractionTargets returns the distinct target ids of the actor's
// latest n interactions, most recent first.
func (r *CandidateRepository) RecentInteractionTargets(ctx context.Context, actorID uint64, n int) ([]uint64, error) {
	var targets []*uint64
	err := r.db.WithContext(ctx).
		Model(&db.Interaction{}).
		Where("actor_id = ?", actorID).
		Order("created_at DESC, id DESC").
		Limit(n).
		Pluck("target_user_id", &targets).Error
	if err != nil {
		return nil, wrap("interactions.recent", err)
	}

	seen := make(map[uint64]struct{}, len(targets))
	out := make([]uint64, 0, len(targets))
	for _, t := range targets {
		if t == nil {
			continue
		}
		if _, dup := seen[*t]; dup {
			continue
		}
		seen[*t] = struct{}{}
		out = append(out, *t)
	}
	return out, nil
}
