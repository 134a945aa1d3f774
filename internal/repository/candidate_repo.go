package repository

import (
	"context"
	"time"

	"github.com/samdevvv/telofundi/internal/db"
)

// CandidateFilter narrows the active candidate set.
type CandidateFilter struct {
	UserTypes  []string
	ExcludeIDs []uint64
}

// AggregateQuery selects interactions received by TargetID (or made by
// ActorID) since Since. Exactly one of TargetID/ActorID should be set.
type AggregateQuery struct {
	TargetID *uint64
	ActorID  *uint64
	Since    time.Time
}

// Aggregate is a count/weight-sum pair over a set of interactions.
type Aggregate struct {
	Count     int64
	WeightSum float64
}

// TargetAggregate is an Aggregate grouped by target user.
// TargetUserID is nil for interactions that reference no user.
type TargetAggregate struct {
	TargetUserID *uint64
	Count        int64
	WeightSum    float64
}

// ListActiveCandidates returns every active, non-banned, non-deleted user
// matching filter, with type records and reputation preloaded.
//
// Behavior:
//   - No pagination: intended for batch jobs.
//   - Ordered by id for deterministic iteration.
func (r *CandidateRepository) ListActiveCandidates(ctx context.Context, filter CandidateFilter) ([]db.User, error) {
	var users []db.User

	query := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("users.is_active = ? AND users.is_banned = ?", true, false).
		Preload("Escort").
		Preload("Agency").
		Preload("Reputation").
		Order("users.id ASC")

	if len(filter.UserTypes) > 0 {
		query = query.Where("users.user_type IN ?", filter.UserTypes)
	}
	if len(filter.ExcludeIDs) > 0 {
		query = query.Where("users.id NOT IN ?", filter.ExcludeIDs)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, wrap("candidates.list", err)
	}
	return users, nil
}

// CountActivePosts returns how many active, non-deleted posts the user has.
func (r *CandidateRepository) CountActivePosts(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Post{}).
		Where("author_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return 0, wrap("posts.count", err)
	}
	return count, nil
}

// GetInteractionAggregates counts and weight-sums interactions in a window.
//
// Example:
//
//	repo.GetInteractionAggregates(ctx, AggregateQuery{TargetID: &id, Since: now.Add(-24 * time.Hour)})
func (r *CandidateRepository) GetInteractionAggregates(ctx context.Context, q AggregateQuery) (Aggregate, error) {
	var agg Aggregate

	query := r.db.WithContext(ctx).
		Model(&db.Interaction{}).
		Select("COUNT(*) AS count, COALESCE(SUM(weight), 0) AS weight_sum").
		Where("created_at >= ?", q.Since)

	if q.TargetID != nil {
		query = query.Where("target_user_id = ?", *q.TargetID)
	}
	if q.ActorID != nil {
		query = query.Where("actor_id = ?", *q.ActorID)
	}

	if err := query.Scan(&agg).Error; err != nil {
		return Aggregate{}, wrap("interactions.aggregate", err)
	}
	return agg, nil
}

// ListInteractionTargets groups interactions since the given time by target.
func (r *CandidateRepository) ListInteractionTargets(ctx context.Context, since time.Time) ([]TargetAggregate, error) {
	var rows []TargetAggregate

	err := r.db.WithContext(ctx).
		Model(&db.Interaction{}).
		Select("target_user_id, COUNT(*) AS count, COALESCE(SUM(weight), 0) AS weight_sum").
		Where("created_at >= ?", since).
		Group("target_user_id").
		Order("target_user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap("interactions.targets", err)
	}
	return rows, nil
}

// ReadReputation loads the reputation row of a user.
func (r *CandidateRepository) ReadReputation(ctx context.Context, userID uint64) (*db.Reputation, error) {
	var rep db.Reputation
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&rep).Error; err != nil {
		return nil, wrap("reputation.read", err)
	}
	return &rep, nil
}

// WriteReputation applies a partial update to the user's reputation row.
//
// Behavior:
//   - No-op for an empty update.
//   - NotFound when the user has no reputation row.
//   - Last write wins; no row lock is taken.
func (r *CandidateRepository) WriteReputation(ctx context.Context, userID uint64, upd *ReputationUpdate) error {
	if upd == nil || upd.Empty() {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&db.Reputation{}).
		Where("user_id = ?", userID).
		Updates(upd.Columns())
	if res.Error != nil {
		return wrap("reputation.write", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// MySQL reports 0 affected rows when values are unchanged; tell that
	// apart from a missing row.
	var count int64
	if err := r.db.WithContext(ctx).Model(&db.Reputation{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return wrap("reputation.write", err)
	}
	if count == 0 {
		return notFound("reputation.write")
	}
	return nil
}

// IsBlocked reports whether blocker has blocked blocked (directed).
func (r *CandidateRepository) IsBlocked(ctx context.Context, blocker, blocked uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.UserBlock{}).
		Where("blocker_id = ? AND blocked_id = ?", blocker, blocked).
		Count(&count).Error
	if err != nil {
		return false, wrap("blocks.check", err)
	}
	return count > 0, nil
}
