package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/samdevvv/telofundi/internal/db"
)

// Counter is a reputation counter column bumped by user actions.
type Counter string

const (
	CounterViews     Counter = "total_views"
	CounterLikes     Counter = "total_likes"
	CounterMessages  Counter = "total_messages"
	CounterFavorites Counter = "total_favorites"
)

func (c Counter) valid() bool {
	switch c {
	case CounterViews, CounterLikes, CounterMessages, CounterFavorites:
		return true
	}
	return false
}

// GetUser loads a non-deleted user by id.
func (r *CandidateRepository) GetUser(ctx context.Context, userID uint64) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, wrap("users.get", err)
	}
	return &user, nil
}

// CreateInteraction appends an interaction event.
func (r *CandidateRepository) CreateInteraction(ctx context.Context, ev *db.Interaction) error {
	return wrap("interactions.create", r.db.WithContext(ctx).Create(ev).Error)
}

// PurgeInteractionsBefore deletes interactions created before cutoff and
// returns how many rows were removed.
func (r *CandidateRepository) PurgeInteractionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&db.Interaction{})
	if res.Error != nil {
		return 0, wrap("interactions.purge", res.Error)
	}
	return res.RowsAffected, nil
}

// IncrementProfileViews bumps users.profile_views by one.
func (r *CandidateRepository) IncrementProfileViews(ctx context.Context, userID uint64) error {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		UpdateColumn("profile_views", gorm.Expr("profile_views + ?", 1))
	if res.Error != nil {
		return wrap("users.views", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("users.views")
	}
	return nil
}

// IncrementReputationCounter bumps one reputation counter by one.
func (r *CandidateRepository) IncrementReputationCounter(ctx context.Context, userID uint64, counter Counter) error {
	if !counter.valid() {
		return wrap("reputation.counter", fmt.Errorf("unknown counter %q", counter))
	}

	col := string(counter)
	res := r.db.WithContext(ctx).
		Model(&db.Reputation{}).
		Where("user_id = ?", userID).
		UpdateColumn(col, gorm.Expr(col+" + ?", 1))
	if res.Error != nil {
		return wrap("reputation.counter", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("reputation.counter")
	}
	return nil
}

// TouchLastActive sets users.last_active_at.
func (r *CandidateRepository) TouchLastActive(ctx context.Context, userID uint64, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_active_at", at)
	return wrap("users.touch", res.Error)
}
