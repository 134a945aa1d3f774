package repository

import (
	"time"

	"github.com/samdevvv/telofundi/internal/scoring"
)

// ReputationUpdate accumulates a typed partial update for a reputation row.
// Only fields that were set end up in the UPDATE statement; scores are
// clamped to [0, 100] as they are set.
//
// Example:
//
//	upd := NewReputationUpdate().DiscoveryScore(72.5).LastScoreUpdate(now)
//	repo.WriteReputation(ctx, userID, upd)
type ReputationUpdate struct {
	overallScore        *float64
	discoveryScore      *float64
	trendingScore       *float64
	trustScore          *float64
	profileCompleteness *float64
	lastScoreUpdate     *time.Time
}

func NewReputationUpdate() *ReputationUpdate { return &ReputationUpdate{} }

func clamped(v float64) *float64 {
	c := scoring.Clamp(v)
	return &c
}

func (u *ReputationUpdate) OverallScore(v float64) *ReputationUpdate {
	u.overallScore = clamped(v)
	return u
}

func (u *ReputationUpdate) DiscoveryScore(v float64) *ReputationUpdate {
	u.discoveryScore = clamped(v)
	return u
}

func (u *ReputationUpdate) TrendingScore(v float64) *ReputationUpdate {
	u.trendingScore = clamped(v)
	return u
}

func (u *ReputationUpdate) TrustScore(v float64) *ReputationUpdate {
	u.trustScore = clamped(v)
	return u
}

func (u *ReputationUpdate) ProfileCompleteness(v float64) *ReputationUpdate {
	u.profileCompleteness = clamped(v)
	return u
}

func (u *ReputationUpdate) LastScoreUpdate(t time.Time) *ReputationUpdate {
	u.lastScoreUpdate = &t
	return u
}

// Empty reports whether no field has been set.
func (u *ReputationUpdate) Empty() bool {
	return len(u.Columns()) == 0
}

// Columns returns the column → value map for GORM's Updates.
func (u *ReputationUpdate) Columns() map[string]any {
	cols := make(map[string]any, 6)
	if u.overallScore != nil {
		cols["overall_score"] = *u.overallScore
	}
	if u.discoveryScore != nil {
		cols["discovery_score"] = *u.discoveryScore
	}
	if u.trendingScore != nil {
		cols["trending_score"] = *u.trendingScore
	}
	if u.trustScore != nil {
		cols["trust_score"] = *u.trustScore
	}
	if u.profileCompleteness != nil {
		cols["profile_completeness"] = *u.profileCompleteness
	}
	if u.lastScoreUpdate != nil {
		cols["last_score_update"] = *u.lastScoreUpdate
	}
	return cols
}
