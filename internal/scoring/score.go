// Package scoring holds the pure ranking formulas. Nothing here does I/O;
// the batch jobs gather the inputs and persist the outputs.
package scoring

import (
	"math"
	"time"
)

const (
	MinScore = 0.0
	MaxScore = 100.0

	discoveryBase = 50.0
)

// DiscoveryInput is the profile snapshot the discovery score is derived from.
type DiscoveryInput struct {
	CreatedAt    time.Time
	LastActiveAt *time.Time // nil falls back to CreatedAt

	ProfileCompleteness float64 // 0..100
	Verified            bool
	ActivePosts         int64
	LikesReceived       int64
	FavoritesReceived   int64
	OverallScore        float64 // 0..100
}

// TrendingStats aggregates interactions received over the trailing windows.
type TrendingStats struct {
	Interactions7d  int64
	WeightSum7d     float64
	Interactions24h int64
}

// Clamp bounds v to [MinScore, MaxScore]. NaN maps to MinScore.
func Clamp(v float64) float64 {
	if math.IsNaN(v) || v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

// DaysBetween returns whole days elapsed from t to now, never negative.
func DaysBetween(t, now time.Time) int {
	d := now.Sub(t)
	if d <= 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// RecencyBonus scores how recently the user was active.
func RecencyBonus(daysSinceActive int) float64 {
	switch {
	case daysSinceActive == 0:
		return 15
	case daysSinceActive <= 1:
		return 12
	case daysSinceActive <= 3:
		return 8
	case daysSinceActive <= 7:
		return 4
	case daysSinceActive <= 14:
		return 2
	case daysSinceActive > 30:
		return -10
	}
	return 0
}

// NoveltyBonus favours recently created accounts. The first-week bonus
// stacks on top of the first-month one: a brand-new account with every
// other factor maxed sums to 102.6 before clamping, which needs both (+5
// and +3). Do not turn the second check into an else branch.
func NoveltyBonus(daysSinceCreated int) float64 {
	var bonus float64
	if daysSinceCreated <= 7 {
		bonus += 5
	}
	if daysSinceCreated <= 30 {
		bonus += 3
	}
	return bonus
}

// EngagementBonus rewards posting activity and received likes/favorites.
func EngagementBonus(posts, likes, favorites int64) float64 {
	var bonus float64
	if posts >= 1 {
		bonus += 3
	}
	if posts >= 3 {
		bonus += 2
	}
	if likes > 10 {
		bonus += 3
	}
	if favorites > 5 {
		bonus += 2
	}
	return bonus
}

// DiscoveryScore computes the discovery ranking signal in [0, 100].
// The sum is clamped once, after every factor is applied.
func DiscoveryScore(in DiscoveryInput, now time.Time) float64 {
	lastActive := in.CreatedAt
	if in.LastActiveAt != nil {
		lastActive = *in.LastActiveAt
	}

	score := discoveryBase
	score += RecencyBonus(DaysBetween(lastActive, now))
	score += (in.ProfileCompleteness / 100) * 10
	if in.Verified {
		score += 8
	}
	score += EngagementBonus(in.ActivePosts, in.LikesReceived, in.FavoritesReceived)
	score += NoveltyBonus(DaysBetween(in.CreatedAt, now))
	score += (in.OverallScore / 100) * 2

	return Clamp(score)
}

// TrendingScore computes the short-window popularity signal in [0, 100].
func TrendingScore(s TrendingStats) float64 {
	score := 0.0
	score += math.Min(30, float64(s.Interactions7d)*2)
	score += math.Min(20, s.WeightSum7d)
	score += math.Min(20, float64(s.Interactions24h)*5)
	if s.Interactions24h > 5 {
		score += 10
	}
	return Clamp(score)
}
