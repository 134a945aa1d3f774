package db

import (
	"time"

	"gorm.io/gorm"
)

// User types.
const (
	UserTypeEscort = "ESCORT"
	UserTypeAgency = "AGENCY"
	UserTypeClient = "CLIENT"
)

// Interaction types.
const (
	InteractionView     = "VIEW"
	InteractionLike     = "LIKE"
	InteractionFavorite = "FAVORITE"
	InteractionMessage  = "MESSAGE"
)

// Profile tag kinds.
const (
	TagService  = "service"
	TagLanguage = "language"
)

// User table.
//
// Soft-deleted through DeletedAt; rows are never physically removed while
// reputation history references them.
//
// Indexes:
//   - idx_users_active_type(is_active, is_banned, user_type)
//     Candidate set scans for search, recommendations and scoring jobs.
type User struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:128;not null" json:"-"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	FirstName    string         `gorm:"size:64" json:"firstName"`
	LastName     string         `gorm:"size:64" json:"lastName"`
	Bio          string         `gorm:"type:text" json:"bio"`
	Location     string         `gorm:"size:128" json:"location"`
	UserType     string         `gorm:"size:16;not null;index:idx_users_active_type,priority:3" json:"userType"`
	IsActive     bool           `gorm:"not null;index:idx_users_active_type,priority:1" json:"isActive"`
	IsBanned     bool           `gorm:"not null;index:idx_users_active_type,priority:2" json:"-"`
	ProfileViews int64          `gorm:"not null" json:"profileViews"`
	LastActiveAt *time.Time     `json:"lastActiveAt"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Escort     *EscortProfile `gorm:"foreignKey:UserID" json:"escort,omitempty"`
	Agency     *AgencyProfile `gorm:"foreignKey:UserID" json:"agency,omitempty"`
	Client     *ClientProfile `gorm:"foreignKey:UserID" json:"client,omitempty"`
	Reputation *Reputation    `gorm:"foreignKey:UserID" json:"reputation,omitempty"`
	Settings   *UserSettings  `gorm:"foreignKey:UserID" json:"-"`
	Tags       []ProfileTag   `gorm:"foreignKey:UserID" json:"tags,omitempty"`
}

// IsVerified reports whether the user's type-specific record is verified.
func (u *User) IsVerified() bool {
	switch u.UserType {
	case UserTypeEscort:
		return u.Escort != nil && u.Escort.IsVerified
	case UserTypeAgency:
		return u.Agency != nil && u.Agency.IsVerified
	}
	return false
}

type EscortProfile struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID     uint64    `gorm:"uniqueIndex;not null" json:"-"`
	Age        *int      `json:"age,omitempty"`
	Rating     float64   `gorm:"not null" json:"rating"`
	IsVerified bool      `gorm:"not null" json:"isVerified"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"-"`
}

type AgencyProfile struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID     uint64    `gorm:"uniqueIndex;not null" json:"-"`
	Name       string    `gorm:"size:128" json:"name"`
	Rating     float64   `gorm:"not null" json:"rating"`
	IsVerified bool      `gorm:"not null" json:"isVerified"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"-"`
}

type ClientProfile struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID    uint64    `gorm:"uniqueIndex;not null" json:"-"`
	IsPremium bool      `gorm:"not null" json:"isPremium"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// ProfileTag is one service or language an escort offers.
// Unique per (user_id, kind, value).
type ProfileTag struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID uint64 `gorm:"not null;uniqueIndex:idx_tag_user_kind_value,priority:1" json:"-"`
	Kind   string `gorm:"size:16;not null;uniqueIndex:idx_tag_user_kind_value,priority:2;index:idx_tag_kind_value,priority:1" json:"kind"`
	Value  string `gorm:"size:64;not null;uniqueIndex:idx_tag_user_kind_value,priority:3;index:idx_tag_kind_value,priority:2" json:"value"`
}

// Reputation holds the ranking signals for a user (1:1).
//
// Scores are always within [0, 100]. Written by the scoring jobs and by
// the per-action counters; last write wins.
type Reputation struct {
	ID                  uint64     `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID              uint64     `gorm:"uniqueIndex;not null" json:"-"`
	OverallScore        float64    `gorm:"not null" json:"overallScore"`
	DiscoveryScore      float64    `gorm:"not null;index" json:"discoveryScore"`
	TrendingScore       float64    `gorm:"not null;index" json:"trendingScore"`
	TrustScore          float64    `gorm:"not null" json:"trustScore"`
	ProfileCompleteness float64    `gorm:"not null" json:"profileCompleteness"`
	TotalViews          int64      `gorm:"not null" json:"totalViews"`
	TotalLikes          int64      `gorm:"not null" json:"totalLikes"`
	TotalMessages       int64      `gorm:"not null" json:"totalMessages"`
	TotalFavorites      int64      `gorm:"not null" json:"totalFavorites"`
	LastScoreUpdate     *time.Time `json:"lastScoreUpdate"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"-"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"-"`
}

// Interaction is an append-only user-to-user event.
//
// Indexes:
//   - idx_interaction_target_created(target_user_id, created_at)
//     Trending aggregates over a trailing window.
//   - idx_interaction_actor_created(actor_id, created_at)
//     "Recently interacted" exclusion for recommendations.
type Interaction struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID      uint64    `gorm:"not null;index:idx_interaction_actor_created,priority:1" json:"actorId"`
	TargetUserID *uint64   `gorm:"index:idx_interaction_target_created,priority:1" json:"targetUserId"`
	Type         string    `gorm:"size:16;not null" json:"type"`
	Weight       float64   `gorm:"not null" json:"weight"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index:idx_interaction_target_created,priority:2;index:idx_interaction_actor_created,priority:2" json:"createdAt"`
	DeviceType   string    `gorm:"size:32" json:"deviceType"`
	Source       string    `gorm:"size:32" json:"source"`
}

// UserSettings holds visibility flags (1:1). A missing row means defaults.
type UserSettings struct {
	UserID           uint64    `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ShowInSearch     bool      `gorm:"not null" json:"showInSearch"`
	ShowInDiscovery  bool      `gorm:"not null" json:"showInDiscovery"`
	ShowInTrending   bool      `gorm:"not null" json:"showInTrending"`
	ShowPhoneNumber  bool      `gorm:"not null" json:"showPhoneNumber"`
	ShowOnlineStatus bool      `gorm:"not null" json:"showOnlineStatus"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"-"`
}

// DefaultSettings returns the settings a user gets on first access.
func DefaultSettings(userID uint64) UserSettings {
	return UserSettings{
		UserID:           userID,
		ShowInSearch:     true,
		ShowInDiscovery:  true,
		ShowInTrending:   true,
		ShowPhoneNumber:  true,
		ShowOnlineStatus: true,
	}
}

// UserBlock is a directed block edge, unique per ordered pair.
type UserBlock struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	BlockerID uint64    `gorm:"not null;uniqueIndex:idx_block_pair,priority:1"`
	BlockedID uint64    `gorm:"not null;uniqueIndex:idx_block_pair,priority:2;index"`
	Reason    string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Post struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement"`
	AuthorID  uint64         `gorm:"not null;index:idx_post_author_active,priority:1"`
	Title     string         `gorm:"size:255;not null"`
	IsActive  bool           `gorm:"not null;index:idx_post_author_active,priority:2"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// All lists every model for AutoMigrate, parents first.
func All() []any {
	return []any{
		&User{}, &EscortProfile{}, &AgencyProfile{}, &ClientProfile{},
		&ProfileTag{}, &Reputation{}, &Interaction{}, &UserSettings{},
		&UserBlock{}, &Post{},
	}
}
