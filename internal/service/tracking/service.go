// Package tracking records user-to-user interactions, the raw signal the
// scoring jobs aggregate, and purges them after the retention window.
package tracking

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/samdevvv/telofundi/internal/app"
	"github.com/samdevvv/telofundi/internal/db"
	svcErr "github.com/samdevvv/telofundi/internal/errors"
	"github.com/samdevvv/telofundi/internal/jobs"
	"github.com/samdevvv/telofundi/internal/metrics"
	"github.com/samdevvv/telofundi/internal/repository"
	"github.com/samdevvv/telofundi/internal/utils/besteffort"
)

// Weights of each interaction type in the trending aggregates.
var Weights = map[string]float64{
	db.InteractionView:     1,
	db.InteractionLike:     2,
	db.InteractionFavorite: 3,
	db.InteractionMessage:  3,
}

// counters maps an interaction type to the reputation counter it bumps.
var counters = map[string]repository.Counter{
	db.InteractionView:     repository.CounterViews,
	db.InteractionLike:     repository.CounterLikes,
	db.InteractionFavorite: repository.CounterFavorites,
	db.InteractionMessage:  repository.CounterMessages,
}

// Store is the persistence the tracking service needs.
type Store interface {
	GetUser(ctx context.Context, userID uint64) (*db.User, error)
	IsBlocked(ctx context.Context, blocker, blocked uint64) (bool, error)
	CreateInteraction(ctx context.Context, ev *db.Interaction) error
	IncrementProfileViews(ctx context.Context, userID uint64) error
	IncrementReputationCounter(ctx context.Context, userID uint64, counter repository.Counter) error
	TouchLastActive(ctx context.Context, userID uint64, at time.Time) error
	PurgeInteractionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RecordInput is one interaction reported by a client.
// TargetUserID is nil for events that reference no user.
type RecordInput struct {
	ActorID      uint64
	TargetUserID *uint64
	Type         string
	DeviceType   string
	Source       string
}

// PurgeResult summarizes a retention purge.
type PurgeResult struct {
	Removed int64     `json:"removed"`
	Cutoff  time.Time `json:"cutoff"`
}

type Service struct {
	store     Store
	runner    *jobs.Runner
	log       *slog.Logger
	retention time.Duration
	now       func() time.Time
}

type Option func(*Service)

// WithClock pins the clock used for event timestamps and purge cutoffs.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithStore swaps the persistence layer.
func WithStore(store Store) Option {
	return func(s *Service) { s.store = store }
}

func NewTrackingService(appCtx *app.AppContext, opts ...Option) *Service {
	s := &Service{
		store:     appCtx.Candidates,
		runner:    appCtx.Jobs,
		log:       appCtx.Logger.With("service", "tracking"),
		retention: appCtx.Config.Tracking.Retention,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record stores an interaction and updates the denormalized counters.
//
// Behavior:
//   - Unknown types, self-interactions and blocked pairs (either
//     direction) are rejected with a ValidationError.
//   - The insert is the primary path; its failure is returned.
//   - Counter bumps and the actor's lastActiveAt are best effort: failures
//     are logged and never reach the caller.
func (s *Service) Record(ctx context.Context, in RecordInput) (*db.Interaction, error) {
	typ, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ev := &db.Interaction{
		ActorID:      in.ActorID,
		TargetUserID: in.TargetUserID,
		Type:         typ,
		Weight:       Weights[typ],
		CreatedAt:    now,
		DeviceType:   in.DeviceType,
		Source:       in.Source,
	}
	if err := s.store.CreateInteraction(ctx, ev); err != nil {
		return nil, err
	}
	metrics.InteractionsRecorded.WithLabelValues(typ).Inc()

	if in.TargetUserID != nil {
		target := *in.TargetUserID
		if typ == db.InteractionView {
			besteffort.Run(ctx, s.log, "users.views", func(ctx context.Context) error {
				return s.store.IncrementProfileViews(ctx, target)
			})
		}
		besteffort.Run(ctx, s.log, "reputation."+string(counters[typ]), func(ctx context.Context) error {
			return s.store.IncrementReputationCounter(ctx, target, counters[typ])
		})
	}
	besteffort.Run(ctx, s.log, "users.touch", func(ctx context.Context) error {
		return s.store.TouchLastActive(ctx, in.ActorID, now)
	})

	s.log.Debug("interaction recorded", "actor", in.ActorID, "type", typ, "id", ev.ID)
	return ev, nil
}

func (s *Service) validate(ctx context.Context, in RecordInput) (string, error) {
	typ := strings.ToUpper(strings.TrimSpace(in.Type))
	if _, ok := Weights[typ]; !ok {
		return "", svcErr.Invalid("type", "must be one of VIEW, LIKE, FAVORITE, MESSAGE")
	}
	if in.ActorID == 0 {
		return "", svcErr.Invalid("actorId", "is required")
	}
	if in.TargetUserID == nil {
		return typ, nil
	}

	target := *in.TargetUserID
	if target == in.ActorID {
		return "", svcErr.Invalid("targetUserId", "must differ from actorId")
	}
	if _, err := s.store.GetUser(ctx, target); err != nil {
		if svcErr.IsNotFound(err) {
			return "", &svcErr.NotFoundError{Entity: "user", ID: target}
		}
		return "", err
	}

	for _, pair := range [][2]uint64{{in.ActorID, target}, {target, in.ActorID}} {
		blocked, err := s.store.IsBlocked(ctx, pair[0], pair[1])
		if err != nil {
			return "", err
		}
		if blocked {
			return "", svcErr.Invalid("targetUserId", "interaction between blocked users")
		}
	}
	return typ, nil
}

// Purge deletes interactions older than the retention window. A zero
// retention keeps everything.
func (s *Service) Purge(ctx context.Context) (PurgeResult, error) {
	if s.retention <= 0 {
		return PurgeResult{}, nil
	}
	cutoff := s.now().Add(-s.retention)
	removed, err := s.store.PurgeInteractionsBefore(ctx, cutoff)
	if err != nil {
		return PurgeResult{}, err
	}
	return PurgeResult{Removed: removed, Cutoff: cutoff}, nil
}

// RunPurge runs Purge under the purge job lock.
func (s *Service) RunPurge(ctx context.Context) (PurgeResult, error) {
	return jobs.Run(ctx, s.runner, jobs.Purge, s.Purge)
}
