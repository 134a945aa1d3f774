package tracking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/samdevvv/telofundi/internal/app"
	"github.com/samdevvv/telofundi/internal/config"
	"github.com/samdevvv/telofundi/internal/db"
	"github.com/samdevvv/telofundi/internal/db/dbtest"
	svcErr "github.com/samdevvv/telofundi/internal/errors"
	"github.com/samdevvv/telofundi/internal/logger"
	"github.com/samdevvv/telofundi/internal/repository"
	"github.com/samdevvv/telofundi/internal/service/tracking"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func uptr(v uint64) *uint64 { return &v }

func setupService(t *testing.T, opts ...tracking.Option) (*tracking.Service, *gorm.DB) {
	t.Helper()
	gdb := dbtest.Open(t)
	dbtest.Seed(t, gdb, testNow)

	cfg := config.New()
	cfg.Tracking.Retention = 365 * 24 * time.Hour
	appCtx := app.New(cfg, gdb, nil, logger.Nop())

	opts = append([]tracking.Option{tracking.WithClock(func() time.Time { return testNow })}, opts...)
	return tracking.NewTrackingService(appCtx, opts...), gdb
}

func TestRecord_ViewBumpsCounters(t *testing.T) {
	svc, gdb := setupService(t)

	ev, err := svc.Record(context.Background(), tracking.RecordInput{ActorID: 8, TargetUserID: uptr(2), Type: "view", Source: "search"})
	require.NoError(t, err)
	assert.NotZero(t, ev.ID)
	assert.Equal(t, db.InteractionView, ev.Type)
	assert.Equal(t, 1.0, ev.Weight)

	var target db.User
	require.NoError(t, gdb.Preload("Reputation").First(&target, 2).Error)
	assert.Equal(t, int64(101), target.ProfileViews)
	assert.Equal(t, int64(1), target.Reputation.TotalViews)

	var actor db.User
	require.NoError(t, gdb.First(&actor, 8).Error)
	require.NotNil(t, actor.LastActiveAt)
	assert.True(t, actor.LastActiveAt.Equal(testNow))
}

func TestRecord_Weights(t *testing.T) {
	svc, gdb := setupService(t)
	ctx := context.Background()

	cases := map[string]struct {
		weight float64
		column string
	}{
		db.InteractionLike:     {2, "total_likes"},
		db.InteractionFavorite: {3, "total_favorites"},
		db.InteractionMessage:  {3, "total_messages"},
	}
	for typ, want := range cases {
		ev, err := svc.Record(ctx, tracking.RecordInput{ActorID: 8, TargetUserID: uptr(4), Type: typ})
		require.NoError(t, err, typ)
		assert.Equal(t, want.weight, ev.Weight, typ)

		var n int64
		require.NoError(t, gdb.Model(&db.Reputation{}).Where("user_id = ?", 4).Select(want.column).Row().Scan(&n))
		assert.Equal(t, int64(1), n, typ)
	}

	var views int64
	require.NoError(t, gdb.Model(&db.User{}).Where("id = ?", 4).Select("profile_views").Row().Scan(&views))
	assert.Equal(t, int64(50), views, "only VIEW bumps profile views")
}

func TestRecord_NullTarget(t *testing.T) {
	svc, _ := setupService(t)

	ev, err := svc.Record(context.Background(), tracking.RecordInput{ActorID: 8, Type: db.InteractionView})
	require.NoError(t, err)
	assert.Nil(t, ev.TargetUserID)
}

func TestRecord_Rejections(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   tracking.RecordInput
	}{
		{"unknown type", tracking.RecordInput{ActorID: 8, TargetUserID: uptr(2), Type: "POKE"}},
		{"missing actor", tracking.RecordInput{TargetUserID: uptr(2), Type: db.InteractionLike}},
		{"self", tracking.RecordInput{ActorID: 2, TargetUserID: uptr(2), Type: db.InteractionLike}},
		{"actor blocked target", tracking.RecordInput{ActorID: 1, TargetUserID: uptr(7), Type: db.InteractionLike}},
		{"target blocked actor", tracking.RecordInput{ActorID: 1, TargetUserID: uptr(9), Type: db.InteractionMessage}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(ctx, tc.in)
			assert.True(t, svcErr.IsValidation(err), "got %v", err)
		})
	}

	_, err := svc.Record(ctx, tracking.RecordInput{ActorID: 8, TargetUserID: uptr(404), Type: db.InteractionView})
	assert.True(t, svcErr.IsNotFound(err))
}

// brokenCounters fails every side effect but keeps the primary path.
type brokenCounters struct {
	tracking.Store
	created []*db.Interaction
}

func (b *brokenCounters) GetUser(_ context.Context, id uint64) (*db.User, error) {
	return &db.User{ID: id}, nil
}
func (b *brokenCounters) IsBlocked(context.Context, uint64, uint64) (bool, error) { return false, nil }
func (b *brokenCounters) CreateInteraction(_ context.Context, ev *db.Interaction) error {
	b.created = append(b.created, ev)
	return nil
}
func (b *brokenCounters) IncrementProfileViews(context.Context, uint64) error {
	return errors.New("views down")
}
func (b *brokenCounters) IncrementReputationCounter(context.Context, uint64, repository.Counter) error {
	return errors.New("counters down")
}
func (b *brokenCounters) TouchLastActive(context.Context, uint64, time.Time) error {
	panic("touch exploded")
}

func TestRecord_SideEffectFailuresAreSwallowed(t *testing.T) {
	store := &brokenCounters{}
	svc, _ := setupService(t, tracking.WithStore(store))

	ev, err := svc.Record(context.Background(), tracking.RecordInput{ActorID: 8, TargetUserID: uptr(2), Type: db.InteractionView})
	require.NoError(t, err)
	assert.Len(t, store.created, 1)
	assert.Same(t, store.created[0], ev)
}

type failingInsert struct{ brokenCounters }

func (f *failingInsert) CreateInteraction(context.Context, *db.Interaction) error {
	return svcErr.Repo(svcErr.KindUnavailable, "interactions.create", errors.New("disk full"))
}

func TestRecord_PrimaryFailurePropagates(t *testing.T) {
	svc, _ := setupService(t, tracking.WithStore(&failingInsert{}))

	_, err := svc.Record(context.Background(), tracking.RecordInput{ActorID: 8, TargetUserID: uptr(2), Type: db.InteractionLike})
	var re *svcErr.RepositoryError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, svcErr.KindUnavailable, re.Kind)
}

func TestPurge(t *testing.T) {
	svc, gdb := setupService(t)

	old := []db.Interaction{
		{ActorID: 8, TargetUserID: uptr(2), Type: db.InteractionView, Weight: 1, CreatedAt: testNow.AddDate(-2, 0, 0)},
		{ActorID: 8, TargetUserID: uptr(3), Type: db.InteractionView, Weight: 1, CreatedAt: testNow.AddDate(-1, 0, -1)},
	}
	require.NoError(t, gdb.Create(&old).Error)

	res, err := svc.RunPurge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Removed)
	assert.True(t, res.Cutoff.Equal(testNow.Add(-365*24*time.Hour)))

	var left int64
	require.NoError(t, gdb.Model(&db.Interaction{}).Count(&left).Error)
	assert.Equal(t, int64(1), left, "the seeded recent LIKE survives")
}
