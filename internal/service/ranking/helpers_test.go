package ranking_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/samdevvv/telofundi/internal/app"
	"github.com/samdevvv/telofundi/internal/cache"
	"github.com/samdevvv/telofundi/internal/config"
	"github.com/samdevvv/telofundi/internal/db"
	"github.com/samdevvv/telofundi/internal/db/dbtest"
	"github.com/samdevvv/telofundi/internal/logger"
	"github.com/samdevvv/telofundi/internal/service/ranking"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type env struct {
	db     *gorm.DB
	mr     *miniredis.Miniredis
	appCtx *app.AppContext
	svc    *ranking.Service
}

// setupService seeds an in-memory SQLite DB, starts a miniredis, and wires
// everything into a ranking Service pinned to testNow.
func setupService(t *testing.T) *env {
	t.Helper()

	gdb := dbtest.Open(t)
	dbtest.Seed(t, gdb, testNow)

	mr := miniredis.RunT(t)
	rc := &cache.RedisCache{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = rc.Close() })

	cfg := config.New()
	cfg.Scoring.Workers = 4
	cfg.Scoring.JobTimeout = time.Minute

	appCtx := app.New(cfg, gdb, rc, logger.Nop())
	return &env{
		db:     gdb,
		mr:     mr,
		appCtx: appCtx,
		svc:    ranking.NewRankingService(appCtx, ranking.WithClock(fixedClock)),
	}
}

func reputationOf(t *testing.T, gdb *gorm.DB, userID uint64) db.Reputation {
	t.Helper()
	var rep db.Reputation
	require.NoError(t, gdb.Where("user_id = ?", userID).First(&rep).Error)
	return rep
}

func interaction(actor uint64, target *uint64, typ string, weight float64, at time.Time) db.Interaction {
	return db.Interaction{ActorID: actor, TargetUserID: target, Type: typ, Weight: weight, CreatedAt: at, Source: "test"}
}

func uptr(v uint64) *uint64 { return &v }

func ids(users []db.User) []uint64 {
	out := make([]uint64, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}
