// Command scorer runs one batch job and exits, for cron style deployments.
//
// Usage:
//
//	scorer discovery|trending|purge
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samdevvv/telofundi/internal/app"
	"github.com/samdevvv/telofundi/internal/cache"
	"github.com/samdevvv/telofundi/internal/config"
	"github.com/samdevvv/telofundi/internal/db"
	"github.com/samdevvv/telofundi/internal/jobs"
	"github.com/samdevvv/telofundi/internal/logger"
	"github.com/samdevvv/telofundi/internal/service/ranking"
	"github.com/samdevvv/telofundi/internal/service/tracking"
)

func main() {
	if len(os.Args) != 2 || !jobs.Known(os.Args[1]) {
		fmt.Fprintln(os.Stderr, "usage: scorer discovery|trending|purge")
		os.Exit(2)
	}
	job := os.Args[1]

	cfg := config.New()
	logger.InitFromConfig(cfg)
	log := logger.With("job", job)

	res, err := run(cfg, job)
	if err != nil {
		log.Error("job failed", "err", err)
		os.Exit(1)
	}
	log.Info("job done", "result", res)
}

func run(cfg *config.Config, job string) (any, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.NewDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		logger.Warn("redis unreachable, running without job lock", "job", job, "err", err)
	}
	defer redisCache.Close()

	appCtx := app.New(cfg, database, redisCache, logger.L())

	switch job {
	case jobs.Discovery:
		return ranking.NewRankingService(appCtx).RunDiscoveryScoring(ctx)
	case jobs.Trending:
		return ranking.NewRankingService(appCtx).RunTrendingScoring(ctx)
	case jobs.Purge:
		return tracking.NewTrackingService(appCtx).RunPurge(ctx)
	}
	return nil, fmt.Errorf("unknown job %q", job)
}
