package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/samdevvv/telofundi/internal/app"
	"github.com/samdevvv/telofundi/internal/cache"
	"github.com/samdevvv/telofundi/internal/config"
	"github.com/samdevvv/telofundi/internal/db"
	"github.com/samdevvv/telofundi/internal/handler"
	"github.com/samdevvv/telofundi/internal/jobs"
	"github.com/samdevvv/telofundi/internal/logger"
	"github.com/samdevvv/telofundi/internal/metrics"
	"github.com/samdevvv/telofundi/internal/scheduler"
	"github.com/samdevvv/telofundi/internal/server"
	"github.com/samdevvv/telofundi/internal/service/ranking"
	"github.com/samdevvv/telofundi/internal/service/tracking"
)

func main() {
	if err := run(); err != nil {
		logger.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run() error {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		return fmt.Errorf("init db: %w", err)
	}

	// Init Redis. Without it jobs run unlocked, so only warn.
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		log.Warn("redis unreachable, job locks disabled until it recovers", "err", err)
	}
	defer redisCache.Close()

	sqlDB, err := database.DB()
	if err == nil {
		err = metrics.Register(prometheus.DefaultRegisterer, sqlDB)
	}
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// Inject logger into app context
	appCtx := app.New(cfg, database, redisCache, log)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	rankingSvc := ranking.NewRankingService(appCtx)
	trackingSvc := tracking.NewTrackingService(appCtx)

	sched := scheduler.New(log)
	sched.Every(jobs.Discovery, cfg.Scoring.DiscoveryInterval, func(ctx context.Context) error {
		_, err := rankingSvc.RunDiscoveryScoring(ctx)
		return err
	})
	sched.Every(jobs.Trending, cfg.Scoring.TrendingInterval, func(ctx context.Context) error {
		_, err := rankingSvc.RunTrendingScoring(ctx)
		return err
	})
	sched.Every(jobs.Purge, cfg.Tracking.PurgeInterval, func(ctx context.Context) error {
		_, err := trackingSvc.RunPurge(ctx)
		return err
	})

	registrars := []server.Registrar{
		ranking.NewRegistrar(appCtx),
	}
	httpServer := server.NewHTTPServer(cfg, handler.NewRouter(appCtx, rankingSvc, trackingSvc))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting gRPC server", "addr", cfg.GRPC.Host+":"+cfg.GRPC.Port)
		return server.StartGRPCServer(gctx, cfg, log, registrars...)
	})
	g.Go(func() error {
		log.Info("starting HTTP server", "addr", httpServer.Addr)
		return server.StartHTTPServer(gctx, httpServer)
	})
	g.Go(func() error {
		sched.Start(gctx)
		return nil
	})

	return g.Wait()
}
