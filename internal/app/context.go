package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/samdevvv/telofundi/internal/cache"
	"github.com/samdevvv/telofundi/internal/config"
	"github.com/samdevvv/telofundi/internal/jobs"
	"github.com/samdevvv/telofundi/internal/repository"
)

// AppContext holds shared dependencies (DB, Redis, Logger, etc.)
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger

	// Candidates is the single repository instance shared by every service.
	Candidates *repository.CandidateRepository

	// Jobs serializes batch jobs across instances.
	Jobs *jobs.Runner
}

// New creates a new AppContext. rdb may be nil; jobs then run without a
// distributed lock and last-run bookkeeping.
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	if cfg == nil {
		cfg = config.New()
	}
	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Candidates: repository.NewCandidateRepository(db),
		Jobs:       jobs.NewRunner(rdb, logger, cfg.Scoring.JobTimeout),
	}
}
