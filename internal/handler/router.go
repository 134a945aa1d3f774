package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samdevvv/telofundi/internal/app"
	"github.com/samdevvv/telofundi/internal/handler/response"
	"github.com/samdevvv/telofundi/internal/middleware"
	"github.com/samdevvv/telofundi/internal/service/ranking"
	"github.com/samdevvv/telofundi/internal/service/tracking"
)

// NewRouter builds the HTTP API. Probes and /metrics sit outside the rate
// limiter.
func NewRouter(appCtx *app.AppContext, rankingSvc *ranking.Service, trackingSvc *tracking.Service) *gin.Engine {
	log := appCtx.Logger.With("component", "http")

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.Metrics(),
	)
	engine.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})

	health := NewHealthHandler(appCtx.DB, appCtx.RedisCache, log)
	engine.GET("/health/live", health.Live)
	engine.GET("/health/ready", health.Ready)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rank := NewRankingHandler(rankingSvc)
	jobs := NewJobsHandler(rankingSvc, trackingSvc)
	interactions := NewInteractionsHandler(trackingSvc)

	api := engine.Group("/api")
	api.Use(middleware.RateLimit(appCtx.Config.HTTP.RateLimitRPS, appCtx.Config.HTTP.RateLimitBurst))
	{
		api.GET("/users/search", rank.Search)
		api.GET("/users/recommendations", rank.Recommendations)
		api.GET("/users/:id/reputation", rank.Reputation)

		api.POST("/ranking/jobs/:job", jobs.Run)
		api.GET("/ranking/jobs/:job", jobs.LastRun)

		api.POST("/interactions", interactions.Record)
	}

	return engine
}
