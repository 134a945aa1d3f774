package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	svcErr "github.com/samdevvv/telofundi/internal/errors"
	"github.com/samdevvv/telofundi/internal/handler/response"
	"github.com/samdevvv/telofundi/internal/jobs"
	"github.com/samdevvv/telofundi/internal/service/ranking"
	"github.com/samdevvv/telofundi/internal/service/tracking"
)

type JobsHandler struct {
	ranking  *ranking.Service
	tracking *tracking.Service
}

func NewJobsHandler(r *ranking.Service, t *tracking.Service) *JobsHandler {
	return &JobsHandler{ranking: r, tracking: t}
}

// Run handles POST /api/ranking/jobs/:job and blocks until the job ends.
// The job keeps running if the client disconnects; the runner timeout
// still applies.
func (h *JobsHandler) Run(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())

	var (
		res any
		err error
	)
	switch job := c.Param("job"); job {
	case jobs.Discovery:
		res, err = h.ranking.RunDiscoveryScoring(ctx)
	case jobs.Trending:
		res, err = h.ranking.RunTrendingScoring(ctx)
	case jobs.Purge:
		res, err = h.tracking.RunPurge(ctx)
	default:
		err = svcErr.Invalid("job", "unknown job %q", job)
	}
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, http.StatusOK, res)
}

// LastRun handles GET /api/ranking/jobs/:job.
func (h *JobsHandler) LastRun(c *gin.Context) {
	run, err := h.ranking.LastRun(c.Request.Context(), c.Param("job"))
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, http.StatusOK, run)
}
