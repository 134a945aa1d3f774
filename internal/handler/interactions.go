package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	svcErr "github.com/samdevvv/telofundi/internal/errors"
	"github.com/samdevvv/telofundi/internal/handler/response"
	"github.com/samdevvv/telofundi/internal/service/tracking"
)

type InteractionsHandler struct {
	svc *tracking.Service
}

func NewInteractionsHandler(svc *tracking.Service) *InteractionsHandler {
	return &InteractionsHandler{svc: svc}
}

type recordRequest struct {
	TargetUserID *uint64 `json:"targetUserId"`
	Type         string  `json:"type" binding:"required"`
	DeviceType   string  `json:"deviceType" binding:"max=32"`
	Source       string  `json:"source" binding:"max=32"`
}

// Record handles POST /api/interactions. The actor is the X-User-ID caller.
func (h *InteractionsHandler) Record(c *gin.Context) {
	actor, err := requesterID(c, true)
	if err != nil {
		response.Err(c, err)
		return
	}

	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, svcErr.Invalid("body", "%v", err))
		return
	}

	ev, err := h.svc.Record(c.Request.Context(), tracking.RecordInput{
		ActorID:      actor,
		TargetUserID: req.TargetUserID,
		Type:         req.Type,
		DeviceType:   req.DeviceType,
		Source:       req.Source,
	})
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, http.StatusCreated, ev)
}
