package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	svcErr "github.com/samdevvv/telofundi/internal/errors"
	"github.com/samdevvv/telofundi/internal/handler/response"
	"github.com/samdevvv/telofundi/internal/service/ranking"
	"github.com/samdevvv/telofundi/internal/utils/pagination"
)

type RankingHandler struct {
	svc *ranking.Service
}

func NewRankingHandler(svc *ranking.Service) *RankingHandler {
	return &RankingHandler{svc: svc}
}

// Search handles GET /api/users/search.
//
// Query: q, userType, location, verified, ageMin, ageMax, services,
// languages, minRating, online, sortBy, page, limit. The requester comes
// from X-User-ID and may be absent.
func (h *RankingHandler) Search(c *gin.Context) {
	requester, err := requesterID(c, false)
	if err != nil {
		response.Err(c, err)
		return
	}

	p := &queryParser{c: c}
	filters := ranking.SearchFilters{
		Query:     p.str("q"),
		UserType:  p.str("userType"),
		Location:  p.str("location"),
		Verified:  p.boolPtr("verified"),
		AgeMin:    p.intPtr("ageMin"),
		AgeMax:    p.intPtr("ageMax"),
		Services:  p.list("services"),
		Languages: p.list("languages"),
		MinRating: p.floatPtr("minRating"),
		SortBy:    p.str("sortBy"),
	}
	if online := p.boolPtr("online"); online != nil {
		filters.Online = *online
	}
	page := pagination.Params{Page: p.integer("page"), Limit: p.integer("limit")}
	if p.err != nil {
		response.Err(c, p.err)
		return
	}

	res, err := h.svc.Search(c.Request.Context(), filters, page, requester)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, http.StatusOK, res)
}

// Recommendations handles GET /api/users/recommendations.
func (h *RankingHandler) Recommendations(c *gin.Context) {
	requester, err := requesterID(c, true)
	if err != nil {
		response.Err(c, err)
		return
	}

	p := &queryParser{c: c}
	limit := p.integer("limit")
	if p.err != nil {
		response.Err(c, p.err)
		return
	}

	users, err := h.svc.Recommend(c.Request.Context(), requester, c.GetHeader(UserTypeHeader), limit)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, http.StatusOK, users)
}

// Reputation handles GET /api/users/:id/reputation.
func (h *RankingHandler) Reputation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Err(c, svcErr.Invalid("id", "must be a positive integer"))
		return
	}

	rep, err := h.svc.Reputation(c.Request.Context(), id)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, http.StatusOK, rep)
}
