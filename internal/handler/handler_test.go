package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/samdevvv/telofundi/internal/app"
	"github.com/samdevvv/telofundi/internal/cache"
	"github.com/samdevvv/telofundi/internal/config"
	"github.com/samdevvv/telofundi/internal/db/dbtest"
	"github.com/samdevvv/telofundi/internal/handler"
	"github.com/samdevvv/telofundi/internal/logger"
	"github.com/samdevvv/telofundi/internal/service/ranking"
	"github.com/samdevvv/telofundi/internal/service/tracking"
)

func init() { gin.SetMode(gin.TestMode) }

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Timestamp string `json:"timestamp"`
}

type testServer struct {
	router *gin.Engine
	mr     *miniredis.Miniredis
	db     *gorm.DB
}

func setupRouter(t *testing.T) *testServer {
	t.Helper()

	gdb := dbtest.Open(t)
	dbtest.Seed(t, gdb, testNow)

	mr := miniredis.RunT(t)
	rc := &cache.RedisCache{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = rc.Close() })

	cfg := config.New()
	cfg.HTTP.RateLimitRPS = 0
	cfg.Scoring.JobTimeout = time.Minute

	appCtx := app.New(cfg, gdb, rc, logger.Nop())
	clock := func() time.Time { return testNow }
	rs := ranking.NewRankingService(appCtx, ranking.WithClock(clock))
	ts := tracking.NewTrackingService(appCtx, tracking.WithClock(clock))

	return &testServer{router: handler.NewRouter(appCtx, rs, ts), mr: mr, db: gdb}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

var isoMillis = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)

type userRow struct {
	ID uint64 `json:"id"`
}

func userIDs(t *testing.T, raw json.RawMessage) []uint64 {
	t.Helper()
	var users []userRow
	require.NoError(t, json.Unmarshal(raw, &users))
	out := make([]uint64, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func TestSearch(t *testing.T) {
	s := setupRouter(t)

	code, env := s.do(t, http.MethodGet, "/api/users/search", nil, map[string]string{handler.UserIDHeader: "1"})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Regexp(t, isoMillis, env.Timestamp)

	var data struct {
		Users      json.RawMessage `json:"users"`
		Pagination struct {
			Page    int   `json:"page"`
			Limit   int   `json:"limit"`
			Total   int64 `json:"total"`
			Pages   int   `json:"pages"`
			HasNext bool  `json:"hasNext"`
			HasPrev bool  `json:"hasPrev"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, []uint64{2, 4, 3}, userIDs(t, data.Users))
	assert.Equal(t, int64(3), data.Pagination.Total)
	assert.Equal(t, 20, data.Pagination.Limit)
	assert.Equal(t, 1, data.Pagination.Pages)
}

func TestSearch_QueryParams(t *testing.T) {
	s := setupRouter(t)

	code, env := s.do(t, http.MethodGet, "/api/users/search?services=dinner&languages=es,en&sortBy=popular&limit=5", nil, map[string]string{handler.UserIDHeader: "1"})
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Users json.RawMessage `json:"users"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, []uint64{3, 2}, userIDs(t, data.Users))
}

func TestSearch_Anonymous(t *testing.T) {
	s := setupRouter(t)

	code, env := s.do(t, http.MethodGet, "/api/users/search?userType=AGENCY", nil, nil)
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Users json.RawMessage `json:"users"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, []uint64{4}, userIDs(t, data.Users))
}

func TestSearch_BadInput(t *testing.T) {
	s := setupRouter(t)

	for _, path := range []string{
		"/api/users/search?limit=500",
		"/api/users/search?ageMin=abc",
		"/api/users/search?verified=maybe",
		"/api/users/search?userType=CLIENT",
		"/api/users/search?sortBy=random",
	} {
		code, env := s.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusBadRequest, code, path)
		assert.False(t, env.Success, path)
		require.NotNil(t, env.Error, path)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code, path)
	}

	code, _ := s.do(t, http.MethodGet, "/api/users/search", nil, map[string]string{handler.UserIDHeader: "nope"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRecommendations(t *testing.T) {
	s := setupRouter(t)

	code, env := s.do(t, http.MethodGet, "/api/users/recommendations?limit=5", nil, map[string]string{
		handler.UserIDHeader:   "1",
		handler.UserTypeHeader: "CLIENT",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []uint64{2, 4}, userIDs(t, env.Data))

	code, _ = s.do(t, http.MethodGet, "/api/users/recommendations", nil, map[string]string{handler.UserTypeHeader: "CLIENT"})
	assert.Equal(t, http.StatusBadRequest, code, "requester is required")

	code, _ = s.do(t, http.MethodGet, "/api/users/recommendations", nil, map[string]string{handler.UserIDHeader: "1"})
	assert.Equal(t, http.StatusBadRequest, code, "user type is required")
}

func TestReputation(t *testing.T) {
	s := setupRouter(t)

	code, env := s.do(t, http.MethodGet, "/api/users/3/reputation", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var rep struct {
		OverallScore   float64 `json:"overallScore"`
		DiscoveryScore float64 `json:"discoveryScore"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rep))
	assert.Equal(t, 90.0, rep.OverallScore)
	assert.Equal(t, 60.0, rep.DiscoveryScore)

	code, env = s.do(t, http.MethodGet, "/api/users/404/reputation", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestJobs(t *testing.T) {
	s := setupRouter(t)

	code, env := s.do(t, http.MethodPost, "/api/ranking/jobs/discovery", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"updated":8,"failed":0}`, string(env.Data))

	code, env = s.do(t, http.MethodPost, "/api/ranking/jobs/trending", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"updated":1,"skipped":0,"failed":0}`, string(env.Data))

	code, env = s.do(t, http.MethodGet, "/api/ranking/jobs/discovery", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var last struct {
		Job    string          `json:"job"`
		Status string          `json:"status"`
		Result json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &last))
	assert.Equal(t, "discovery", last.Job)
	assert.Equal(t, "ok", last.Status)
	assert.JSONEq(t, `{"updated":8,"failed":0}`, string(last.Result))

	code, _ = s.do(t, http.MethodGet, "/api/ranking/jobs/purge", nil, nil)
	assert.Equal(t, http.StatusNotFound, code, "purge never ran")

	code, _ = s.do(t, http.MethodGet, "/api/ranking/jobs/reindex", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/api/ranking/jobs/reindex", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestJobs_PurgeAndLock(t *testing.T) {
	s := setupRouter(t)

	code, env := s.do(t, http.MethodPost, "/api/ranking/jobs/purge", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var purge struct {
		Removed int64 `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &purge))
	assert.Zero(t, purge.Removed)

	require.NoError(t, s.mr.Set("ranking:lock:trending", "other"))
	code, env = s.do(t, http.MethodPost, "/api/ranking/jobs/trending", nil, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "JOB_IN_PROGRESS", env.Error.Code)
}

func TestInteractions(t *testing.T) {
	s := setupRouter(t)
	headers := map[string]string{handler.UserIDHeader: "8"}

	code, env := s.do(t, http.MethodPost, "/api/interactions", map[string]any{"targetUserId": 2, "type": "LIKE", "source": "search"}, headers)
	require.Equal(t, http.StatusCreated, code)
	var ev struct {
		ActorID      uint64  `json:"actorId"`
		TargetUserID *uint64 `json:"targetUserId"`
		Type         string  `json:"type"`
		Weight       float64 `json:"weight"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ev))
	assert.Equal(t, uint64(8), ev.ActorID)
	require.NotNil(t, ev.TargetUserID)
	assert.Equal(t, uint64(2), *ev.TargetUserID)
	assert.Equal(t, 2.0, ev.Weight)

	code, _ = s.do(t, http.MethodPost, "/api/interactions", map[string]any{"targetUserId": 7, "type": "LIKE"}, map[string]string{handler.UserIDHeader: "1"})
	assert.Equal(t, http.StatusBadRequest, code, "blocked pair")

	code, _ = s.do(t, http.MethodPost, "/api/interactions", map[string]any{"targetUserId": 2}, headers)
	assert.Equal(t, http.StatusBadRequest, code, "type is required")

	code, _ = s.do(t, http.MethodPost, "/api/interactions", map[string]any{"targetUserId": 2, "type": "LIKE"}, nil)
	assert.Equal(t, http.StatusBadRequest, code, "actor is required")

	code, _ = s.do(t, http.MethodPost, "/api/interactions", map[string]any{"targetUserId": 404, "type": "VIEW"}, headers)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHealth(t *testing.T) {
	s := setupRouter(t)

	code, env := s.do(t, http.MethodGet, "/health/live", nil, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, env = s.do(t, http.MethodGet, "/health/ready", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"status":"healthy"`)

	s.mr.Close()
	code, env = s.do(t, http.MethodGet, "/health/ready", nil, nil)
	assert.Equal(t, http.StatusOK, code, "redis is not required")
	assert.Contains(t, string(env.Data), `"status":"degraded"`)
}

func TestHealth_DatabaseDownHidesDriverError(t *testing.T) {
	s := setupRouter(t)

	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	code, env := s.do(t, http.MethodGet, "/health/ready", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAVAILABLE", env.Error.Code)

	var body struct {
		Status string `json:"status"`
		Checks map[string]map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, map[string]string{"status": "down"}, body.Checks["database"])
	assert.NotContains(t, string(env.Data), "closed")
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestNoRoute(t *testing.T) {
	s := setupRouter(t)

	code, env := s.do(t, http.MethodGet, "/api/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
