package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/api"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/config"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/utils"
)

type noopEnqueuer struct{}

func (noopEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	return &asynq.TaskInfo{}, nil
}

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	db := utils.SetupTestDB(t, "rent_ghar_router_test", "cities", "areas", "categories", "blogs", "properties", "users")
	cfg := &config.Config{
		JwtSecret:           "router-test-secret",
		FrontendURL:         "*",
		RateLimitBucketSize: 1000,
		RateLimitRefillRate: 1000,
	}
	return api.SetupRouter(cfg, db, nil, noopEnqueuer{}, nil)
}

// The status-filtered blog list is part of the public surface; it must not
// demand a bearer token.
func TestRouter_BlogListIsPublic(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/blog?status=published", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_BlogWritesRequireToken(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/blog", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
