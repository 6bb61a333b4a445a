package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/reciperoulette/backend/config"
	"github.com/pageza/reciperoulette/backend/internal/middleware"
	"github.com/pageza/reciperoulette/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationRateLimiter(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	limiter := middleware.NewGenerationRateLimiter(client, config.RateLimitSettings{GenerationsPerHour: 2})

	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	router := gin.New()
	router.POST("/generate", func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}, limiter.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	statuses := make([]int, 3)
	for i := range statuses {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generate", nil))
		statuses[i] = w.Code
		if i == 0 {
			assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	remaining, reset, err := limiter.GetRemainingRequests(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
	assert.NotZero(t, reset.Unix())

	// counters are per user
	remaining, _, err = limiter.GetRemainingRequests(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestRateLimitRequiresUser(t *testing.T) {
	limiter := middleware.NewRateLimiter(nil, middleware.RateLimitConfig{Limit: 1})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/generate", limiter.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generate", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
