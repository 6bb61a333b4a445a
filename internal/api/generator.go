package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/reciperoulette/backend/internal/middleware"
	"github.com/pageza/reciperoulette/backend/internal/service"
	"github.com/pageza/reciperoulette/backend/internal/types"
)

type GeneratorHandler struct {
	generator     service.IGeneratorService
	authValidator middleware.TokenValidator
	limiter       *middleware.RateLimiter
}

// NewGeneratorHandler creates the handler. A nil limiter disables rate
// limiting, which is what happens when Redis is unavailable.
func NewGeneratorHandler(generator service.IGeneratorService, authValidator middleware.TokenValidator, limiter *middleware.RateLimiter) *GeneratorHandler {
	return &GeneratorHandler{
		generator:     generator,
		authValidator: authValidator,
		limiter:       limiter,
	}
}

func (h *GeneratorHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	recipes.Use(middleware.AuthMiddleware(h.authValidator))

	if h.limiter != nil {
		recipes.POST("/generate", h.limiter.RateLimitMiddleware(), h.Generate)
		recipes.GET("/generate/limit", h.GetLimit)
	} else {
		recipes.POST("/generate", h.Generate)
	}
	recipes.GET("/suggestions/:id", h.GetSuggestions)
}

func (h *GeneratorHandler) Generate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.GenerateRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	batch, err := h.generator.Generate(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to generate recipes")
		return
	}

	c.JSON(http.StatusOK, batch)
}

func (h *GeneratorHandler) GetSuggestions(c *gin.Context) {
	batch, err := h.generator.GetBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to get suggestions")
		return
	}

	c.JSON(http.StatusOK, batch)
}

// GetLimit reports how many generations the user has left this window
func (h *GeneratorHandler) GetLimit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	remaining, resetTime, err := h.limiter.GetRemainingRequests(c.Request.Context(), fmt.Sprintf("%v", userID))
	if err != nil {
		respondError(c, err, "failed to get rate limit status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"limit":     h.limiter.Limit(),
		"remaining": remaining,
		"reset":     resetTime.Unix(),
	})
}
