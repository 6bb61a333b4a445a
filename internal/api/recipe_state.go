package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/reciperoulette/backend/internal/middleware"
	"github.com/pageza/reciperoulette/backend/internal/models"
	"github.com/pageza/reciperoulette/backend/internal/service"
)

// RecipeStateHandler exposes a user's recipe history and favorites
type RecipeStateHandler struct {
	states        service.IRecipeStateService
	exports       service.IExportService
	authValidator middleware.TokenValidator
}

func NewRecipeStateHandler(states service.IRecipeStateService, exports service.IExportService, authValidator middleware.TokenValidator) *RecipeStateHandler {
	return &RecipeStateHandler{
		states:        states,
		exports:       exports,
		authValidator: authValidator,
	}
}

func (h *RecipeStateHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	recipes.Use(middleware.AuthMiddleware(h.authValidator))
	{
		recipes.POST("/events", h.ApplyEvent)
		recipes.GET("/history", h.GetHistory)
		recipes.GET("/history/search", h.SearchHistory)
		recipes.POST("/history/export", h.ExportHistory)
		recipes.GET("/favorites", h.GetFavorites)
	}
}

// ApplyEvent records that the user viewed, favorited or unfavorited a recipe.
// The body is the recipe as the client currently sees it.
func (h *RecipeStateHandler) ApplyEvent(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.states.ApplyRecipeEvent(c.Request.Context(), userID, recipe)
	if err != nil {
		respondError(c, err, "failed to record recipe event")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RecipeStateHandler) GetHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	history, err := h.states.GetHistory(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get history")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": history})
}

func (h *RecipeStateHandler) SearchHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	recipes, err := h.states.SearchHistory(c.Request.Context(), userID, query)
	if err != nil {
		respondError(c, err, "failed to search history")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeStateHandler) GetFavorites(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	favorites, err := h.states.GetFavorites(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get favorites")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": favorites})
}

func (h *RecipeStateHandler) ExportHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	export, err := h.exports.ExportHistory(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to export history")
		return
	}

	c.JSON(http.StatusOK, export)
}
