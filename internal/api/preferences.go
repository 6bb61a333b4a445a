package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/reciperoulette/backend/internal/middleware"
	"github.com/pageza/reciperoulette/backend/internal/service"
	"github.com/pageza/reciperoulette/backend/internal/types"
)

type PreferencesHandler struct {
	preferences   service.IPreferencesService
	authValidator middleware.TokenValidator
}

func NewPreferencesHandler(preferences service.IPreferencesService, authValidator middleware.TokenValidator) *PreferencesHandler {
	return &PreferencesHandler{
		preferences:   preferences,
		authValidator: authValidator,
	}
}

func (h *PreferencesHandler) RegisterRoutes(router *gin.RouterGroup) {
	prefs := router.Group("/preferences")
	prefs.Use(middleware.AuthMiddleware(h.authValidator))
	{
		prefs.GET("", h.GetPreferences)
		prefs.PUT("", h.UpdatePreferences)
		prefs.POST("/blacklist", h.SetBlacklisted)
		prefs.PUT("/prep-time", h.SetPreparationTime)
		prefs.PUT("/caloric-apport", h.SetCaloricApport)
	}
}

func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	prefs, err := h.preferences.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get preferences")
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func (h *PreferencesHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	prefs, err := h.preferences.UpdatePreferences(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to update preferences")
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func (h *PreferencesHandler) SetBlacklisted(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.BlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prefs, err := h.preferences.SetBlacklisted(c.Request.Context(), userID, req.IngredientID, *req.IsBlacklisted)
	if err != nil {
		respondError(c, err, "failed to update blacklist")
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func (h *PreferencesHandler) SetPreparationTime(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.PrepTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prefs, err := h.preferences.SetPreparationTime(c.Request.Context(), userID, req.PrepTime)
	if err != nil {
		respondError(c, err, "failed to update preparation time")
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func (h *PreferencesHandler) SetCaloricApport(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.CaloricApportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prefs, err := h.preferences.SetCaloricApport(c.Request.Context(), userID, req.CaloricApport)
	if err != nil {
		respondError(c, err, "failed to update caloric apport")
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// IngredientHandler serves the public ingredient catalog
type IngredientHandler struct {
	ingredients service.IIngredientService
}

func NewIngredientHandler(ingredients service.IIngredientService) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ingredients", h.ListIngredients)
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredients.ListIngredients(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err, "failed to list ingredients")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}
