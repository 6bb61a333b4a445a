package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/reciperoulette/backend/internal/middleware"
	"github.com/pageza/reciperoulette/backend/internal/service"
)

// HealthCheckFunc probes one dependency
type HealthCheckFunc func(ctx context.Context) error

// Services bundles everything the routes depend on
type Services struct {
	Auth              service.IAuthService
	Preferences       service.IPreferencesService
	Ingredients       service.IIngredientService
	RecipeState       service.IRecipeStateService
	Generator         service.IGeneratorService
	Export            service.IExportService
	GenerationLimiter *middleware.RateLimiter
	HealthChecks      map[string]HealthCheckFunc
}

// HealthCheck returns the health status of the API and its dependencies
func HealthCheck(checks map[string]HealthCheckFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":  state,
			"message": "Recipe Roulette API is running",
			"checks":  results,
		})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, services Services) {
	// Health check endpoint (no auth required)
	router.GET("/health", HealthCheck(services.HealthChecks))

	v1 := router.Group("/api/v1")
	v1.GET("/health", HealthCheck(services.HealthChecks))

	NewAuthHandler(services.Auth).RegisterRoutes(v1)
	NewPreferencesHandler(services.Preferences, services.Auth).RegisterRoutes(v1)
	NewIngredientHandler(services.Ingredients).RegisterRoutes(v1)
	NewRecipeStateHandler(services.RecipeState, services.Export, services.Auth).RegisterRoutes(v1)
	NewGeneratorHandler(services.Generator, services.Auth, services.GenerationLimiter).RegisterRoutes(v1)
}
