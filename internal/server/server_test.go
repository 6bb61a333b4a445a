package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/reciperoulette/backend/config"
	"github.com/pageza/reciperoulette/backend/internal/api"
	"github.com/pageza/reciperoulette/backend/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServices() api.Services {
	return api.Services{
		Auth:        new(mocks.MockAuthService),
		Preferences: new(mocks.MockPreferencesService),
		Ingredients: new(mocks.MockIngredientService),
		RecipeState: new(mocks.MockRecipeStateService),
		Generator:   new(mocks.MockGeneratorService),
		Export:      new(mocks.MockExportService),
		HealthChecks: map[string]api.HealthCheckFunc{
			"database": func(context.Context) error { return nil },
		},
	}
}

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		ServerHost: "localhost",
		ServerPort: "8080",
		JWTSecret:  "test-secret",
	}

	server := New(cfg, testServices())
	require.NotNil(t, server)
	assert.Equal(t, "localhost:8080", server.http.Addr)

	// Test health check endpoint
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Unknown routes get a JSON error body
	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"404 page not found"}`, w.Body.String())
}

func TestStartStopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	cfg := &config.Config{ServerHost: "127.0.0.1", ServerPort: strconv.Itoa(port)}
	server := New(cfg, testServices())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + server.http.Addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

