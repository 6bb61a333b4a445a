package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/reciperoulette/backend/internal/api"
	"github.com/pageza/reciperoulette/backend/internal/mocks"
	"github.com/pageza/reciperoulette/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

type testAPI struct {
	router      *gin.Engine
	userID      uuid.UUID
	auth        *mocks.MockAuthService
	preferences *mocks.MockPreferencesService
	ingredients *mocks.MockIngredientService
	states      *mocks.MockRecipeStateService
	generator   *mocks.MockGeneratorService
	export      *mocks.MockExportService
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	a := &testAPI{
		router:      gin.New(),
		userID:      uuid.New(),
		auth:        new(mocks.MockAuthService),
		preferences: new(mocks.MockPreferencesService),
		ingredients: new(mocks.MockIngredientService),
		states:      new(mocks.MockRecipeStateService),
		generator:   new(mocks.MockGeneratorService),
		export:      new(mocks.MockExportService),
	}
	a.auth.On("ValidateToken", testToken).Return(&types.TokenClaims{UserID: a.userID, Username: "chef"}, nil).Maybe()

	api.RegisterRoutes(a.router, api.Services{
		Auth:        a.auth,
		Preferences: a.preferences,
		Ingredients: a.ingredients,
		RecipeState: a.states,
		Generator:   a.generator,
		Export:      a.export,
		HealthChecks: map[string]api.HealthCheckFunc{
			"database": func(context.Context) error { return nil },
		},
	})

	t.Cleanup(func() {
		a.preferences.AssertExpectations(t)
		a.ingredients.AssertExpectations(t)
		a.states.AssertExpectations(t)
		a.generator.AssertExpectations(t)
		a.export.AssertExpectations(t)
	})
	return a
}

// do sends an authenticated request unless token is empty
func (a *testAPI) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	return body.Error
}

func TestHealthCheck(t *testing.T) {
	a := setupAPI(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		w := a.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	}
}

func TestHealthCheckUnhealthy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", api.HealthCheck(map[string]api.HealthCheckFunc{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	decode(t, w, &body)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "connection refused", body.Checks["redis"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := setupAPI(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/recipes/events"},
		{http.MethodGet, "/api/v1/recipes/history"},
		{http.MethodGet, "/api/v1/recipes/favorites"},
		{http.MethodPost, "/api/v1/recipes/history/export"},
		{http.MethodPost, "/api/v1/recipes/generate"},
		{http.MethodGet, "/api/v1/preferences"},
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodGet, "/api/v1/users"},
	}
	for _, r := range routes {
		w := a.do(t, r.method, r.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", r.method, r.path)
	}
}
