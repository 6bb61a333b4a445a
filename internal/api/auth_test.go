package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/reciperoulette/backend/internal/service"
	"github.com/pageza/reciperoulette/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSignup(t *testing.T) {
	req := &types.SignupRequest{Email: "chef@example.com", Username: "chef", Password: "password123"}

	t.Run("created", func(t *testing.T) {
		a := setupAPI(t)
		a.auth.On("Signup", mock.Anything, req).Return(&types.AuthResponse{
			ID:       uuid.New(),
			Username: "chef",
			Email:    "chef@example.com",
			Token:    "token",
		}, nil).Once()

		w := a.do(t, http.MethodPost, "/api/v1/auth/signup", req, "")
		assert.Equal(t, http.StatusCreated, w.Code)

		var resp types.AuthResponse
		decode(t, w, &resp)
		assert.Equal(t, "chef", resp.Username)
		assert.Equal(t, "token", resp.Token)
		a.auth.AssertExpectations(t)
	})

	t.Run("duplicate", func(t *testing.T) {
		a := setupAPI(t)
		a.auth.On("Signup", mock.Anything, req).Return(nil, service.ErrUserExists).Once()

		w := a.do(t, http.MethodPost, "/api/v1/auth/signup", req, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, service.ErrUserExists.Error(), errorMessage(t, w))
	})

	t.Run("validation", func(t *testing.T) {
		a := setupAPI(t)
		bad := []interface{}{
			map[string]string{"email": "not-an-email", "username": "chef", "password": "password123"},
			map[string]string{"email": "chef@example.com", "username": "ab", "password": "password123"},
			map[string]string{"email": "chef@example.com", "username": "chef", "password": "short"},
		}
		for _, body := range bad {
			w := a.do(t, http.MethodPost, "/api/v1/auth/signup", body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
		a.auth.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	a := setupAPI(t)
	good := &types.LoginRequest{Username: "chef", Password: "password123"}
	bad := &types.LoginRequest{Username: "chef", Password: "wrong"}
	a.auth.On("Login", mock.Anything, good).Return(&types.AuthResponse{Username: "chef", Token: "token"}, nil)
	a.auth.On("Login", mock.Anything, bad).Return(nil, service.ErrInvalidCredentials)

	w := a.do(t, http.MethodPost, "/api/v1/auth/login", good, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/auth/login", bad, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	a := setupAPI(t)
	a.auth.On("Logout", mock.Anything, a.userID).Return(nil)

	w := a.do(t, http.MethodPost, "/api/v1/auth/logout", nil, testToken)
	assert.Equal(t, http.StatusOK, w.Code)
	a.auth.AssertCalled(t, "Logout", mock.Anything, a.userID)
}

func TestListUsers(t *testing.T) {
	a := setupAPI(t)
	a.auth.On("ListUsers", mock.Anything).Return([]types.UserSummary{
		{ID: uuid.New(), Username: "alice", Email: "alice@example.com"},
	}, nil)

	w := a.do(t, http.MethodGet, "/api/v1/users", nil, testToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
	assert.NotContains(t, w.Body.String(), "password")
}
