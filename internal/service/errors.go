package service

import "errors"

var (
	ErrUserExists          = errors.New("a user with this email or username already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrUserNotFound        = errors.New("user not found")
	ErrPreferencesNotFound = errors.New("preferences not found")
	ErrInvalidValue        = errors.New("invalid value")
	ErrIngredientNotFound  = errors.New("ingredient not found")
	ErrBatchNotFound       = errors.New("suggestion batch not found or expired")
	ErrGeneratorDisabled   = errors.New("recipe generation is not configured")
	ErrInvalidLLMResponse  = errors.New("invalid response from recipe generator")
	ErrExportDisabled      = errors.New("history export is not configured")
)
