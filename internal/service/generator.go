package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/reciperoulette/backend/config"
	"github.com/pageza/reciperoulette/backend/internal/models"
	"github.com/pageza/reciperoulette/backend/internal/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Message is one chat message of a completion request
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is an OpenAI-compatible chat completion request
type ChatRequest struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GeneratorService asks the LLM for recipe suggestions and caches each
// result batch so clients can fetch it again by ID
type GeneratorService struct {
	apiKey   string
	settings config.LLMSettings
	cache    BatchCache
	client   *http.Client
	group    singleflight.Group
	now      func() time.Time
}

// NewGeneratorService creates the generator. Without a cache, batches are
// returned but cannot be fetched again.
func NewGeneratorService(apiKey string, settings config.LLMSettings, cache BatchCache) *GeneratorService {
	return &GeneratorService{
		apiKey:   apiKey,
		settings: settings,
		cache:    cache,
		client:   &http.Client{Timeout: settings.Timeout()},
		now:      time.Now,
	}
}

// Generate returns a new batch of suggestions. Identical requests in flight
// at the same time share one upstream call and one batch.
func (s *GeneratorService) Generate(ctx context.Context, userID uuid.UUID, req *types.GenerateRecipesRequest) (*types.SuggestionBatch, error) {
	if s.apiKey == "" {
		return nil, ErrGeneratorDisabled
	}

	fingerprint, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// A caller going away must not fail the callers sharing its flight.
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(string(fingerprint), func() (interface{}, error) {
		recipes, err := s.requestRecipes(flightCtx, req)
		if err != nil {
			return nil, err
		}

		batch := &types.SuggestionBatch{
			ID:        uuid.NewString(),
			Recipes:   recipes,
			CreatedAt: s.now().UTC(),
		}
		if s.cache == nil {
			return batch, nil
		}
		if err := s.cache.SaveBatch(flightCtx, batch, s.settings.CacheTTL()); err != nil {
			// The suggestions are still usable without the cache entry.
			logrus.WithError(err).WithField("batch_id", batch.ID).Warn("failed to cache suggestion batch")
		}
		return batch, nil
	})
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("recipe generation failed")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"shared":  shared,
	}).Info("recipes generated")

	batch := *v.(*types.SuggestionBatch)
	batch.Recipes = append([]models.Recipe(nil), batch.Recipes...)
	return &batch, nil
}

// GetBatch returns a previously generated batch while it is cached
func (s *GeneratorService) GetBatch(ctx context.Context, id string) (*types.SuggestionBatch, error) {
	if _, err := uuid.Parse(id); err != nil || s.cache == nil {
		return nil, ErrBatchNotFound
	}
	return s.cache.LoadBatch(ctx, id)
}

func (s *GeneratorService) requestRecipes(ctx context.Context, req *types.GenerateRecipesRequest) ([]models.Recipe, error) {
	reqBody, err := json.Marshal(ChatRequest{
		Model: s.settings.Model,
		Messages: []Message{
			{Role: "system", Content: "You are a helpful assistant designed to output JSON."},
			{Role: "user", Content: buildPrompt(req)},
		},
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
		Temperature: s.settings.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.settings.APIURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	logrus.WithField("bytes", len(body)).Debug("LLM response received")

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLLMResponse, err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in API response", ErrInvalidLLMResponse)
	}

	return parseRecipes(response.Choices[0].Message.Content)
}

// parseRecipes accepts {"recipes": [...]}, any object holding one recipe
// array, or a bare array. Recipes without a title are dropped and missing
// ids are filled in with a random 8 digit number.
func parseRecipes(content string) ([]models.Recipe, error) {
	content = strings.TrimSpace(content)

	var recipes []models.Recipe
	if strings.HasPrefix(content, "[") {
		if err := json.Unmarshal([]byte(content), &recipes); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLLMResponse, err)
		}
	} else {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLLMResponse, err)
		}
		if raw, ok := wrapper["recipes"]; ok {
			if err := json.Unmarshal(raw, &recipes); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidLLMResponse, err)
			}
		} else {
			for _, raw := range wrapper {
				var candidate []models.Recipe
				if json.Unmarshal(raw, &candidate) == nil && len(candidate) > 0 {
					recipes = candidate
					break
				}
			}
		}
	}

	valid := recipes[:0]
	for _, r := range recipes {
		if strings.TrimSpace(r.Title) == "" {
			continue
		}
		if r.ID <= 0 {
			r.ID = 10_000_000 + rand.Int63n(90_000_000)
		}
		r.IsFavorited = false
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: no recipes in response", ErrInvalidLLMResponse)
	}
	return valid, nil
}

func buildPrompt(req *types.GenerateRecipesRequest) string {
	preferences := req.Preferences
	if preferences == "" {
		preferences = "none"
	}

	return fmt.Sprintf(`Return a JSON object {"recipes": [...]} with meals I can prepare with:
- all of these ingredients: %s
- a maximum preparation time of %d minutes
- a maximum of %d calories
- these preferences: %s
- a maximum difficulty of %s
- each meal inspired by one of these cuisines: %s
Assume no ingredient is cooked yet and quantities are for 4 servings.
Each recipe has this shape:
{
	"id": 12345678,
	"title": "Greek Spanakopita (Spinach Pie)",
	"attributes": ["Easy", "Appetizer", "60m", "4 servings"],
	"ingredients": ["spinach", "onion"],
	"ingQuantities": ["500g fresh spinach, chopped", "200g onion, chopped"],
	"preparation": [["Step 1 title", "detailed sub step"], ["Step 2 title", "detailed sub step"]],
	"isFavorited": false,
	"isVegan": false,
	"isGlutenFree": false,
	"isVegetarian": true,
	"cuisineEthnicity": "Greek",
	"caloricApport": 280,
	"preparationTime": 60,
	"difficulty": "easy"
}
The id must be a random 8 digit number.`,
		strings.Join(req.Ingredients, ", "),
		req.PrepTime,
		req.CaloricApport,
		preferences,
		req.Difficulty,
		strings.Join(req.CuisineEthnicity, ", "),
	)
}
