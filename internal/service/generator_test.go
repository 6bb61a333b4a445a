package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/reciperoulette/backend/config"
	"github.com/pageza/reciperoulette/backend/internal/models"
	"github.com/pageza/reciperoulette/backend/internal/service"
	"github.com/pageza/reciperoulette/backend/internal/testhelpers"
	"github.com/pageza/reciperoulette/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type memoryBatchCache struct {
	mu      sync.Mutex
	batches map[string]types.SuggestionBatch
	ttls    map[string]time.Duration
}

func newMemoryBatchCache() *memoryBatchCache {
	return &memoryBatchCache{
		batches: make(map[string]types.SuggestionBatch),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *memoryBatchCache) SaveBatch(_ context.Context, batch *types.SuggestionBatch, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches[batch.ID] = *batch
	c.ttls[batch.ID] = ttl
	return nil
}

func (c *memoryBatchCache) LoadBatch(_ context.Context, id string) (*types.SuggestionBatch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	batch, ok := c.batches[id]
	if !ok {
		return nil, service.ErrBatchNotFound
	}
	return &batch, nil
}

// completion wraps content the way the chat completions API does
func completion(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	require.NoError(t, err)
	return body
}

func llmSettings(url string) config.LLMSettings {
	settings := config.DefaultSettings().LLM
	settings.APIURL = url
	settings.TimeoutSeconds = 5
	return settings
}

func generateRequest() *types.GenerateRecipesRequest {
	return &types.GenerateRecipesRequest{
		Ingredients:      []string{"beans", "tomato"},
		PrepTime:         30,
		CaloricApport:    500,
		CuisineEthnicity: []string{"Mexican"},
		Difficulty:       "easy",
	}
}

const twoRecipes = `{"recipes": [
	{"id": 12345678, "title": "Chili", "isFavorited": true, "ingredients": ["beans", "tomato"]},
	{"title": "Bean Tacos"}
]}`

func TestGenerate(t *testing.T) {
	var captured service.ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write(completion(t, twoRecipes))
	}))
	defer server.Close()

	cache := newMemoryBatchCache()
	svc := service.NewGeneratorService("test-key", llmSettings(server.URL), cache)
	ctx := context.Background()

	batch, err := svc.Generate(ctx, uuid.New(), generateRequest())
	require.NoError(t, err)
	require.Len(t, batch.Recipes, 2)

	assert.Equal(t, int64(12345678), batch.Recipes[0].ID)
	assert.Equal(t, "Chili", batch.Recipes[0].Title)
	assert.False(t, batch.Recipes[0].IsFavorited, "fresh suggestions are never favorited")
	assert.Greater(t, batch.Recipes[1].ID, int64(0), "missing ids are filled in")

	assert.Equal(t, "gpt-4o", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Contains(t, captured.Messages[1].Content, "beans, tomato")
	assert.Contains(t, captured.Messages[1].Content, "Mexican")

	cached, err := svc.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, batch.Recipes, cached.Recipes)
	assert.Equal(t, 24*time.Hour, cache.ttls[batch.ID])
}

func TestGenerateDisabledWithoutKey(t *testing.T) {
	svc := service.NewGeneratorService("", llmSettings("http://127.0.0.1:0"), newMemoryBatchCache())
	_, err := svc.Generate(context.Background(), uuid.New(), generateRequest())
	assert.ErrorIs(t, err, service.ErrGeneratorDisabled)
}

func TestGenerateUpstreamFailure(t *testing.T) {
	t.Run("error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer server.Close()

		svc := service.NewGeneratorService("test-key", llmSettings(server.URL), newMemoryBatchCache())
		_, err := svc.Generate(context.Background(), uuid.New(), generateRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("no recipes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(completion(t, `{"recipes": []}`))
		}))
		defer server.Close()

		svc := service.NewGeneratorService("test-key", llmSettings(server.URL), newMemoryBatchCache())
		_, err := svc.Generate(context.Background(), uuid.New(), generateRequest())
		assert.ErrorIs(t, err, service.ErrInvalidLLMResponse)
	})
}

func TestGenerateSharesConcurrentIdenticalRequests(t *testing.T) {
	var hits atomic.Int32
	arrived := make(chan struct{}, 1)
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case arrived <- struct{}{}:
		default:
		}
		<-release
		_, _ = w.Write(completion(t, twoRecipes))
	}))
	defer server.Close()

	svc := service.NewGeneratorService("test-key", llmSettings(server.URL), newMemoryBatchCache())

	var g errgroup.Group
	batches := make([]*types.SuggestionBatch, 2)
	g.Go(func() error {
		var err error
		batches[0], err = svc.Generate(context.Background(), uuid.New(), generateRequest())
		return err
	})
	<-arrived
	g.Go(func() error {
		var err error
		batches[1], err = svc.Generate(context.Background(), uuid.New(), generateRequest())
		return err
	})
	// give the second caller time to join the flight
	time.Sleep(200 * time.Millisecond)
	close(release)

	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, batches[0].ID, batches[1].ID)

	// callers get their own copy of the recipes
	batches[0].Recipes[0].Title = "changed"
	assert.Equal(t, "Chili", batches[1].Recipes[0].Title)
}

func TestGetBatchNotFound(t *testing.T) {
	svc := service.NewGeneratorService("test-key", llmSettings("http://127.0.0.1:0"), newMemoryBatchCache())
	ctx := context.Background()

	_, err := svc.GetBatch(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, service.ErrBatchNotFound)

	_, err = svc.GetBatch(ctx, uuid.NewString())
	assert.ErrorIs(t, err, service.ErrBatchNotFound)
}

func TestRedisBatchCache(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	cache := service.NewRedisBatchCache(client)
	ctx := context.Background()

	batch := &types.SuggestionBatch{
		ID:        uuid.NewString(),
		Recipes:   []models.Recipe{{ID: 1, Title: "Chili"}},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, cache.SaveBatch(ctx, batch, time.Minute))

	loaded, err := cache.LoadBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, batch.Recipes, loaded.Recipes)
	assert.True(t, batch.CreatedAt.Equal(loaded.CreatedAt))

	ttl, err := client.TTL(ctx, "recipe:suggestions:"+batch.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	_, err = cache.LoadBatch(ctx, uuid.NewString())
	assert.ErrorIs(t, err, service.ErrBatchNotFound)
}
