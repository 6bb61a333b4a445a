package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pageza/reciperoulette/backend/internal/types"
	"github.com/redis/go-redis/v9"
)

// BatchCache keeps generated suggestion batches fetchable for a while
type BatchCache interface {
	SaveBatch(ctx context.Context, batch *types.SuggestionBatch, ttl time.Duration) error
	LoadBatch(ctx context.Context, id string) (*types.SuggestionBatch, error)
}

// RedisBatchCache stores batches as JSON strings with an expiry
type RedisBatchCache struct {
	redis *redis.Client
}

func NewRedisBatchCache(client *redis.Client) *RedisBatchCache {
	return &RedisBatchCache{redis: client}
}

func batchKey(id string) string {
	return fmt.Sprintf("recipe:suggestions:%s", id)
}

func (c *RedisBatchCache) SaveBatch(ctx context.Context, batch *types.SuggestionBatch, ttl time.Duration) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}
	if err := c.redis.Set(ctx, batchKey(batch.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save batch: %w", err)
	}
	return nil
}

// LoadBatch returns ErrBatchNotFound once the batch has expired
func (c *RedisBatchCache) LoadBatch(ctx context.Context, id string) (*types.SuggestionBatch, error) {
	data, err := c.redis.Get(ctx, batchKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load batch: %w", err)
	}

	var batch types.SuggestionBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal batch: %w", err)
	}
	return &batch, nil
}
