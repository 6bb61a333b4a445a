package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/reciperoulette/backend/internal/models"
	"github.com/pageza/reciperoulette/backend/internal/types"
	"github.com/sirupsen/logrus"
)

// ObjectStore is the part of config.S3Config the export needs
type ObjectStore interface {
	PutObject(ctx context.Context, objectKey, contentType string, body []byte) error
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// HistorySnapshot is the document written by an export
type HistorySnapshot struct {
	UserID     uuid.UUID       `json:"user_id"`
	ExportedAt time.Time       `json:"exported_at"`
	History    []models.Recipe `json:"history"`
	Favorites  []models.Recipe `json:"favorites"`
}

// ExportService uploads a user's history to object storage and hands back a
// short-lived download link
type ExportService struct {
	states IRecipeStateService
	store  ObjectStore
	expiry time.Duration
	now    func() time.Time
}

// NewExportService creates a new ExportService. A nil store disables exports.
func NewExportService(states IRecipeStateService, store ObjectStore, expiry time.Duration) *ExportService {
	return &ExportService{
		states: states,
		store:  store,
		expiry: expiry,
		now:    time.Now,
	}
}

func (s *ExportService) ExportHistory(ctx context.Context, userID uuid.UUID) (*types.ExportResponse, error) {
	if s.store == nil {
		return nil, ErrExportDisabled
	}

	history, err := s.states.GetHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	favorites, err := s.states.GetFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	body, err := json.Marshal(HistorySnapshot{
		UserID:     userID,
		ExportedAt: now,
		History:    history,
		Favorites:  favorites,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", userID, now.Format("20060102T150405Z"))
	if err := s.store.PutObject(ctx, key, "application/json", body); err != nil {
		return nil, fmt.Errorf("failed to upload snapshot: %w", err)
	}

	url, err := s.store.GeneratePresignedURL(ctx, key, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign snapshot url: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"key":     key,
		"entries": len(history),
	}).Info("history exported")

	return &types.ExportResponse{
		Key:       key,
		URL:       url,
		Count:     len(history),
		ExpiresAt: now.Add(s.expiry),
	}, nil
}
