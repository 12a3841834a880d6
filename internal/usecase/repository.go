package usecase

import (
	"context"
	"time"

	"github.com/ecosort-tech/go-backend/internal/domain"
)

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Copy(ctx context.Context, srcKey, dstKey string) error
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type HistoryRepository interface {
	Append(ctx context.Context, record *domain.PredictionRecord) (*domain.PredictionRecord, error)
	ListAll(ctx context.Context) ([]domain.PredictionRecord, error)
	Get(ctx context.Context, id string) (*domain.PredictionRecord, error)
}

type UserIndexRepository interface {
	LinkPrediction(ctx context.Context, userID, recordID string) error
	// PredictionIDs возвращает ID записей пользователя в порядке привязки или e.ErrUserNotFound.
	PredictionIDs(ctx context.Context, userID string) ([]string, error)
}

// CacheRepository кэширует записи истории. Промах — (nil, nil).
type CacheRepository interface {
	GetRecord(ctx context.Context, id string) (*domain.PredictionRecord, error)
	SetRecord(ctx context.Context, record *domain.PredictionRecord) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}
