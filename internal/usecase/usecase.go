package usecase

import (
	"context"

	"github.com/ecosort-tech/go-backend/internal/domain"
)

type PredictionUC interface {
	Predict(ctx context.Context, req *PredictReq) (*PredictRes, error)
	ListHistory(ctx context.Context) ([]domain.PredictionRecord, error)
	GetRecord(ctx context.Context, id string) (*domain.PredictionRecord, error)
	UserHistory(ctx context.Context, userID string) ([]domain.PredictionRecord, error)
}
