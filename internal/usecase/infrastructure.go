package usecase

import (
	"context"
	"time"

	"github.com/ecosort-tech/go-backend/internal/domain"
)

// InferenceClient — клиент сервиса классификации изображений (REST или gRPC).
type InferenceClient interface {
	Classify(ctx context.Context, req *ClassifyReq) (*domain.Classification, error)
}

// ObjectStore раскладывает изображения по временному и постоянному пространствам хранилища.
type ObjectStore interface {
	UploadTemp(ctx context.Context, req *UploadReq) (*StoredObject, error)
	SignedURL(ctx context.Context, key string) (string, error)
	Promote(ctx context.Context, tempKey string) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

type PipelineMetrics interface {
	ObserveStage(stage string, d time.Duration)
	IncRequest(outcome string)
	IncCleanupFailure()
}
