package usecase

import (
	"encoding/json"
	"time"

	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/google/uuid"
)

// PREDICTION USECASE

// PredictReq — запрос на классификацию загруженного изображения.
type PredictReq struct {
	Image  *PredictImage
	UserID string // пусто, если личность не подтверждена
}

// PredictImage представляет изображение, загруженное через multipart/form-data.
type PredictImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type, определённый по содержимому
	Name     string // оригинальное имя файла, используется только для расширения
}

// PredictRes — ответ клиенту при успешной классификации.
type PredictRes struct {
	RecordID       string
	ImageURL       string
	PredictedClass string
	WasteType      string
	Probabilities  map[string]float64
}

// INFRASTRUCTURE

// ClassifyReq — запрос к сервису классификации. REST-клиент использует ImageURL, gRPC — Data.
type ClassifyReq struct {
	ImageURL string
	Data     []byte
	MimeType string
}

type UploadReq struct {
	Data     []byte
	MimeType string
	Name     string
}

// StoredObject — объект в хранилище.
type StoredObject struct {
	Key         string
	ContentType string
}

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

// OUTBOX

const PredictionRecordedEvent = "prediction.recorded"

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEvent struct {
	ID           int64
	EventID      string
	EventType    string
	AggregateID  string // id записи истории
	PartitionKey string // id пользователя
	Payload      []byte
	Status       OutboxStatus
	CreatedAt    time.Time
	ProcessedAt  *time.Time
}

// predictionRecordedPayload — JSON-тело события prediction.recorded.
type predictionRecordedPayload struct {
	EventID        string             `json:"event_id"`
	RecordID       string             `json:"record_id"`
	UserID         string             `json:"user_id"`
	ImageKey       string             `json:"image_key"`
	ImageURL       string             `json:"image_url"`
	PredictedClass string             `json:"predicted_class"`
	WasteType      string             `json:"waste_type"`
	Probabilities  map[string]float64 `json:"probabilities"`
	Timestamp      time.Time          `json:"timestamp"`
}

// MAPPERS

func NewPredictReq(image *PredictImage, userID string) *PredictReq {
	return &PredictReq{
		Image:  image,
		UserID: userID,
	}
}

func NewPredictImage(data []byte, mimeType string, name string) *PredictImage {
	return &PredictImage{
		Data:     data,
		MimeType: mimeType,
		Name:     name,
	}
}

func NewPredictRes(record *domain.PredictionRecord) *PredictRes {
	return &PredictRes{
		RecordID:       record.ID,
		ImageURL:       record.ImageURL,
		PredictedClass: record.PredictedClass,
		WasteType:      record.WasteType,
		Probabilities:  record.Probabilities,
	}
}

func NewClassifyReq(imageURL string, data []byte, mimeType string) *ClassifyReq {
	return &ClassifyReq{
		ImageURL: imageURL,
		Data:     data,
		MimeType: mimeType,
	}
}

func NewUploadReq(data []byte, mimeType string, name string) *UploadReq {
	return &UploadReq{
		Data:     data,
		MimeType: mimeType,
		Name:     name,
	}
}

func NewStoredObject(key string, contentType string) *StoredObject {
	return &StoredObject{
		Key:         key,
		ContentType: contentType,
	}
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}

// NewPredictionRecordedEvent строит outbox-событие о новой записи истории.
func NewPredictionRecordedEvent(record *domain.PredictionRecord) (*OutboxEvent, error) {
	eventID := uuid.NewString()
	payload, err := json.Marshal(predictionRecordedPayload{
		EventID:        eventID,
		RecordID:       record.ID,
		UserID:         record.UserID,
		ImageKey:       record.ImageKey,
		ImageURL:       record.ImageURL,
		PredictedClass: record.PredictedClass,
		WasteType:      record.WasteType,
		Probabilities:  record.Probabilities,
		Timestamp:      record.Timestamp,
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:      eventID,
		EventType:    PredictionRecordedEvent,
		AggregateID:  record.ID,
		PartitionKey: record.UserID,
		Payload:      payload,
		Status:       Pending,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
