package converter

import (
	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/internal/usecase"
)

// PredictionRecordConverter преобразует PredictionRecord между domain и моделью PostgreSQL.
type PredictionRecordConverter struct{}

func (PredictionRecordConverter) ToModel(entity *domain.PredictionRecord) *PredictionRecordModel {
	return &PredictionRecordModel{
		ID:             entity.ID,
		ImageKey:       entity.ImageKey,
		ImageURL:       entity.ImageURL,
		PredictedClass: entity.PredictedClass,
		WasteType:      entity.WasteType,
		Probabilities:  entity.Probabilities,
		UserID:         entity.UserID,
		CreatedAt:      entity.Timestamp,
	}
}

func (PredictionRecordConverter) ToEntity(model *PredictionRecordModel) *domain.PredictionRecord {
	probabilities := model.Probabilities
	if probabilities == nil {
		probabilities = map[string]float64{}
	}

	return &domain.PredictionRecord{
		ID:             model.ID,
		ImageKey:       model.ImageKey,
		ImageURL:       model.ImageURL,
		PredictedClass: model.PredictedClass,
		WasteType:      model.WasteType,
		Probabilities:  probabilities,
		UserID:         model.UserID,
		Timestamp:      model.CreatedAt.UTC(),
	}
}

func (c PredictionRecordConverter) ToArrEntity(models []*PredictionRecordModel) []domain.PredictionRecord {
	result := make([]domain.PredictionRecord, 0, len(models))
	for _, m := range models {
		result = append(result, *c.ToEntity(m))
	}

	return result
}

// OutboxEventConverter преобразует OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter struct{}

func (OutboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:           entity.ID,
		EventID:      entity.EventID,
		EventType:    entity.EventType,
		AggregateID:  entity.AggregateID,
		PartitionKey: entity.PartitionKey,
		Payload:      entity.Payload,
		Status:       string(entity.Status),
		CreatedAt:    entity.CreatedAt,
		ProcessedAt:  entity.ProcessedAt,
	}
}

func (OutboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:           model.ID,
		EventID:      model.EventID,
		EventType:    model.EventType,
		AggregateID:  model.AggregateID,
		PartitionKey: model.PartitionKey,
		Payload:      model.Payload,
		Status:       usecase.OutboxStatus(model.Status),
		CreatedAt:    model.CreatedAt,
		ProcessedAt:  model.ProcessedAt,
	}
}

func (c OutboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		result = append(result, c.ToEntity(m))
	}

	return result
}
