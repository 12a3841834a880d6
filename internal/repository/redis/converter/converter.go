package converter

import "github.com/ecosort-tech/go-backend/internal/domain"

type PredictionRecordConverter struct{}

func (PredictionRecordConverter) ToRedisModel(entity *domain.PredictionRecord) *PredictionRecordRedisModel {
	return &PredictionRecordRedisModel{
		ID:             entity.ID,
		ImageKey:       entity.ImageKey,
		ImageURL:       entity.ImageURL,
		PredictedClass: entity.PredictedClass,
		WasteType:      entity.WasteType,
		Probabilities:  entity.Probabilities,
		Timestamp:      entity.Timestamp,
		UserID:         entity.UserID,
	}
}

func (PredictionRecordConverter) ToEntity(model *PredictionRecordRedisModel) *domain.PredictionRecord {
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
		Timestamp:      model.Timestamp.UTC(),
		UserID:         model.UserID,
	}
}
