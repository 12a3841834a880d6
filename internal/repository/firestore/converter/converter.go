package converter

import "github.com/ecosort-tech/go-backend/internal/domain"

// PredictionRecordConverter преобразует PredictionRecord между domain и документом Firestore.
// ID записи совпадает с ID документа и в теле не хранится.
type PredictionRecordConverter struct{}

func (PredictionRecordConverter) ToDoc(entity *domain.PredictionRecord) *PredictionRecordDoc {
	return &PredictionRecordDoc{
		ImageKey:       entity.ImageKey,
		ImageURL:       entity.ImageURL,
		PredictedClass: entity.PredictedClass,
		WasteType:      entity.WasteType,
		Probabilities:  entity.Probabilities,
		Timestamp:      entity.Timestamp,
		UserID:         entity.UserID,
	}
}

func (PredictionRecordConverter) ToEntity(id string, doc *PredictionRecordDoc) *domain.PredictionRecord {
	probabilities := doc.Probabilities
	if probabilities == nil {
		probabilities = map[string]float64{}
	}

	return &domain.PredictionRecord{
		ID:             id,
		ImageKey:       doc.ImageKey,
		ImageURL:       doc.ImageURL,
		PredictedClass: doc.PredictedClass,
		WasteType:      doc.WasteType,
		Probabilities:  probabilities,
		Timestamp:      doc.Timestamp.UTC(),
		UserID:         doc.UserID,
	}
}
