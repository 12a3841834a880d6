package inference

import (
	"errors"
	"fmt"
	"math"

	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/pkg/e"
)

var errEmptyPredictedClass = errors.New("predicted_class is empty")

// toClassification проверяет ответ сервиса: пустой класс или нечисловая вероятность
// считаются некорректным ответом.
func toClassification(predictedClass string, wasteType string, probabilities map[string]float64) (*domain.Classification, error) {
	if predictedClass == "" {
		return nil, e.WithKind(e.ErrInferenceInvalidResponse, errEmptyPredictedClass)
	}

	for label, p := range probabilities {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, e.WithKind(e.ErrInferenceInvalidResponse, fmt.Errorf("probability of %q is not a number", label))
		}
	}

	if probabilities == nil {
		probabilities = map[string]float64{}
	}

	return &domain.Classification{
		PredictedClass: predictedClass,
		WasteType:      wasteType,
		Probabilities:  probabilities,
	}, nil
}
