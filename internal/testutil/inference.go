package testutil

import (
	"context"
	"sync"

	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/internal/usecase"
)

// StubInference возвращает заранее заданный результат классификации.
type StubInference struct {
	mu sync.Mutex

	Result *domain.Classification
	Err    error

	Calls   int
	LastReq *usecase.ClassifyReq
}

func NewStubInference(result *domain.Classification) *StubInference {
	return &StubInference{Result: result}
}

func (s *StubInference) Classify(_ context.Context, req *usecase.ClassifyReq) (*domain.Classification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls++
	s.LastReq = req
	if s.Err != nil {
		return nil, s.Err
	}

	return s.Result, nil
}

// PlasticBottle — типичный ответ сервиса классификации.
func PlasticBottle() *domain.Classification {
	return &domain.Classification{
		PredictedClass: "plastic_bottle",
		WasteType:      "recyclable",
		Probabilities:  map[string]float64{"plastic_bottle": 0.92, "other": 0.08},
	}
}
