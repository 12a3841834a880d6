package domain

import "time"

// Classification — результат сервиса классификации.
type Classification struct {
	PredictedClass string
	WasteType      string
	Probabilities  map[string]float64 // метка класса -> уверенность 0..1
}

// PredictionRecord — запись истории предсказаний. После записи не изменяется.
type PredictionRecord struct {
	ID             string
	ImageKey       string // ключ объекта в постоянном пространстве
	ImageURL       string // подписанная ссылка, перевыпускается при чтении
	PredictedClass string
	WasteType      string
	Probabilities  map[string]float64
	Timestamp      time.Time
	UserID         string
}

func NewPredictionRecord(imageKey string, imageURL string, c *Classification, userID string) *PredictionRecord {
	return &PredictionRecord{
		ImageKey:       imageKey,
		ImageURL:       imageURL,
		PredictedClass: c.PredictedClass,
		WasteType:      c.WasteType,
		Probabilities:  c.Probabilities,
		UserID:         userID,
	}
}
