package converter

import "time"

// PredictionRecordRedisModel — JSON-представление записи истории в кэше.
type PredictionRecordRedisModel struct {
	ID             string             `json:"id"`
	ImageKey       string             `json:"imageKey"`
	ImageURL       string             `json:"imageUrl"`
	PredictedClass string             `json:"predicted_class"`
	WasteType      string             `json:"waste_type"`
	Probabilities  map[string]float64 `json:"probabilities"`
	Timestamp      time.Time          `json:"timestamp"`
	UserID         string             `json:"userId"`
}
