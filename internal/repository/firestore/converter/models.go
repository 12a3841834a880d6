package converter

import "time"

// PredictionRecordDoc — документ коллекции predict_history в Firestore.
type PredictionRecordDoc struct {
	ImageKey       string             `firestore:"imageKey"`
	ImageURL       string             `firestore:"imageUrl"`
	PredictedClass string             `firestore:"predicted_class"`
	WasteType      string             `firestore:"waste_type"`
	Probabilities  map[string]float64 `firestore:"probabilities"`
	Timestamp      time.Time          `firestore:"timestamp"`
	UserID         string             `firestore:"userId"`
}

// UserDoc — поля документа коллекции users, которые читает сервис.
type UserDoc struct {
	PredictCollection []string `firestore:"predictCollection"`
}
