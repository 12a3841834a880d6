package converter

import "time"

// PredictionRecordModel представляет запись таблицы predict_history в PostgreSQL.
type PredictionRecordModel struct {
	ID             string             `db:"id"`
	ImageKey       string             `db:"image_key"`
	ImageURL       string             `db:"image_url"`
	PredictedClass string             `db:"predicted_class"`
	WasteType      string             `db:"waste_type"`
	Probabilities  map[string]float64 `db:"probabilities"` // JSONB
	UserID         string             `db:"user_id"`
	CreatedAt      time.Time          `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID           int64      `db:"id"`
	EventID      string     `db:"event_id"`
	EventType    string     `db:"event_type"`
	AggregateID  string     `db:"aggregate_id"`
	PartitionKey string     `db:"partition_key"`
	Payload      []byte     `db:"payload"`
	Status       string     `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
	ProcessedAt  *time.Time `db:"processed_at"`
}
