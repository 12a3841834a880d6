package converter

import (
	"testing"
	"time"

	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestPredictionRecordConverter_ToEntityNormalizes(t *testing.T) {
	ts := time.Date(2024, 5, 1, 15, 0, 0, 0, time.FixedZone("MSK", 3*60*60))

	rec := PredictionRecordConverter{}.ToEntity(&PredictionRecordRedisModel{ID: "a", Timestamp: ts})
	assert.Equal(t, time.UTC, rec.Timestamp.Location())
	assert.True(t, ts.Equal(rec.Timestamp))
	assert.NotNil(t, rec.Probabilities)
}

func TestPredictionRecordConverter_ToRedisModel(t *testing.T) {
	m := PredictionRecordConverter{}.ToRedisModel(&domain.PredictionRecord{ID: "a", ImageKey: "predictedUploads/a.jpg", UserID: "u1", WasteType: "organic"})
	assert.Equal(t, "a", m.ID)
	assert.Equal(t, "u1", m.UserID)
	assert.Equal(t, "organic", m.WasteType)
	assert.Equal(t, "predictedUploads/a.jpg", m.ImageKey)
}
