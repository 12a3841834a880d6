package firestore

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/internal/testutil"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient работает только с эмулятором Firestore.
func newTestClient(t *testing.T) *firestore.Client {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST is not set")
	}

	client, err := firestore.NewClient(context.Background(), "ecosort-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

// uniqueCollection изолирует тесты друг от друга внутри одного эмулятора.
func uniqueCollection(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func TestHistoryRepo_AppendGetList(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	repo := NewHistoryRepo(client, uniqueCollection("predict_history"))

	first, err := repo.Append(ctx, &domain.PredictionRecord{
		ImageURL:       "https://storage.test/predictedUploads/a.jpg",
		PredictedClass: "glass",
		WasteType:      "recyclable",
		Probabilities:  map[string]float64{"glass": 0.8},
		UserID:         "u1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := repo.Append(ctx, &domain.PredictionRecord{
		ImageURL:       "https://storage.test/predictedUploads/b.jpg",
		PredictedClass: "paper",
		WasteType:      "recyclable",
		Probabilities:  map[string]float64{"paper": 0.7},
		UserID:         "u1",
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "glass", got.PredictedClass)
	assert.InDelta(t, 0.8, got.Probabilities["glass"], 1e-9)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
}

func TestHistoryRepo_GetNotFound(t *testing.T) {
	client := newTestClient(t)

	_, err := NewHistoryRepo(client, uniqueCollection("predict_history")).Get(context.Background(), "missing")
	require.ErrorIs(t, err, e.ErrRecordNotFound)
}

func TestUserRepo_LinkPrediction(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	collection := uniqueCollection("users")

	_, err := client.Collection(collection).Doc("u1").Set(ctx, map[string]any{"email": "u1@example.com"})
	require.NoError(t, err)

	testutil.UserIndexContract(t, NewUserRepo(client, collection), "u1")
}
