package testutil

import (
	"context"
	"testing"

	"github.com/ecosort-tech/go-backend/internal/usecase"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// UserIndexContract проверяет поведение, общее для всех реализаций индекса пользователей:
// повторная привязка той же записи оставляет её в списке один раз, порядок привязки
// сохраняется, неизвестный пользователь — e.ErrUserNotFound.
// userID должен существовать и иметь пустой список.
func UserIndexContract(t *testing.T, repo usecase.UserIndexRepository, userID string) {
	t.Helper()
	ctx := context.Background()

	collection := func() []string {
		ids, err := repo.PredictionIDs(ctx, userID)
		require.NoError(t, err)
		return ids
	}

	assert.Empty(t, collection())

	require.NoError(t, repo.LinkPrediction(ctx, userID, "rec-1"))
	require.NoError(t, repo.LinkPrediction(ctx, userID, "rec-1"))
	assert.Equal(t, []string{"rec-1"}, collection())

	require.NoError(t, repo.LinkPrediction(ctx, userID, "rec-2"))
	require.NoError(t, repo.LinkPrediction(ctx, userID, "rec-1"))
	assert.Equal(t, []string{"rec-1", "rec-2"}, collection())

	ghost := "ghost-" + userID
	require.ErrorIs(t, repo.LinkPrediction(ctx, ghost, "rec-1"), e.ErrUserNotFound)
	_, err := repo.PredictionIDs(ctx, ghost)
	require.ErrorIs(t, err, e.ErrUserNotFound)
}
