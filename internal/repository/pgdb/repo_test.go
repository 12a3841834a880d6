package pgdb

import (
	"context"
	"os"
	"testing"

	"github.com/ecosort-tech/go-backend/internal/cfg"
	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/internal/testutil"
	"github.com/ecosort-tech/go-backend/internal/usecase"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/ecosort-tech/go-backend/pkg/logger"
	"github.com/ecosort-tech/go-backend/pkg/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPool подключается к TEST_POSTGRES_DSN, накатывает миграции и чистит таблицы.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))

	db := postgres.NewPgDatabase(pool, &cfg.PGDBCfg{MigrationsURL: "file://../../../db/migrations"}, dsn)
	require.NoError(t, db.RunMigrations(logger.NewNopLogger()))

	_, err = pool.Exec(ctx, `TRUNCATE predict_history, outbox_events, users RESTART IDENTITY;`)
	require.NoError(t, err)

	return pool
}

func newRecord(userID string) *domain.PredictionRecord {
	return domain.NewPredictionRecord(
		"predictedUploads/a.jpg",
		"https://storage.test/predictedUploads/a.jpg",
		&domain.Classification{
			PredictedClass: "plastic_bottle",
			WasteType:      "recyclable",
			Probabilities:  map[string]float64{"plastic_bottle": 0.93, "glass": 0.05},
		},
		userID,
	)
}

func TestHistoryRepo_AppendGetList(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repo := NewHistoryRepo(pool, nil)

	first, err := repo.Append(ctx, newRecord("u1"))
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	second, err := repo.Append(ctx, newRecord("u2"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "predictedUploads/a.jpg", got.ImageKey)
	assert.Equal(t, first.ImageURL, got.ImageURL)
	assert.Equal(t, "plastic_bottle", got.PredictedClass)
	assert.InDelta(t, 0.93, got.Probabilities["plastic_bottle"], 1e-9)
	assert.True(t, first.Timestamp.Equal(got.Timestamp))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
}

func TestHistoryRepo_GetNotFound(t *testing.T) {
	pool := newTestPool(t)

	_, err := NewHistoryRepo(pool, nil).Get(context.Background(), "missing")
	require.ErrorIs(t, err, e.ErrRecordNotFound)
}

func TestHistoryRepo_ListEmpty(t *testing.T) {
	pool := newTestPool(t)

	all, err := NewHistoryRepo(pool, nil).ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestHistoryRepo_AppendWritesOutboxEvent(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	outbox := NewOutboxEventRepo(pool)
	repo := NewHistoryRepo(pool, outbox)

	rec, err := repo.Append(ctx, newRecord("u1"))
	require.NoError(t, err)

	events, err := outbox.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, usecase.PredictionRecordedEvent, events[0].EventType)
	assert.Equal(t, rec.ID, events[0].AggregateID)
	assert.Equal(t, "u1", events[0].PartitionKey)
	assert.Equal(t, usecase.Processing, events[0].Status)
	assert.Contains(t, string(events[0].Payload), rec.ID)

	// уже забранные события повторно не выдаются
	again, err := outbox.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, again)

	require.NoError(t, outbox.MarkAsProcessed(ctx, events[0].ID))

	var status string
	require.NoError(t, pool.QueryRow(ctx, `SELECT status FROM outbox_events WHERE id = $1`, events[0].ID).Scan(&status))
	assert.Equal(t, string(usecase.Processed), status)
}

func TestOutboxEventRepo_CreateRequiresTx(t *testing.T) {
	pool := newTestPool(t)

	event, err := usecase.NewPredictionRecordedEvent(newRecord("u1"))
	require.NoError(t, err)

	_, err = NewOutboxEventRepo(pool).Create(context.Background(), event)
	require.ErrorIs(t, err, e.ErrTransactionNotFound)
}

func TestUserRepo_LinkPrediction(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `INSERT INTO users (id, email) VALUES ('u1', 'u1@example.com');`)
	require.NoError(t, err)

	testutil.UserIndexContract(t, NewUserRepo(pool), "u1")
}

func TestUserRepo_LinkPredictionUnknownUser(t *testing.T) {
	pool := newTestPool(t)

	err := NewUserRepo(pool).LinkPrediction(context.Background(), "ghost", "rec-1")
	require.ErrorIs(t, err, e.ErrUserNotFound)
}
