package pgdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/internal/repository/pgdb/converter"
	"github.com/ecosort-tech/go-backend/internal/usecase"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/ecosort-tech/go-backend/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// HistoryRepo реализует журнал предсказаний поверх PostgreSQL.
// Если задан outbox, вместе с записью в той же транзакции создаётся событие prediction.recorded.
type HistoryRepo struct {
	pool   *pgxpool.Pool
	conv   converter.PredictionRecordConverter
	outbox usecase.OutboxRepository
}

func NewHistoryRepo(pool *pgxpool.Pool, outbox usecase.OutboxRepository) *HistoryRepo {
	return &HistoryRepo{
		pool:   pool,
		outbox: outbox,
	}
}

// Append сохраняет запись. ID и время проставляются, если не заданы.
func (h *HistoryRepo) Append(ctx context.Context, record *domain.PredictionRecord) (_ *domain.PredictionRecord, err error) {
	const op = "HistoryRepo.Append"

	rec := *record
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		// точность timestamptz — микросекунды
		rec.Timestamp = time.Now().UTC().Truncate(time.Microsecond)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, h.pool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	// Если произошла ошибка, происходит Rollback транзакции
	defer func() {
		if err != nil && tx.IsActive() {
			_ = tx.Rollback(ctx)
		}
	}()

	pgTx, ok := tx.Transaction().(pgx.Tx)
	if !ok {
		return nil, e.Wrap(op, e.ErrTransactionNotFound)
	}
	ctx = tr.WithTx(ctx, pgTx)

	model := h.conv.ToModel(&rec)
	query := `
		INSERT INTO predict_history (
			id,
			image_key,
			image_url,
			predicted_class,
			waste_type,
			probabilities,
			user_id,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	if _, err = pgTx.Exec(ctx, query,
		model.ID,
		model.ImageKey,
		model.ImageURL,
		model.PredictedClass,
		model.WasteType,
		model.Probabilities,
		model.UserID,
		model.CreatedAt,
	); err != nil {
		if postgresDuplicate(err) {
			return nil, fmt.Errorf("%s: record with id %s already exists", op, rec.ID)
		}
		return nil, e.Wrap(op, err)
	}

	if h.outbox != nil {
		var event *usecase.OutboxEvent
		event, err = usecase.NewPredictionRecordedEvent(&rec)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		if _, err = h.outbox.Create(ctx, event); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	return &rec, nil
}

// ListAll возвращает все записи в порядке создания.
func (h *HistoryRepo) ListAll(ctx context.Context) ([]domain.PredictionRecord, error) {
	query := `
		SELECT id, image_key, image_url, predicted_class, waste_type, probabilities, user_id, created_at
		FROM predict_history
		ORDER BY created_at, id;
	`

	rows, err := tr.QuerierFromCtx(ctx, h.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.PredictionRecordModel
	for rows.Next() {
		var model converter.PredictionRecordModel
		if err := rows.Scan(
			&model.ID,
			&model.ImageKey,
			&model.ImageURL,
			&model.PredictedClass,
			&model.WasteType,
			&model.Probabilities,
			&model.UserID,
			&model.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: failed to scan record: %w", whereami.WhereAmI(), err)
		}
		models = append(models, &model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iterator error: %w", whereami.WhereAmI(), err)
	}

	return h.conv.ToArrEntity(models), nil
}

// Get возвращает запись по id или e.ErrRecordNotFound.
func (h *HistoryRepo) Get(ctx context.Context, id string) (*domain.PredictionRecord, error) {
	query := `
		SELECT id, image_key, image_url, predicted_class, waste_type, probabilities, user_id, created_at
		FROM predict_history
		WHERE id = $1;
	`

	var model converter.PredictionRecordModel
	err := tr.QuerierFromCtx(ctx, h.pool).QueryRow(ctx, query, id).Scan(
		&model.ID,
		&model.ImageKey,
		&model.ImageURL,
		&model.PredictedClass,
		&model.WasteType,
		&model.Probabilities,
		&model.UserID,
		&model.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrRecordNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return h.conv.ToEntity(&model), nil
}
