package pgdb

import (
	"context"
	"errors"

	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/ecosort-tech/go-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// UserRepo обновляет список предсказаний пользователя (users.predict_collection).
type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// LinkPrediction добавляет recordID в predict_collection. Повторный вызов ничего не меняет.
func (u *UserRepo) LinkPrediction(ctx context.Context, userID, recordID string) error {
	q := tr.QuerierFromCtx(ctx, u.pool)

	query := `
		UPDATE users
		SET predict_collection = array_append(predict_collection, $2::text)
		WHERE id = $1
		  AND NOT ($2::text = ANY (predict_collection));
	`

	tag, err := q.Exec(ctx, query, userID, recordID)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	// Ничего не обновлено: либо ссылка уже есть, либо пользователя нет
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1);`, userID).Scan(&exists); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if !exists {
		return e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
	}

	return nil
}

// PredictionIDs читает predict_collection пользователя.
func (u *UserRepo) PredictionIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT predict_collection
		FROM users
		WHERE id = $1;
	`

	var ids []string
	if err := tr.QuerierFromCtx(ctx, u.pool).QueryRow(ctx, query, userID).Scan(&ids); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if ids == nil {
		ids = []string{}
	}

	return ids, nil
}
