package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/ecosort-tech/go-backend/internal/repository/firestore/converter"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const predictCollectionField = "predictCollection"

// UserRepo дописывает ID записей в массив predictCollection документа пользователя.
type UserRepo struct {
	client     *firestore.Client
	collection string
}

func NewUserRepo(client *firestore.Client, collection string) *UserRepo {
	return &UserRepo{
		client:     client,
		collection: collection,
	}
}

// LinkPrediction идемпотентен за счёт ArrayUnion.
func (u *UserRepo) LinkPrediction(ctx context.Context, userID, recordID string) error {
	_, err := u.client.Collection(u.collection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: predictCollectionField, Value: firestore.ArrayUnion(recordID)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// PredictionIDs читает массив predictCollection документа пользователя.
func (u *UserRepo) PredictionIDs(ctx context.Context, userID string) ([]string, error) {
	snap, err := u.client.Collection(u.collection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var doc converter.UserDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if doc.PredictCollection == nil {
		doc.PredictCollection = []string{}
	}

	return doc.PredictCollection, nil
}
