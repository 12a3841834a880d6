package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/internal/repository/firestore/converter"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// HistoryRepo хранит журнал предсказаний в коллекции Firestore.
type HistoryRepo struct {
	client     *firestore.Client
	collection string
	conv       converter.PredictionRecordConverter
}

func NewHistoryRepo(client *firestore.Client, collection string) *HistoryRepo {
	return &HistoryRepo{
		client:     client,
		collection: collection,
	}
}

// Append создаёт документ с автоматическим ID.
func (h *HistoryRepo) Append(ctx context.Context, record *domain.PredictionRecord) (*domain.PredictionRecord, error) {
	const op = "FirestoreHistoryRepo.Append"

	rec := *record
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	ref := h.client.Collection(h.collection).NewDoc()
	if rec.ID != "" {
		ref = h.client.Collection(h.collection).Doc(rec.ID)
	}

	if _, err := ref.Create(ctx, h.conv.ToDoc(&rec)); err != nil {
		return nil, e.Wrap(op, err)
	}
	rec.ID = ref.ID

	return &rec, nil
}

// ListAll возвращает все записи по возрастанию timestamp.
func (h *HistoryRepo) ListAll(ctx context.Context) ([]domain.PredictionRecord, error) {
	snaps, err := h.client.Collection(h.collection).
		OrderBy("timestamp", firestore.Asc).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make([]domain.PredictionRecord, 0, len(snaps))
	for _, snap := range snaps {
		var doc converter.PredictionRecordDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *h.conv.ToEntity(snap.Ref.ID, &doc))
	}

	return result, nil
}

// Get возвращает запись по ID документа или e.ErrRecordNotFound.
func (h *HistoryRepo) Get(ctx context.Context, id string) (*domain.PredictionRecord, error) {
	snap, err := h.client.Collection(h.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrRecordNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var doc converter.PredictionRecordDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return h.conv.ToEntity(snap.Ref.ID, &doc), nil
}
