package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/google/uuid"
)

// MemoryHistory — журнал предсказаний в памяти.
type MemoryHistory struct {
	mu      sync.Mutex
	records []domain.PredictionRecord

	AppendErr error
	Gets      int
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

func (h *MemoryHistory) Append(_ context.Context, record *domain.PredictionRecord) (*domain.PredictionRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.AppendErr != nil {
		return nil, h.AppendErr
	}

	rec := *record
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	h.records = append(h.records, rec)

	return &rec, nil
}

func (h *MemoryHistory) ListAll(_ context.Context) ([]domain.PredictionRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.PredictionRecord, len(h.records))
	copy(out, h.records)

	return out, nil
}

func (h *MemoryHistory) Get(_ context.Context, id string) (*domain.PredictionRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.Gets++
	for _, rec := range h.records {
		if rec.ID == id {
			r := rec
			return &r, nil
		}
	}

	return nil, e.ErrRecordNotFound
}

// MemoryUsers — индекс предсказаний пользователей в памяти.
type MemoryUsers struct {
	mu    sync.Mutex
	users map[string][]string

	LinkErr error
}

func NewMemoryUsers(ids ...string) *MemoryUsers {
	u := &MemoryUsers{users: make(map[string][]string)}
	for _, id := range ids {
		u.users[id] = []string{}
	}

	return u
}

func (u *MemoryUsers) LinkPrediction(_ context.Context, userID, recordID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.LinkErr != nil {
		return u.LinkErr
	}

	collection, ok := u.users[userID]
	if !ok {
		return e.ErrUserNotFound
	}

	for _, id := range collection {
		if id == recordID {
			return nil
		}
	}
	u.users[userID] = append(collection, recordID)

	return nil
}

func (u *MemoryUsers) PredictionIDs(_ context.Context, userID string) ([]string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	collection, ok := u.users[userID]
	if !ok {
		return nil, e.ErrUserNotFound
	}

	return append([]string{}, collection...), nil
}

// Collection возвращает список предсказаний пользователя.
func (u *MemoryUsers) Collection(userID string) []string {
	u.mu.Lock()
	defer u.mu.Unlock()

	return append([]string(nil), u.users[userID]...)
}

// MemoryCache — кэш записей в памяти.
type MemoryCache struct {
	mu      sync.Mutex
	records map[string]domain.PredictionRecord

	GetErr error
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{records: make(map[string]domain.PredictionRecord)}
}

func (c *MemoryCache) GetRecord(_ context.Context, id string) (*domain.PredictionRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.GetErr != nil {
		return nil, c.GetErr
	}

	rec, ok := c.records[id]
	if !ok {
		return nil, nil
	}

	return &rec, nil
}

func (c *MemoryCache) SetRecord(_ context.Context, record *domain.PredictionRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records[record.ID] = *record
	return nil
}
