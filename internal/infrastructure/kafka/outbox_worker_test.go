package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ecosort-tech/go-backend/internal/cfg"
	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/internal/usecase"
	"github.com/ecosort-tech/go-backend/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOutboxRepo struct {
	mu        sync.Mutex
	pending   []*usecase.OutboxEvent
	processed []int64
	fetchErr  error
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event.ID = int64(len(f.pending) + 1)
	f.pending = append(f.pending, event)
	return event, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	var out []*usecase.OutboxEvent
	for _, ev := range f.pending {
		if ev.Status == usecase.Pending && len(out) < limit {
			ev.Status = usecase.Processing
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range f.pending {
		if ev.ID == id {
			ev.Status = usecase.Processed
		}
	}
	f.processed = append(f.processed, id)
	return nil
}

type fakeProducer struct {
	mu   sync.Mutex
	sent []*usecase.WriteRawMessageReq
	err  error
}

func (f *fakeProducer) WriteRawMessage(_ context.Context, req *usecase.WriteRawMessageReq) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, req)
	return nil
}

func addEvents(t *testing.T, repo *fakeOutboxRepo, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		ev, err := usecase.NewPredictionRecordedEvent(&domain.PredictionRecord{ID: "rec", UserID: "user-1", PredictedClass: "glass"})
		require.NoError(t, err)
		_, err = repo.Create(context.Background(), ev)
		require.NoError(t, err)
	}
}

func TestOutboxWorker_DrainPublishesAll(t *testing.T) {
	repo := &fakeOutboxRepo{}
	producer := &fakeProducer{}
	addEvents(t, repo, outboxBatchSize+3)

	w := NewOutboxWorker(repo, logger.NewNopLogger(), producer, "")
	w.drain(context.Background())

	require.Len(t, producer.sent, outboxBatchSize+3)
	assert.Equal(t, "user-1", producer.sent[0].Key)
	assert.Contains(t, string(producer.sent[0].Payload), `"predicted_class":"glass"`)
	assert.Len(t, repo.processed, outboxBatchSize+3)
}

func TestOutboxWorker_PublishFailureLeavesEventUnprocessed(t *testing.T) {
	repo := &fakeOutboxRepo{}
	producer := &fakeProducer{err: errors.New("kafka: broker not available")}
	addEvents(t, repo, 2)

	w := NewOutboxWorker(repo, logger.NewNopLogger(), producer, "")
	hasMore, err := w.processBatch(context.Background())
	require.NoError(t, err)
	assert.False(t, hasMore)

	assert.Empty(t, repo.processed)
	for _, ev := range repo.pending {
		assert.Equal(t, usecase.Processing, ev.Status)
	}
}

func TestOutboxWorker_FetchErrorStopsDrain(t *testing.T) {
	repo := &fakeOutboxRepo{fetchErr: errors.New("db down")}
	producer := &fakeProducer{}

	w := NewOutboxWorker(repo, logger.NewNopLogger(), producer, "")
	w.drain(context.Background())

	assert.Empty(t, producer.sent)
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(errors.New("dial tcp 10.0.0.1:9092: i/o timeout")))
	assert.False(t, isRetryableError(errors.New("message too large")))
	assert.False(t, isRetryableError(nil))
}

type recordingWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (r *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	r.msgs = append(r.msgs, msgs...)
	return nil
}

func (r *recordingWriter) Close() error {
	r.closed = true
	return nil
}

func TestProducer_WriteRawMessage(t *testing.T) {
	p := NewProducer(logger.NewNopLogger(), &cfg.KafkaCfg{Brokers: []string{"localhost:9092"}, Topic: "predictions"})
	w := &recordingWriter{}
	p.writer = w

	require.NoError(t, p.WriteRawMessage(context.Background(), usecase.NewWriteRawMessageReq("user-1", []byte(`{}`))))
	require.NoError(t, p.Close())

	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("user-1"), w.msgs[0].Key)
	assert.Equal(t, []byte(`{}`), w.msgs[0].Value)
	assert.True(t, w.closed)
}
