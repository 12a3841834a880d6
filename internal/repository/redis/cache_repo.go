package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ecosort-tech/go-backend/internal/cfg"
	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/internal/repository/redis/converter"
	"github.com/ecosort-tech/go-backend/pkg/clients"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/ecosort-tech/go-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.PredictionRecordConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// GetRecord возвращает запись из кэша. Промах — (nil, nil).
func (c *CacheRepo) GetRecord(ctx context.Context, id string) (*domain.PredictionRecord, error) {
	key := recordKey(id)

	data, err := c.client.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil // cache miss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.PredictionRecordRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		c.drop(key)
		return nil, nil
	}

	if model.ID != id {
		c.logger.Warnf("Cache ID mismatch: key_id: %s, model_id: %s", id, model.ID)
		c.drop(key)
		return nil, nil
	}

	return c.conv.ToEntity(&model), nil
}

// SetRecord кладёт запись в кэш на cfg.RecordTTL.
func (c *CacheRepo) SetRecord(ctx context.Context, record *domain.PredictionRecord) error {
	data, err := json.Marshal(c.conv.ToRedisModel(record))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, recordKey(record.ID), data, c.cfg.RecordTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// drop удаляет битую запись, чтобы следующий запрос ушёл в журнал.
func (c *CacheRepo) drop(key string) {
	if err := c.client.Client.Del(context.Background(), key).Err(); err != nil {
		c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

// recordKey возвращает Redis-ключ для записи истории
func recordKey(id string) string {
	return fmt.Sprintf("prediction:%s", id)
}

// NopCacheRepo используется, когда Redis выключен: всегда промах.
type NopCacheRepo struct{}

func (NopCacheRepo) GetRecord(context.Context, string) (*domain.PredictionRecord, error) {
	return nil, nil
}

func (NopCacheRepo) SetRecord(context.Context, *domain.PredictionRecord) error {
	return nil
}
