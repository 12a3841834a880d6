package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/ecosort-tech/go-backend/pkg/logger"
)

// Этапы конвейера, под этими именами пишется длительность в метрики.
const (
	StageUploading   = "uploading"
	StageClassifying = "classifying"
	StagePromoting   = "promoting"
	StageRecording   = "recording"
	StageLinkingUser = "linking_user"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// PredictionUseCase проводит изображение через загрузку, классификацию, перенос в постоянное
// хранилище и запись в историю.
type PredictionUseCase struct {
	store          ObjectStore
	inference      InferenceClient
	historyRepo    HistoryRepository
	userRepo       UserIndexRepository
	cacheRepo      CacheRepository
	metrics        PipelineMetrics
	logger         logger.Logger
	cleanupTimeout time.Duration
}

func NewPredictionUC(
	store ObjectStore,
	inference InferenceClient,
	historyRepo HistoryRepository,
	userRepo UserIndexRepository,
	cacheRepo CacheRepository,
	metrics PipelineMetrics,
	logger logger.Logger,
	cleanupTimeout time.Duration,
) *PredictionUseCase {
	return &PredictionUseCase{
		store:          store,
		inference:      inference,
		historyRepo:    historyRepo,
		userRepo:       userRepo,
		cacheRepo:      cacheRepo,
		metrics:        metrics,
		logger:         logger,
		cleanupTimeout: cleanupTimeout,
	}
}

// Predict классифицирует изображение и сохраняет результат.
// Временный объект удаляется при любой ошибке до успешного переноса, повторов нет.
func (p *PredictionUseCase) Predict(ctx context.Context, req *PredictReq) (res *PredictRes, err error) {
	const op = "PredictionUseCase.Predict"

	defer func() {
		if err != nil {
			p.metrics.IncRequest(OutcomeFailed)
			return
		}
		p.metrics.IncRequest(OutcomeSuccess)
	}()

	// Валидация
	if err = p.validate(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Загрузка во временное пространство. Если не получилось, чистить нечего
	start := time.Now()
	temp, err := p.store.UploadTemp(ctx, NewUploadReq(req.Image.Data, req.Image.MimeType, req.Image.Name))
	p.metrics.ObserveStage(StageUploading, time.Since(start))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	promoted := false
	defer func() {
		if !promoted {
			p.cleanupTemp(ctx, temp.Key)
		}
	}()

	// Классификация по подписанной ссылке на временный объект
	start = time.Now()
	classification, err := p.classify(ctx, temp.Key, req.Image)
	p.metrics.ObserveStage(StageClassifying, time.Since(start))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Перенос в постоянное пространство
	start = time.Now()
	permanent, err := p.store.Promote(ctx, temp.Key)
	if err != nil {
		p.metrics.ObserveStage(StagePromoting, time.Since(start))
		return nil, e.Wrap(op, err)
	}
	promoted = true

	imageURL, err := p.store.SignedURL(ctx, permanent.Key)
	p.metrics.ObserveStage(StagePromoting, time.Since(start))
	if err != nil {
		// без ссылки объект бесполезен, записи о нём не будет
		p.cleanupObject(ctx, permanent.Key)
		return nil, e.Wrap(op, err)
	}

	// Запись в историю. Объект в постоянном хранилище при ошибке остаётся.
	// В журнал пишется ключ объекта, ссылка перевыпускается при каждом чтении
	start = time.Now()
	record, err := p.historyRepo.Append(ctx, domain.NewPredictionRecord(permanent.Key, imageURL, classification, req.UserID))
	p.metrics.ObserveStage(StageRecording, time.Since(start))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Привязка к пользователю не влияет на ответ
	start = time.Now()
	if linkErr := p.userRepo.LinkPrediction(ctx, req.UserID, record.ID); linkErr != nil {
		p.logger.Warnf(
			"Prediction recorded but not linked to user. user_id: %s, record_id: %s, error: %v",
			req.UserID,
			record.ID,
			e.Wrap(op, e.WithKind(e.ErrUserLinkFailed, linkErr)),
		)
	}
	p.metrics.ObserveStage(StageLinkingUser, time.Since(start))

	p.warmCache(record)

	return NewPredictRes(record), nil
}

// ListHistory возвращает все записи истории.
func (p *PredictionUseCase) ListHistory(ctx context.Context) ([]domain.PredictionRecord, error) {
	const op = "PredictionUseCase.ListHistory"

	records, err := p.historyRepo.ListAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	for i := range records {
		if err := p.refreshImageURL(ctx, &records[i]); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	return records, nil
}

// GetRecord возвращает запись истории, сначала пробуя кэш.
func (p *PredictionUseCase) GetRecord(ctx context.Context, id string) (*domain.PredictionRecord, error) {
	const op = "PredictionUseCase.GetRecord"

	cached, err := p.cacheRepo.GetRecord(ctx, id)
	if err != nil {
		p.logger.Warnf("Cache lookup failed, falling back to history: %v", e.Wrap(op, err))
	} else if cached != nil {
		if err := p.refreshImageURL(ctx, cached); err != nil {
			return nil, e.Wrap(op, err)
		}
		return cached, nil
	}

	record, err := p.historyRepo.Get(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.warmCache(record)

	if err := p.refreshImageURL(ctx, record); err != nil {
		return nil, e.Wrap(op, err)
	}

	return record, nil
}

// UserHistory возвращает записи, привязанные к пользователю, в порядке привязки.
// ID, которых нет в журнале, пропускаются.
func (p *PredictionUseCase) UserHistory(ctx context.Context, userID string) ([]domain.PredictionRecord, error) {
	const op = "PredictionUseCase.UserHistory"

	ids, err := p.userRepo.PredictionIDs(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	records := make([]domain.PredictionRecord, 0, len(ids))
	for _, id := range ids {
		record, err := p.GetRecord(ctx, id)
		if err != nil {
			if errors.Is(err, e.ErrRecordNotFound) {
				p.logger.Warnf("User predict collection references missing record. user_id: %s, record_id: %s", userID, id)
				continue
			}
			return nil, e.Wrap(op, err)
		}
		records = append(records, *record)
	}

	return records, nil
}

// refreshImageURL подписывает ссылку на изображение заново, срок отсчитывается от момента чтения.
// Записи без ключа объекта отдаются со ссылкой, сохранённой при записи.
func (p *PredictionUseCase) refreshImageURL(ctx context.Context, record *domain.PredictionRecord) error {
	if record.ImageKey == "" {
		return nil
	}

	url, err := p.store.SignedURL(ctx, record.ImageKey)
	if err != nil {
		return err
	}
	record.ImageURL = url

	return nil
}

// classify запрашивает классификацию. REST-сервис получает ссылку, gRPC — байты.
func (p *PredictionUseCase) classify(ctx context.Context, tempKey string, image *PredictImage) (*domain.Classification, error) {
	url, err := p.store.SignedURL(ctx, tempKey)
	if err != nil {
		return nil, err
	}

	return p.inference.Classify(ctx, NewClassifyReq(url, image.Data, image.MimeType))
}

// cleanupTemp удаляет временный объект. Ошибка только логируется.
func (p *PredictionUseCase) cleanupTemp(ctx context.Context, key string) {
	const op = "PredictionUseCase.cleanupTemp"

	p.logger.Infof("%s: Cleaning up temp object %s", op, key)
	p.cleanupObject(ctx, key)
}

func (p *PredictionUseCase) cleanupObject(ctx context.Context, key string) {
	const op = "PredictionUseCase.cleanupObject"

	// отмена запроса клиентом не должна прерывать очистку
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.cleanupTimeout)
	defer cancel()

	if err := p.store.Delete(ctx, key); err != nil {
		p.metrics.IncCleanupFailure()
		p.logger.Warnf("Failed to delete object. key: %s, error: %v", key, e.Wrap(op, err))
	}
}

// warmCache фоново кладёт запись в кэш.
func (p *PredictionUseCase) warmCache(record *domain.PredictionRecord) {
	const op = "PredictionUseCase.warmCache"

	// копия: вызывающий дальше меняет ImageURL
	rec := *record
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetRecord(bgCtx, &rec); err != nil {
			p.logger.Warnf("Failed to cache record in background: %v", e.Wrap(op, err))
		}
	}()
}

// validate проверяет наличие изображения и личности автора запроса.
func (p *PredictionUseCase) validate(req *PredictReq) error {
	if req == nil || req.Image == nil || len(req.Image.Data) == 0 {
		return e.ErrMissingImage
	}

	if req.UserID == "" {
		return e.ErrUnauthenticated
	}

	return nil
}
