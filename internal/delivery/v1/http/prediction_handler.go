package http

import (
	"net/http"
	"time"

	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/internal/usecase"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/ecosort-tech/go-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const imageField = "image"

// PredictResponse — тело успешного ответа POST /predict.
type PredictResponse struct {
	ImageURL       string             `json:"imageUrl"`
	PredictedClass string             `json:"predicted_class"`
	WasteType      string             `json:"waste_type"`
	Probabilities  map[string]float64 `json:"probabilities"`
}

// PredictionRecordResponse — запись истории в ответах API.
type PredictionRecordResponse struct {
	ID             string             `json:"id"`
	ImageURL       string             `json:"imageUrl"`
	PredictedClass string             `json:"predicted_class"`
	WasteType      string             `json:"waste_type"`
	Probabilities  map[string]float64 `json:"probabilities"`
	Timestamp      time.Time          `json:"timestamp"`
	UserID         string             `json:"userId"`
}

type PredictHistoryResponse struct {
	PredictHistory []PredictionRecordResponse `json:"predictHistory"`
}

// UserPredictionsResponse — записи, привязанные к пользователю.
type UserPredictionsResponse struct {
	PredictHistoryItems []PredictionRecordResponse `json:"predictHistoryItems"`
}

func newPredictResponse(res *usecase.PredictRes) *PredictResponse {
	return &PredictResponse{
		ImageURL:       res.ImageURL,
		PredictedClass: res.PredictedClass,
		WasteType:      res.WasteType,
		Probabilities:  res.Probabilities,
	}
}

func newPredictionRecordResponses(records []domain.PredictionRecord) []PredictionRecordResponse {
	res := make([]PredictionRecordResponse, 0, len(records))
	for i := range records {
		res = append(res, newPredictionRecordResponse(&records[i]))
	}

	return res
}

func newPredictionRecordResponse(rec *domain.PredictionRecord) PredictionRecordResponse {
	return PredictionRecordResponse{
		ID:             rec.ID,
		ImageURL:       rec.ImageURL,
		PredictedClass: rec.PredictedClass,
		WasteType:      rec.WasteType,
		Probabilities:  rec.Probabilities,
		Timestamp:      rec.Timestamp,
		UserID:         rec.UserID,
	}
}

type PredictionHandler struct {
	predictionUsecase usecase.PredictionUC
	maxUploadSize     int64
	logger            logger.Logger
}

func NewPredictionHandler(predictionUsecase usecase.PredictionUC, maxUploadSize int64, logger logger.Logger) *PredictionHandler {
	return &PredictionHandler{
		predictionUsecase: predictionUsecase,
		maxUploadSize:     maxUploadSize,
		logger:            logger,
	}
}

// predict
//
//	@Summary		Классификация изображения отходов
//	@Description	Загружает изображение, классифицирует его и сохраняет результат в историю
//	@Tags			predict
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			image	formData	file			true	"Изображение (jpeg, png, webp, gif)"
//	@Success		200		{object}	PredictResponse	"Результат классификации"
//	@Failure		400		{object}	ErrorResponse	"Нет изображения"
//	@Failure		401		{object}	ErrorResponse	"Нет или неверный токен"
//	@Failure		403		{object}	ErrorResponse	"Нет доступа к хранилищу"
//	@Failure		408		{object}	ErrorResponse	"Загрузка отменена"
//	@Failure		413		{object}	ErrorResponse	"Слишком большое изображение"
//	@Failure		415		{object}	ErrorResponse	"Неподдерживаемый тип"
//	@Failure		500		{object}	ErrorResponse	"Внутренняя ошибка"
//	@Router			/predict [post]
func (p *PredictionHandler) predict(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 32 << 20

	identity, ok := IdentityFromCtx(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthenticated)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, p.maxUploadSize)

	if err := ensureMultipartForm(r, min(maxMemory, p.maxUploadSize)); err != nil {
		p.logger.Warnf("%d %s: %v", http.StatusBadRequest, r.Header.Get("Content-Type"), err)
		WriteError(w, err)
		return
	}

	image, err := parseImage(r.MultipartForm, imageField)
	// временные файлы multipart удаляются до ответа при любом исходе
	if rmErr := r.MultipartForm.RemoveAll(); rmErr != nil {
		p.logger.Warnf("Failed to remove multipart temp files: %v", rmErr)
	}
	if err != nil {
		p.logger.Warnf("Rejected upload: %v", err)
		WriteError(w, err)
		return
	}

	res, err := p.predictionUsecase.Predict(r.Context(), usecase.NewPredictReq(image, identity.UserID))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newPredictResponse(res))
}

// listCollections
//
//	@Summary		История предсказаний
//	@Tags			predict
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	PredictHistoryResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/predict/collections [get]
func (p *PredictionHandler) listCollections(w http.ResponseWriter, r *http.Request) {
	records, err := p.predictionUsecase.ListHistory(r.Context())
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, PredictHistoryResponse{PredictHistory: newPredictionRecordResponses(records)})
}

// getRecord
//
//	@Summary		Запись истории по ID
//	@Tags			predict
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"ID записи"
//	@Success		200	{object}	PredictionRecordResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/predict/{id} [get]
func (p *PredictionHandler) getRecord(w http.ResponseWriter, r *http.Request) {
	record, err := p.predictionUsecase.GetRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newPredictionRecordResponse(record))
}

// listUserPredictions
//
//	@Summary		Предсказания пользователя
//	@Tags			users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			userId	path		string	true	"ID пользователя"
//	@Success		200		{object}	UserPredictionsResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/users/{userId}/predictions [get]
func (p *PredictionHandler) listUserPredictions(w http.ResponseWriter, r *http.Request) {
	records, err := p.predictionUsecase.UserHistory(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, UserPredictionsResponse{PredictHistoryItems: newPredictionRecordResponses(records)})
}

// healthz
//
//	@Summary	Проверка живости
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/healthz [get]
func healthz(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
