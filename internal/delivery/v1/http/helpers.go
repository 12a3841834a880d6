package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ecosort-tech/go-backend/internal/infrastructure"
	"github.com/ecosort-tech/go-backend/internal/usecase"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

// sniffLen — сколько байт смотрит http.DetectContentType.
const sniffLen = 512

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ToHTTPResponse сопоставляет ошибку со статусом и публичным сообщением.
// Внутренние подробности наружу не попадают.
func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrMissingImage), errors.Is(err, e.ErrExpectedMultipart):
		// тело не multipart — изображения в запросе тоже нет
		return http.StatusBadRequest, e.ErrMissingImage.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrUnauthenticated):
		return http.StatusUnauthorized, e.ErrUnauthenticated.Error()
	case errors.Is(err, e.ErrInvalidToken):
		return http.StatusUnauthorized, e.ErrInvalidToken.Error()
	case errors.Is(err, e.ErrStorageUnauthorized):
		return http.StatusForbidden, e.ErrStorageUnauthorized.Error()
	case errors.Is(err, e.ErrRecordNotFound):
		return http.StatusNotFound, e.ErrRecordNotFound.Error()
	case errors.Is(err, e.ErrUserNotFound):
		return http.StatusNotFound, e.ErrUserNotFound.Error()
	case errors.Is(err, e.ErrStorageCanceled):
		return http.StatusRequestTimeout, e.ErrStorageCanceled.Error()
	case errors.Is(err, e.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, e.ErrImageTooLarge.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrStorageUnknown):
		return http.StatusInternalServerError, e.ErrStorageUnknown.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// ensureMultipartForm разбирает multipart-тело. Превышение лимита тела — e.ErrImageTooLarge.
func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return e.Wrap(whereami.WhereAmI(), e.ErrImageTooLarge)
		}
		return e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStatusBadRequest, err))
	}

	return nil
}

// parseImage читает первый файл поля field целиком в память и определяет его тип по содержимому.
func parseImage(form *multipart.Form, field string) (*usecase.PredictImage, error) {
	if form == nil || len(form.File[field]) == 0 {
		return nil, e.ErrMissingImage
	}
	fh := form.File[field][0]

	data, err := readFile(fh)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, e.ErrMissingImage
	}

	mimeType := http.DetectContentType(data[:min(len(data), sniffLen)])
	if _, err := infrastructure.GetExtensionFromMIME(mimeType); err != nil {
		return nil, e.Wrap(mimeType, err)
	}

	return usecase.NewPredictImage(data, mimeType, fh.Filename), nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return data, nil
}
