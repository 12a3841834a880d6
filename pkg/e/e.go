package e

import (
	"errors"
	"fmt"
)

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = errors.New("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = errors.New("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest  = errors.New("bad request")
	ErrMissingImage      = errors.New("No image file provided")
	ErrExpectedMultipart = errors.New("expected multipart/form-data")

	// 401 Unauthorized
	ErrUnauthenticated = errors.New("Unauthorized: No token provided")
	ErrInvalidToken    = errors.New("Unauthorized: Invalid token")

	// 403, 408 и 500 от хранилища объектов
	ErrStorageUnauthorized = errors.New("Forbidden: Unauthorized access to storage")
	ErrStorageCanceled     = errors.New("Request Timeout: Upload canceled")
	ErrStorageUnknown      = errors.New("Internal Server Error: Unknown storage error")

	// 404 Not Found
	ErrRecordNotFound = errors.New("prediction record not found")
	ErrUserNotFound   = errors.New("User not found")

	// 413, 415
	ErrImageTooLarge        = errors.New("image is too large")
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// Ошибки сервиса классификации
	ErrInferenceUnreachable     = errors.New("inference service unreachable")
	ErrInferenceInvalidResponse = errors.New("inference service returned invalid response")
	ErrInferenceRemoteError     = errors.New("inference service returned error")

	// Не фатальная ошибка привязки предсказания к пользователю
	ErrUserLinkFailed = errors.New("failed to link prediction to user")

	// 500 Internal Server Error
	ErrInternalServerError = errors.New("Internal Server Error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// WithKind помечает ошибку err видом kind, сохраняя исходную причину в цепочке.
// errors.Is срабатывает и для kind, и для err.
func WithKind(kind error, err error) error {
	if err == nil {
		return kind
	}

	return fmt.Errorf("%w: %w", kind, err)
}
