package infrastructure

import (
	"path/filepath"
	"strings"

	"github.com/ecosort-tech/go-backend/pkg/e"
)

// knownImageExtensions — расширения, которые можно взять из имени файла клиента.
var knownImageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
	"gif":  {},
}

// GetExtensionFromMIME возвращает расширение файла по MIME-типу изображения.
// Поддерживает jpeg, jpg, png, webp, gif. Возвращает ошибку e.ErrUnsupportedMediaType для неподдерживаемых типов.
func GetExtensionFromMIME(mime string) (string, error) {
	switch mime {
	case "image/jpeg", "image/jpg":
		return "jpg", nil
	case "image/png":
		return "png", nil
	case "image/webp":
		return "webp", nil
	case "image/gif":
		return "gif", nil
	default:
		return "bin", e.ErrUnsupportedMediaType
	}
}

// ImageExtension выбирает расширение для имени объекта.
// Расширение из имени файла сохраняется, только если оно известно; иначе берётся по MIME-типу.
func ImageExtension(name string, mime string) (string, error) {
	fromMIME, err := GetExtensionFromMIME(mime)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if _, ok := knownImageExtensions[ext]; ok {
		return ext, nil
	}

	return fromMIME, nil
}
