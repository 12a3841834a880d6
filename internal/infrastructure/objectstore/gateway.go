package objectstore

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/ecosort-tech/go-backend/internal/cfg"
	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/internal/infrastructure"
	"github.com/ecosort-tech/go-backend/internal/usecase"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/ecosort-tech/go-backend/pkg/logger"
	"github.com/google/uuid"
)

// Gateway раскладывает изображения по временному и постоянному пространствам хранилища.
// Имена объектов генерируются здесь: <prefix>/<uuid>.<ext>, имя файла клиента в ключ не попадает.
type Gateway struct {
	repo   usecase.ImageRepository
	cfg    *cfg.StorageCfg
	logger logger.Logger
}

func NewGateway(repo usecase.ImageRepository, cfg *cfg.StorageCfg, logger logger.Logger) *Gateway {
	return &Gateway{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// UploadTemp загружает изображение во временное пространство.
func (g *Gateway) UploadTemp(ctx context.Context, req *usecase.UploadReq) (*usecase.StoredObject, error) {
	const op = "Gateway.UploadTemp"

	ext, err := infrastructure.ImageExtension(req.Name, req.MimeType)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("invalid mime type %s: %w", req.MimeType, err))
	}

	imageID := uuid.NewString()
	image := domain.NewImage(imageID, objectKey(g.cfg.TempPrefix, imageID, ext), req.Data, req.MimeType)

	key, err := g.repo.Upload(ctx, image)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return usecase.NewStoredObject(key, req.MimeType), nil
}

// SignedURL возвращает ссылку на объект со встроенным правом чтения.
func (g *Gateway) SignedURL(ctx context.Context, key string) (string, error) {
	const op = "Gateway.SignedURL"

	url, err := g.repo.SignedURL(ctx, key, g.cfg.SignedURLTTL)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return url, nil
}

// Promote переносит временный объект в постоянное пространство под новым именем.
// При ошибке копирования исходный объект не трогается. Ошибка удаления исходника
// после успешного копирования только логируется.
func (g *Gateway) Promote(ctx context.Context, tempKey string) (*usecase.StoredObject, error) {
	const op = "Gateway.Promote"

	ext, err := extFromKey(tempKey)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	permanentKey := objectKey(g.cfg.PermanentPrefix, uuid.NewString(), ext)
	if err := g.repo.Copy(ctx, tempKey, permanentKey); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := g.repo.Delete(ctx, tempKey); err != nil {
		g.logger.Warnf("Promoted object but temp source was not removed. key: %s, error: %v", tempKey, e.Wrap(op, err))
	}

	return usecase.NewStoredObject(permanentKey, ""), nil
}

// Delete удаляет объект.
func (g *Gateway) Delete(ctx context.Context, key string) error {
	const op = "Gateway.Delete"

	if err := g.repo.Delete(ctx, key); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func objectKey(prefix string, id string, ext string) string {
	return fmt.Sprintf("%s/%s.%s", prefix, id, ext)
}

// extFromKey достаёт расширение из ключа, созданного objectKey.
func extFromKey(key string) (string, error) {
	ext := strings.TrimPrefix(path.Ext(key), ".")
	if ext == "" {
		return "", fmt.Errorf("object key %q has no extension", key)
	}

	return ext, nil
}
