package gcs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"github.com/ecosort-tech/go-backend/internal/cfg"
	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"google.golang.org/api/googleapi"
)

// ImageRepo реализует репозиторий изображений поверх Firebase Storage (Google Cloud Storage).
type ImageRepo struct {
	bucket     *storage.BucketHandle
	signerID   string
	signerKey  []byte
	bucketName string
}

// NewImageRepo создаёт репозиторий. Если задан SignerKeyFile, ссылки подписываются этим ключом,
// иначе ключ и сервисный аккаунт берутся из учётных данных клиента.
func NewImageRepo(client *storage.Client, cfg *cfg.GCSCfg) (*ImageRepo, error) {
	repo := &ImageRepo{
		bucket:     client.Bucket(cfg.BucketName),
		signerID:   cfg.SignerEmail,
		bucketName: cfg.BucketName,
	}

	if cfg.SignerKeyFile != "" {
		key, err := os.ReadFile(cfg.SignerKeyFile)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		repo.signerKey = key
	}

	return repo, nil
}

// Upload загружает изображение и возвращает ключ объекта.
func (i *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	w := i.bucket.Object(image.ObjectKey).NewWriter(ctx)
	w.ContentType = image.ContentType

	if _, err := io.Copy(w, bytes.NewReader(image.Data)); err != nil {
		_ = w.Close()
		return "", e.Wrap(whereami.WhereAmI(), classifyError(ctx, err))
	}

	if err := w.Close(); err != nil {
		return "", e.Wrap(whereami.WhereAmI(), classifyError(ctx, err))
	}

	return image.ObjectKey, nil
}

// Copy копирует объект внутри бакета на стороне сервера.
func (i *ImageRepo) Copy(ctx context.Context, srcKey, dstKey string) error {
	src := i.bucket.Object(srcKey)
	dst := i.bucket.Object(dstKey)

	if _, err := dst.CopierFrom(src).Run(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), classifyError(ctx, err))
	}

	return nil
}

// Delete удаляет объект. Отсутствующий объект ошибкой не считается.
func (i *ImageRepo) Delete(ctx context.Context, key string) error {
	err := i.bucket.Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return e.Wrap(whereami.WhereAmI(), classifyError(ctx, err))
	}

	return nil
}

// SignedURL возвращает ссылку на чтение по схеме V2, у которой нет ограничения в 7 дней.
func (i *ImageRepo) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Method:         http.MethodGet,
		Expires:        time.Now().Add(expiry),
		Scheme:         storage.SigningSchemeV2,
		GoogleAccessID: i.signerID,
		PrivateKey:     i.signerKey,
	}

	u, err := i.bucket.SignedURL(key, opts)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), classifyError(ctx, err))
	}

	return u, nil
}

// classifyError относит ошибку GCS к одному из видов отказа хранилища.
func classifyError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return e.WithKind(e.ErrStorageCanceled, err)
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden) {
		return e.WithKind(e.ErrStorageUnauthorized, err)
	}

	return e.WithKind(e.ErrStorageUnknown, err)
}
