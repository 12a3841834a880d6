package minio

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/ecosort-tech/go-backend/internal/cfg"
	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// maxPresignExpiry — ограничение S3 на срок действия подписанной ссылки.
const maxPresignExpiry = 7 * 24 * time.Hour

// ImageRepo реализует репозиторий изображений поверх MinIO.
type ImageRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewImageRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Upload загружает изображение в MinIO и возвращает ключ объекта.
func (i *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	reader := bytes.NewReader(image.Data)

	info, err := i.mc.PutObject(ctx, i.cfg.BucketName, image.ObjectKey, reader, image.Size, minio.PutObjectOptions{
		ContentType: image.ContentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), classifyError(ctx, err))
	}

	return info.Key, nil
}

// Copy копирует объект внутри бакета на стороне сервера.
func (i *ImageRepo) Copy(ctx context.Context, srcKey, dstKey string) error {
	dst := minio.CopyDestOptions{Bucket: i.cfg.BucketName, Object: dstKey}
	src := minio.CopySrcOptions{Bucket: i.cfg.BucketName, Object: srcKey}

	if _, err := i.mc.CopyObject(ctx, dst, src); err != nil {
		return e.Wrap(whereami.WhereAmI(), classifyError(ctx, err))
	}

	return nil
}

// Delete удаляет объект из MinIO по указанному ключу.
func (i *ImageRepo) Delete(ctx context.Context, key string) error {
	if err := i.mc.RemoveObject(ctx, i.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), classifyError(ctx, err))
	}

	return nil
}

// SignedURL возвращает presigned GET-ссылку. Срок больше 7 дней S3 не принимает, он урезается:
// журнал хранит ключ объекта, и ссылка перевыпускается при каждом чтении записи.
func (i *ImageRepo) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry > maxPresignExpiry {
		expiry = maxPresignExpiry
	}

	u, err := i.mc.PresignedGetObject(ctx, i.cfg.BucketName, key, expiry, url.Values{})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), classifyError(ctx, err))
	}

	return u.String(), nil
}

// classifyError относит ошибку MinIO к одному из видов отказа хранилища.
func classifyError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return e.WithKind(e.ErrStorageCanceled, err)
	}

	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "InvalidToken":
		return e.WithKind(e.ErrStorageUnauthorized, err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return e.WithKind(e.ErrStorageUnauthorized, err)
	}

	return e.WithKind(e.ErrStorageUnknown, err)
}
