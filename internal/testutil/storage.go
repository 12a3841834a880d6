// Package testutil содержит in-memory реализации репозиториев и клиентов для тестов.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ecosort-tech/go-backend/internal/domain"
)

type storedImage struct {
	data        []byte
	contentType string
}

// MemoryImageRepo — хранилище объектов в памяти. Поля *Err включают отказы соответствующих операций.
type MemoryImageRepo struct {
	mu      sync.Mutex
	objects map[string]storedImage

	UploadErr error
	CopyErr   error
	DeleteErr error
	SignErr   error
	// SignErrPrefix ограничивает SignErr ключами с этим префиксом.
	SignErrPrefix string

	Uploads int
	Deletes int
}

func NewMemoryImageRepo() *MemoryImageRepo {
	return &MemoryImageRepo{objects: make(map[string]storedImage)}
}

func (m *MemoryImageRepo) Upload(_ context.Context, image *domain.Image) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Uploads++
	if m.UploadErr != nil {
		return "", m.UploadErr
	}

	m.objects[image.ObjectKey] = storedImage{data: image.Data, contentType: image.ContentType}
	return image.ObjectKey, nil
}

func (m *MemoryImageRepo) Copy(_ context.Context, srcKey, dstKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CopyErr != nil {
		return m.CopyErr
	}

	obj, ok := m.objects[srcKey]
	if !ok {
		return fmt.Errorf("object %s not found", srcKey)
	}

	m.objects[dstKey] = obj
	return nil
}

func (m *MemoryImageRepo) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Deletes++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	delete(m.objects, key)
	return nil
}

func (m *MemoryImageRepo) SignedURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SignErr != nil && strings.HasPrefix(key, m.SignErrPrefix) {
		return "", m.SignErr
	}

	return fmt.Sprintf("https://storage.test/%s?expires=%d", key, int64(expiry.Seconds())), nil
}

// Keys возвращает отсортированные ключи объектов с префиксом prefix.
func (m *MemoryImageRepo) Keys(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0)
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	return keys
}

// Object возвращает байты объекта.
func (m *MemoryImageRepo) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[key]
	return obj.data, ok
}
