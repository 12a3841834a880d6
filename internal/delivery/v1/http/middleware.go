package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/ecosort-tech/go-backend/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// TokenVerifier проверяет bearer-токен и возвращает личность пользователя.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}

type identityKey struct{}

// IdentityFromCtx возвращает личность, установленную requireAuth.
func IdentityFromCtx(ctx context.Context) (*domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*domain.Identity)
	return id, ok
}

// requireAuth пропускает запрос дальше только с валидным Authorization: Bearer <token>.
func requireAuth(verifier TokenVerifier, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := verifier.Verify(r.Context(), bearerToken(r))
			if err != nil {
				log.Warnf("%d %s %s: %v", http.StatusUnauthorized, r.Method, r.URL.Path, err)
				WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, identity)))
		})
	}
}

// bearerToken достаёт токен из заголовка Authorization. Без схемы Bearer — пустая строка.
func bearerToken(r *http.Request) string {
	const prefix = "bearer "

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}

// accessLog пишет метод, путь, статус и длительность каждого запроса.
func accessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Infof("%s %s %d %s request_id=%s",
				r.Method,
				r.URL.Path,
				ww.Status(),
				time.Since(start),
				middleware.GetReqID(r.Context()),
			)
		})
	}
}

// recoverer отвечает 500 вместо обрыва соединения при панике в обработчике.
func recoverer(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Errorf(e.ErrInternalServerError, "panic in %s %s: %v", r.Method, r.URL.Path, rec)
					WriteError(w, e.ErrInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
