package auth

import (
	"context"
	"errors"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/ecosort-tech/go-backend/internal/cfg"
	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/ecosort-tech/go-backend/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jimlawless/whereami"
)

var errMissingSubject = errors.New("token has no subject")

// FirebaseClaims — полезная нагрузка ID-токена Firebase Authentication.
type FirebaseClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenVerifier проверяет ID-токены: подпись, алгоритм, издателя, аудиторию и срок действия.
type TokenVerifier struct {
	keyfunc jwt.Keyfunc
	parser  *jwt.Parser
}

func NewTokenVerifier(keyfunc jwt.Keyfunc, cfg *cfg.AuthCfg) *TokenVerifier {
	return &TokenVerifier{
		keyfunc: keyfunc,
		parser: jwt.NewParser(
			jwt.WithValidMethods(cfg.SigningMethods),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithAudience(cfg.Audience),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(5*time.Second),
		),
	}
}

// NewJWKSKeyfunc загружает публичные ключи по JWKS URL и периодически их обновляет.
// Фоновое обновление останавливается через EndBackground.
func NewJWKSKeyfunc(cfg *cfg.AuthCfg, logger logger.Logger) (*keyfunc.JWKS, error) {
	jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshTimeout:    10 * time.Second,
		RefreshRateLimit:  5 * time.Minute,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Warnf("Error refreshing JWKS: %v", err)
		},
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return jwks, nil
}

// Verify возвращает личность владельца токена.
func (v *TokenVerifier) Verify(_ context.Context, token string) (*domain.Identity, error) {
	const op = "TokenVerifier.Verify"

	if token == "" {
		return nil, e.Wrap(op, e.ErrUnauthenticated)
	}

	var claims FirebaseClaims
	if _, err := v.parser.ParseWithClaims(token, &claims, v.keyfunc); err != nil {
		return nil, e.Wrap(op, e.WithKind(e.ErrInvalidToken, err))
	}

	if claims.Subject == "" {
		return nil, e.Wrap(op, e.WithKind(e.ErrInvalidToken, errMissingSubject))
	}

	return &domain.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
	}, nil
}
