package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pribylovaa/go-task-tracker/internal/transport/http/httperr"

	"github.com/google/uuid"
)

type userIDKey struct{}

// AccessVerifier проверяет access-токен и возвращает ID пользователя.
// Реализуется сервисным слоем (service.ValidateAccessToken).
type AccessVerifier interface {
	ValidateAccessToken(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate — охранный мидлвар для маршрутов с per-user данными.
//
// Извлекает Bearer-токен из Authorization, верифицирует его и кладёт
// ID пользователя в контекст запроса. Отказы:
//   - заголовок отсутствует или без префикса "Bearer " -> 401 no_token;
//   - токен не прошёл верификацию -> 401 invalid_token.
//
// Дальше по цепочке запрос уходит только с установленным userID.
func Authenticate(verifier AccessVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httperr.WriteCode(w, r, http.StatusUnauthorized, "no_token", "no token provided")
				return
			}

			uid, err := verifier.ValidateAccessToken(r.Context(), token)
			if err != nil {
				httperr.WriteCode(w, r, http.StatusUnauthorized, "invalid_token", "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFrom достаёт ID аутентифицированного пользователя из контекста.
func UserIDFrom(ctx context.Context) (uuid.UUID, bool) {
	uid, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	return uid, ok
}

// bearerToken извлекает токен из заголовка Authorization ("Bearer <token>").
func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")

	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}

	token := strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", false
	}

	return token, true
}
