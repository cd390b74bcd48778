// Package middlewarectx содержит HTTP middleware для проверки сессии.
//
// SessionMiddleware достаёт сессионный токен из cookie, валидирует его через
// сервис пользователей и кладёт в контекст запроса идентификатор и роль
// вызывающего. Обработчики получают разрешённую личность только из контекста,
// никакого наследуемого состояния у них нет.
//
// Любая ошибка проверки — это "не аутентифицирован" (HTTP 401 с оболочкой
// ошибки), не ошибка сервера.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-hub/internal/http/response"
	"github.com/magabrotheeeer/user-hub/internal/http/sessioncookie"
	"github.com/magabrotheeeer/user-hub/internal/lib/sl"
	"github.com/magabrotheeeer/user-hub/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для идентификатора пользователя в контексте
	UserUID Key = "uid"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
)

// Service описывает интерфейс сервиса для валидации сессионного токена.
type Service interface {
	ValidateSession(ctx context.Context, token string) (*models.User, error)
}

// SessionMiddleware возвращает HTTP middleware, который проверяет сессионную
// cookie. Если токен валиден, добавляет uid и роль пользователя в контекст
// запроса, иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func SessionMiddleware(userService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			cookie, err := r.Cookie(sessioncookie.TokenCookie)
			if err != nil || cookie.Value == "" {
				log.Error("missing session cookie")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(response.CodeForbidden, "without permission"))
				return
			}

			user, err := userService.ValidateSession(r.Context(), cookie.Value)
			if err != nil {
				log.Error("invalid or expired session token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(response.CodeForbidden, "without permission"))
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, user.UID)
			ctx = context.WithValue(ctx, Role, user.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
